// Package model содержит доменные сущности кассы магазина.
package model

import (
	"fmt"
	"strings"
)

// Product описывает одну складскую партию товара.
// У товара может быть две записи с одним названием: промо-партия и обычная партия.
type Product struct {
	Name      string
	Price     int
	Stock     int
	Promotion string
}

// NewProduct проверяет поля записи и создаёт партию товара.
func NewProduct(name string, price, stock int, promotion string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: blank name", ErrInvalidProduct)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: %s price %d", ErrInvalidProduct, name, price)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: %s stock %d", ErrInvalidProduct, name, stock)
	}

	return &Product{
		Name:      name,
		Price:     price,
		Stock:     stock,
		Promotion: strings.TrimSpace(promotion),
	}, nil
}

// HasPromotion сообщает, относится ли запись к промо-партии.
func (p *Product) HasPromotion() bool {
	return p.Promotion != ""
}

// DecreaseStock списывает указанное количество, не допуская отрицательного остатка.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if quantity > p.Stock {
		return fmt.Errorf("%w: %s requested %d, in stock %d", ErrInsufficientStock, p.Name, quantity, p.Stock)
	}
	p.Stock -= quantity
	return nil
}

// IncreaseStock возвращает на склад ранее списанные единицы.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	p.Stock += quantity
	return nil
}

// OrderLine описывает одну позицию заказа покупателя.
type OrderLine struct {
	ProductName string
	Quantity    int
}

// NewOrderLine создаёт позицию заказа с положительным количеством.
func NewOrderLine(productName string, quantity int) (OrderLine, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return OrderLine{}, fmt.Errorf("%w: blank product name", ErrInvalidOrderSyntax)
	}
	if quantity <= 0 {
		return OrderLine{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	return OrderLine{ProductName: productName, Quantity: quantity}, nil
}

// Allocation описывает, из каких партий набирается позиция заказа.
type Allocation struct {
	PromotionalPaid int
	Normal          int
	Free            int
	// Overflow: часть Normal, которая берётся из остатка промо-партии по полной цене.
	Overflow        int
}

// Total возвращает общее количество единиц, которое получит покупатель.
func (a Allocation) Total() int {
	return a.PromotionalPaid + a.Normal + a.Free
}

// IsEmpty сообщает, что по распределению ничего не отпускается.
func (a Allocation) IsEmpty() bool {
	return a.Total() == 0
}

// CartLine описывает принятую позицию корзины.
type CartLine struct {
	ProductName string
	Quantity    int
	// Free содержит количество бесплатных единиц, фактически выделенных по акции.
	Free        int
	Promotional bool
	// Gift помечает строку подарка для чека; в сумму она не входит.
	Gift        bool
}

// ReceiptItem описывает строку раздела покупок в чеке.
type ReceiptItem struct {
	Name     string
	Quantity int
	Amount   int
}

// GiftItem описывает строку раздела подарков в чеке.
type GiftItem struct {
	Name     string
	Quantity int
}

// Receipt содержит итоговые данные для печати чека.
type Receipt struct {
	Items              []ReceiptItem
	Gifts              []GiftItem
	TotalQuantity      int
	TotalPrice         int
	PromotionDiscount  int
	MembershipDiscount int
	Payable            int
}
