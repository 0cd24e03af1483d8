// Package cart накапливает принятые позиции заказа и считает итоги корзины.
package cart

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// Catalog описывает справочник товаров, к которому корзина обращается по названию.
type Catalog interface {
	Price(name string) (int, error)
	HasPromotion(name string) bool
}

// Cart хранит позиции в порядке добавления. Товары связаны с позициями только по названию.
type Cart struct {
	catalog Catalog
	lines   []model.CartLine
}

// New создаёт пустую корзину.
func New(catalog Catalog) *Cart {
	return &Cart{catalog: catalog}
}

// Append добавляет позицию в корзину.
func (c *Cart) Append(line model.CartLine) error {
	if strings.TrimSpace(line.ProductName) == "" || line.Quantity <= 0 || line.Free < 0 {
		return fmt.Errorf("%w: %+v", model.ErrNullOrder, line)
	}
	if _, err := c.catalog.Price(line.ProductName); err != nil {
		return fmt.Errorf("%w: %w", model.ErrNullOrder, err)
	}
	c.lines = append(c.lines, line)
	return nil
}

// Lines возвращает копию позиций корзины.
func (c *Cart) Lines() []model.CartLine {
	res := make([]model.CartLine, len(c.lines))
	copy(res, c.lines)
	return res
}

// TotalPrice возвращает сумму по всем позициям; строки подарков не учитываются.
func (c *Cart) TotalPrice() (int, error) {
	total := 0
	for _, l := range c.lines {
		if l.Gift {
			continue
		}
		price, err := c.catalog.Price(l.ProductName)
		if err != nil {
			return 0, err
		}
		total += price * l.Quantity
	}
	return total, nil
}

// TotalQuantity возвращает количество единиц по всем покупкам.
// Строки подарков дублируют уже учтённые бесплатные единицы и не считаются.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		if !l.Gift {
			total += l.Quantity
		}
	}
	return total
}

// PromotionalLines возвращает позиции, купленные по акции, если у товара
// всё ещё есть промо-партия. Проверка выполняется при каждом вызове.
func (c *Cart) PromotionalLines() []model.CartLine {
	var res []model.CartLine
	for _, l := range c.lines {
		if l.Promotional && !l.Gift && c.catalog.HasPromotion(l.ProductName) {
			res = append(res, l)
		}
	}
	return res
}

// GiftLines возвращает строки подарков для чека.
func (c *Cart) GiftLines() []model.CartLine {
	var res []model.CartLine
	for _, l := range c.lines {
		if l.Gift {
			res = append(res, l)
		}
	}
	return res
}

// Len возвращает количество строк корзины.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Truncate удаляет строки, добавленные после первых n.
func (c *Cart) Truncate(n int) {
	if n >= 0 && n < len(c.lines) {
		c.lines = c.lines[:n]
	}
}

// Clear удаляет все позиции. Списанные остатки не возвращаются.
func (c *Cart) Clear() {
	c.lines = nil
}
