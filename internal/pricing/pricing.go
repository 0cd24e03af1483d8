// Package pricing рассчитывает скидки и итоговую сумму к оплате.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// MembershipCap задаёт максимальную скидку по членской карте.
const MembershipCap = 8000

// membershipRate задаёт долю скидки по членской карте (30%).
var membershipRate = decimal.New(30, -2)

// Catalog описывает справочник, из которого берутся цены и сроки акций.
type Catalog interface {
	Price(name string) (int, error)
	HasValidPromotion(name string, now time.Time) bool
}

// Cart описывает корзину, по которой строится чек.
type Cart interface {
	Lines() []model.CartLine
	PromotionalLines() []model.CartLine
	GiftLines() []model.CartLine
	TotalPrice() (int, error)
	TotalQuantity() int
}

// PromotionDiscount считает скидку по акциям из фактически выделенных бесплатных единиц.
// Учитываются только позиции, акция которых действует в момент now.
func PromotionDiscount(lines []model.CartLine, catalog Catalog, now time.Time) (int, error) {
	discount := 0
	for _, l := range lines {
		if l.Gift || l.Free == 0 || !catalog.HasValidPromotion(l.ProductName, now) {
			continue
		}
		price, err := catalog.Price(l.ProductName)
		if err != nil {
			return 0, err
		}
		discount += l.Free * price
	}
	return discount, nil
}

// MembershipDiscount возвращает скидку по членской карте: 30% от суммы без акционной скидки,
// округлённые вниз и ограниченные MembershipCap.
func MembershipDiscount(totalPrice, promotionDiscount int, apply bool) int {
	if !apply {
		return 0
	}
	base := max(totalPrice-promotionDiscount, 0)
	raw := decimal.NewFromInt(int64(base)).Mul(membershipRate).Floor().IntPart()
	return int(min(raw, MembershipCap))
}

// Payable возвращает сумму к оплате.
func Payable(totalPrice, promotionDiscount, membershipDiscount int) int {
	return max(totalPrice-promotionDiscount-membershipDiscount, 0)
}

// BuildReceipt собирает итоговые данные чека по корзине.
func BuildReceipt(cart Cart, catalog Catalog, applyMembership bool, now time.Time) (model.Receipt, error) {
	total, err := cart.TotalPrice()
	if err != nil {
		return model.Receipt{}, err
	}

	promoDiscount, err := PromotionDiscount(cart.PromotionalLines(), catalog, now)
	if err != nil {
		return model.Receipt{}, err
	}
	membership := MembershipDiscount(total, promoDiscount, applyMembership)

	items, err := receiptItems(cart.Lines(), catalog)
	if err != nil {
		return model.Receipt{}, err
	}

	return model.Receipt{
		Items:              items,
		Gifts:              giftItems(cart.GiftLines()),
		TotalQuantity:      cart.TotalQuantity(),
		TotalPrice:         total,
		PromotionDiscount:  promoDiscount,
		MembershipDiscount: membership,
		Payable:            Payable(total, promoDiscount, membership),
	}, nil
}

func receiptItems(lines []model.CartLine, catalog Catalog) ([]model.ReceiptItem, error) {
	var items []model.ReceiptItem
	index := make(map[string]int)

	for _, l := range lines {
		if l.Gift {
			continue
		}
		price, err := catalog.Price(l.ProductName)
		if err != nil {
			return nil, err
		}
		if i, ok := index[l.ProductName]; ok {
			items[i].Quantity += l.Quantity
			items[i].Amount += l.Quantity * price
			continue
		}
		index[l.ProductName] = len(items)
		items = append(items, model.ReceiptItem{
			Name:     l.ProductName,
			Quantity: l.Quantity,
			Amount:   l.Quantity * price,
		})
	}

	return items, nil
}

func giftItems(lines []model.CartLine) []model.GiftItem {
	var gifts []model.GiftItem
	index := make(map[string]int)

	for _, l := range lines {
		if i, ok := index[l.ProductName]; ok {
			gifts[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductName] = len(gifts)
		gifts = append(gifts, model.GiftItem{Name: l.ProductName, Quantity: l.Quantity})
	}

	return gifts
}
