package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/convenience-store/internal/model"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type stubCatalog struct {
	prices map[string]int
	valid  map[string]bool
}

func (s stubCatalog) Price(name string) (int, error) {
	p, ok := s.prices[name]
	if !ok {
		return 0, model.ErrProductNotFound
	}
	return p, nil
}

func (s stubCatalog) HasValidPromotion(name string, _ time.Time) bool {
	return s.valid[name]
}

type stubCart struct {
	lines []model.CartLine
}

func (s stubCart) Lines() []model.CartLine { return s.lines }

func (s stubCart) PromotionalLines() []model.CartLine {
	var res []model.CartLine
	for _, l := range s.lines {
		if l.Promotional && !l.Gift {
			res = append(res, l)
		}
	}
	return res
}

func (s stubCart) GiftLines() []model.CartLine {
	var res []model.CartLine
	for _, l := range s.lines {
		if l.Gift {
			res = append(res, l)
		}
	}
	return res
}

func (s stubCart) TotalPrice() (int, error) {
	total := 0
	for _, l := range s.lines {
		if !l.Gift {
			total += l.Quantity * map[string]int{"Cola": 1000, "Water": 500, "Energy bar": 2000}[l.ProductName]
		}
	}
	return total, nil
}

func (s stubCart) TotalQuantity() int {
	total := 0
	for _, l := range s.lines {
		if !l.Gift {
			total += l.Quantity
		}
	}
	return total
}

func TestMembershipDiscount(t *testing.T) {
	tests := []struct {
		name              string
		totalPrice        int
		promotionDiscount int
		apply             bool
		want              int
	}{
		{name: "not applied", totalPrice: 10000, promotionDiscount: 0, apply: false, want: 0},
		{name: "thirty percent of the non-promotional portion", totalPrice: 10000, promotionDiscount: 1000, apply: true, want: 2700},
		{name: "capped", totalPrice: 100000, promotionDiscount: 0, apply: true, want: 8000},
		{name: "rounded down", totalPrice: 1001, promotionDiscount: 0, apply: true, want: 300},
		{name: "discount exceeds total", totalPrice: 1000, promotionDiscount: 3000, apply: true, want: 0},
		{name: "exactly at the cap", totalPrice: 26670, promotionDiscount: 0, apply: true, want: 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MembershipDiscount(tt.totalPrice, tt.promotionDiscount, tt.apply)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMembershipDiscountBounds(t *testing.T) {
	for total := 0; total <= 60000; total += 777 {
		for promo := 0; promo <= total; promo += 1999 {
			got := MembershipDiscount(total, promo, true)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, MembershipCap)
		}
	}
}

func TestPromotionDiscount_UsesRecordedFreeUnits(t *testing.T) {
	catalog := stubCatalog{
		prices: map[string]int{"Cola": 1000, "Juice": 1800},
		valid:  map[string]bool{"Cola": true},
	}
	lines := []model.CartLine{
		{ProductName: "Cola", Quantity: 7, Free: 1, Promotional: true},
		{ProductName: "Juice", Quantity: 2, Free: 1, Promotional: true},
		{ProductName: "Cola", Quantity: 1, Gift: true, Promotional: true},
	}

	got, err := PromotionDiscount(lines, catalog, now)
	require.NoError(t, err)
	assert.Equal(t, 1000, got)
}

func TestBuildReceipt(t *testing.T) {
	catalog := stubCatalog{
		prices: map[string]int{"Cola": 1000, "Water": 500, "Energy bar": 2000},
		valid:  map[string]bool{"Cola": true},
	}
	cart := stubCart{lines: []model.CartLine{
		{ProductName: "Cola", Quantity: 3, Free: 1, Promotional: true},
		{ProductName: "Cola", Quantity: 1, Gift: true, Promotional: true},
		{ProductName: "Energy bar", Quantity: 5},
		{ProductName: "Cola", Quantity: 3, Free: 1, Promotional: true},
		{ProductName: "Cola", Quantity: 1, Gift: true, Promotional: true},
	}}

	receipt, err := BuildReceipt(cart, catalog, true, now)
	require.NoError(t, err)

	assert.Equal(t, []model.ReceiptItem{
		{Name: "Cola", Quantity: 6, Amount: 6000},
		{Name: "Energy bar", Quantity: 5, Amount: 10000},
	}, receipt.Items)
	assert.Equal(t, []model.GiftItem{{Name: "Cola", Quantity: 2}}, receipt.Gifts)
	assert.Equal(t, 11, receipt.TotalQuantity)
	assert.Equal(t, 16000, receipt.TotalPrice)
	assert.Equal(t, 2000, receipt.PromotionDiscount)
	assert.Equal(t, 4200, receipt.MembershipDiscount)
	assert.Equal(t, 9800, receipt.Payable)
}

func TestPayable(t *testing.T) {
	assert.Equal(t, 9800, Payable(16000, 2000, 4200))
	assert.Zero(t, Payable(1000, 1000, 300))
}
