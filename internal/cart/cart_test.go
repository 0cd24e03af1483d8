package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/convenience-store/internal/model"
)

type stubCatalog struct {
	prices     map[string]int
	promotions map[string]bool
}

func (s *stubCatalog) Price(name string) (int, error) {
	p, ok := s.prices[name]
	if !ok {
		return 0, model.ErrProductNotFound
	}
	return p, nil
}

func (s *stubCatalog) HasPromotion(name string) bool {
	return s.promotions[name]
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		prices:     map[string]int{"Cola": 1000, "Water": 500, "Chips": 1500},
		promotions: map[string]bool{"Cola": true, "Chips": true},
	}
}

func TestAppend_RejectsMalformedLines(t *testing.T) {
	c := New(newStubCatalog())

	tests := []struct {
		name string
		line model.CartLine
	}{
		{name: "zero quantity", line: model.CartLine{ProductName: "Cola"}},
		{name: "negative quantity", line: model.CartLine{ProductName: "Cola", Quantity: -1}},
		{name: "missing product", line: model.CartLine{Quantity: 1}},
		{name: "unknown product", line: model.CartLine{ProductName: "Beer", Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.Append(tt.line), model.ErrNullOrder)
		})
	}
	assert.Empty(t, c.Lines())
}

func TestTotals(t *testing.T) {
	catalog := newStubCatalog()
	c := New(catalog)

	require.NoError(t, c.Append(model.CartLine{ProductName: "Cola", Quantity: 3, Free: 1, Promotional: true}))
	require.NoError(t, c.Append(model.CartLine{ProductName: "Cola", Quantity: 1, Gift: true, Promotional: true}))
	require.NoError(t, c.Append(model.CartLine{ProductName: "Water", Quantity: 2}))
	require.NoError(t, c.Append(model.CartLine{ProductName: "Chips", Quantity: 1}))

	total, err := c.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, 3*1000+2*500+1500, total)
	assert.Equal(t, 6, c.TotalQuantity())

	promo := c.PromotionalLines()
	require.Len(t, promo, 1)
	assert.Equal(t, "Cola", promo[0].ProductName)

	catalog.promotions["Cola"] = false
	assert.Empty(t, c.PromotionalLines())

	gifts := c.GiftLines()
	require.Len(t, gifts, 1)
	assert.Equal(t, 1, gifts[0].Quantity)
}

func TestClear(t *testing.T) {
	c := New(newStubCatalog())
	require.NoError(t, c.Append(model.CartLine{ProductName: "Water", Quantity: 2}))

	c.Clear()

	assert.Empty(t, c.Lines())
	assert.Zero(t, c.TotalQuantity())
	total, err := c.TotalPrice()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTruncate(t *testing.T) {
	c := New(newStubCatalog())
	require.NoError(t, c.Append(model.CartLine{ProductName: "Water", Quantity: 2}))
	mark := c.Len()
	require.NoError(t, c.Append(model.CartLine{ProductName: "Cola", Quantity: 3, Free: 1, Promotional: true}))
	require.NoError(t, c.Append(model.CartLine{ProductName: "Cola", Quantity: 1, Promotional: true, Gift: true}))

	c.Truncate(mark)

	assert.Equal(t, []model.CartLine{{ProductName: "Water", Quantity: 2}}, c.Lines())
	c.Truncate(5)
	assert.Equal(t, 1, c.Len())
}
