package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPromotion(t *testing.T) {
	tests := []struct {
		name    string
		promo   string
		buy     int
		free    int
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{
			name:  "valid",
			promo: "Soda 2+1",
			buy:   2,
			free:  1,
			start: date(2026, 1, 1),
			end:   date(2026, 12, 31),
		},
		{
			name:  "single day",
			promo: "Flash Sale",
			buy:   1,
			free:  1,
			start: date(2026, 11, 1),
			end:   date(2026, 11, 1),
		},
		{
			name:    "blank name",
			promo:   "  ",
			buy:     1,
			free:    1,
			start:   date(2026, 1, 1),
			end:     date(2026, 1, 2),
			wantErr: true,
		},
		{
			name:    "zero buy",
			promo:   "broken",
			buy:     0,
			free:    1,
			start:   date(2026, 1, 1),
			end:     date(2026, 1, 2),
			wantErr: true,
		},
		{
			name:    "negative free",
			promo:   "broken",
			buy:     1,
			free:    -1,
			start:   date(2026, 1, 1),
			end:     date(2026, 1, 2),
			wantErr: true,
		},
		{
			name:    "inverted range",
			promo:   "broken",
			buy:     1,
			free:    1,
			start:   date(2026, 2, 1),
			end:     date(2026, 1, 1),
			wantErr: true,
		},
		{
			name:    "missing end",
			promo:   "broken",
			buy:     1,
			free:    1,
			start:   date(2026, 2, 1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPromotion(tt.promo, tt.buy, tt.free, tt.start, tt.end)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPromotionDefinition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.buy+tt.free, p.SetSize())
			assert.Equal(t, tt.free, p.FreeUnitsPerSet())
		})
	}
}

func TestPromotionIsValid(t *testing.T) {
	p, err := NewPromotion("Soda 2+1", 2, 1, date(2026, 1, 1), EndOfDay(date(2026, 12, 31)))
	require.NoError(t, err)

	assert.False(t, p.IsValid(date(2025, 12, 31).Add(23*time.Hour)))
	assert.True(t, p.IsValid(date(2026, 1, 1)))
	assert.True(t, p.IsValid(date(2026, 6, 15)))
	assert.True(t, p.IsValid(date(2026, 12, 31).Add(23*time.Hour+59*time.Minute)))
	assert.False(t, p.IsValid(date(2027, 1, 1)))
}

func TestPromotionKinds(t *testing.T) {
	assert.Equal(t, PromotionKindRecommended, KindOf("MD Pick"))
	assert.Equal(t, PromotionKindCustom, KindOf("Autumn 3+1"))
	assert.True(t, KindOf("MD Pick").OffersProactiveUpsell())
	assert.False(t, KindOf("Soda 2+1").OffersProactiveUpsell())
	assert.False(t, KindOf("Flash Sale").OffersProactiveUpsell())

	kind, err := ParsePromotionKind(" Recommended ")
	require.NoError(t, err)
	assert.Equal(t, PromotionKindRecommended, kind)

	_, err = ParsePromotionKind("bogus")
	assert.ErrorIs(t, err, ErrInvalidPromotionDefinition)
}

func TestProductDecreaseStock(t *testing.T) {
	p, err := NewProduct("Cola", 1000, 5, "")
	require.NoError(t, err)

	require.NoError(t, p.DecreaseStock(3))
	assert.Equal(t, 2, p.Stock)

	err = p.DecreaseStock(3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, p.Stock)

	assert.ErrorIs(t, p.DecreaseStock(-1), ErrInvalidQuantity)
}

func TestNewProductValidation(t *testing.T) {
	_, err := NewProduct("", 1000, 1, "")
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = NewProduct("Cola", 0, 1, "")
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = NewProduct("Cola", 1000, -1, "")
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestNewOrderLine(t *testing.T) {
	line, err := NewOrderLine(" Cola ", 2)
	require.NoError(t, err)
	assert.Equal(t, OrderLine{ProductName: "Cola", Quantity: 2}, line)

	_, err = NewOrderLine("Cola", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrderLine("", 1)
	assert.ErrorIs(t, err, ErrInvalidOrderSyntax)
}
