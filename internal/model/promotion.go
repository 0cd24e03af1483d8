package model

import (
	"fmt"
	"strings"
	"time"
)

// PromotionKind описывает вид акции и её поведение при оформлении заказа.
type PromotionKind string

const (
	PromotionKindBuyTwoGetOne PromotionKind = "buy_two_get_one"
	PromotionKindRecommended  PromotionKind = "recommended"
	PromotionKindFlashSale    PromotionKind = "flash_sale"
	PromotionKindCustom       PromotionKind = "custom"
)

type kindBehavior struct {
	offersProactiveUpsell bool
}

var kindBehaviors = map[PromotionKind]kindBehavior{
	PromotionKindBuyTwoGetOne: {},
	PromotionKindRecommended:  {offersProactiveUpsell: true},
	PromotionKindFlashSale:    {},
	PromotionKindCustom:       {},
}

var kindsByPromotionName = map[string]PromotionKind{
	"Soda 2+1":   PromotionKindBuyTwoGetOne,
	"MD Pick":    PromotionKindRecommended,
	"Flash Sale": PromotionKindFlashSale,
}

// KindOf возвращает вид акции по её названию; неизвестные названия считаются пользовательскими.
func KindOf(promotionName string) PromotionKind {
	if kind, ok := kindsByPromotionName[promotionName]; ok {
		return kind
	}
	return PromotionKindCustom
}

// ParsePromotionKind разбирает явно заданный в каталоге вид акции.
func ParsePromotionKind(s string) (PromotionKind, error) {
	kind := PromotionKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindBehaviors[kind]; !ok {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidPromotionDefinition, s)
	}
	return kind, nil
}

// OffersProactiveUpsell сообщает, предлагает ли касса добрать товар до полного комплекта.
func (k PromotionKind) OffersProactiveUpsell() bool {
	return kindBehaviors[k].offersProactiveUpsell
}

// Promotion описывает правило акции «купи B, получи F бесплатно» с периодом действия.
type Promotion struct {
	Name  string
	Kind  PromotionKind
	Buy   int
	Free  int
	Start time.Time
	End   time.Time
}

// NewPromotion проверяет параметры и создаёт правило акции.
func NewPromotion(name string, buy, free int, start, end time.Time) (Promotion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Promotion{}, fmt.Errorf("%w: blank name", ErrInvalidPromotionDefinition)
	}
	if buy <= 0 || free <= 0 {
		return Promotion{}, fmt.Errorf("%w: %s buy %d free %d", ErrInvalidPromotionDefinition, name, buy, free)
	}
	if start.IsZero() || end.IsZero() {
		return Promotion{}, fmt.Errorf("%w: %s period is incomplete", ErrInvalidPromotionDefinition, name)
	}
	if start.After(end) {
		return Promotion{}, fmt.Errorf("%w: %s starts after it ends", ErrInvalidPromotionDefinition, name)
	}

	return Promotion{
		Name:  name,
		Kind:  KindOf(name),
		Buy:   buy,
		Free:  free,
		Start: start,
		End:   end,
	}, nil
}

// IsValid сообщает, действует ли акция в момент now (границы включительно).
func (p Promotion) IsValid(now time.Time) bool {
	return !now.Before(p.Start) && !now.After(p.End)
}

// SetSize возвращает размер комплекта B+F.
func (p Promotion) SetSize() int {
	return p.Buy + p.Free
}

// FreeUnitsPerSet возвращает количество бесплатных единиц в одном комплекте.
func (p Promotion) FreeUnitsPerSet() int {
	return p.Free
}

// OffersProactiveUpsell сообщает, нужно ли предлагать покупателю добрать комплект.
func (p Promotion) OffersProactiveUpsell() bool {
	return p.Kind.OffersProactiveUpsell()
}

// EndOfDay возвращает последний момент календарного дня t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
