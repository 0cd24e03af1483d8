package inventory

import (
	"fmt"
	"time"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// Plan описывает результат расчёта одной позиции заказа без изменения остатков.
type Plan struct {
	ProductName string
	Requested   int
	Promotion   *model.Promotion
	Allocation  model.Allocation
	// Remaining содержит единицы сверх полных комплектов, которые продаются по полной цене.
	Remaining int
	// UpsellQuantity показывает, сколько единиц можно добавить, чтобы получить ещё один комплект.
	UpsellQuantity int
}

// HasPromotion сообщает, что позиция рассчитана по действующей акции.
func (p Plan) HasPromotion() bool {
	return p.Promotion != nil
}

// OffersUpsell сообщает, что покупателю нужно предложить добрать комплект.
func (p Plan) OffersUpsell() bool {
	return p.UpsellQuantity > 0
}

// NeedsFullPriceConfirmation сообщает, что часть позиции выходит за рамки акции
// и покупатель должен согласиться оплатить её по полной цене.
func (p Plan) NeedsFullPriceConfirmation() bool {
	return p.HasPromotion() && p.Remaining > 0
}

// WithoutRemainder возвращает распределение, в котором остались только полные комплекты.
func (p Plan) WithoutRemainder() model.Allocation {
	return model.Allocation{
		PromotionalPaid: p.Allocation.PromotionalPaid,
		Free:            p.Allocation.Free,
	}
}

// Allocator распределяет позиции заказа между промо-партией и обычной партией.
type Allocator struct {
	catalog *Catalog
}

// NewAllocator создаёт распределитель поверх каталога.
func NewAllocator(catalog *Catalog) *Allocator {
	return &Allocator{catalog: catalog}
}

// CheckStock проверяет, что суммарного остатка товара хватает на quantity единиц.
func (a *Allocator) CheckStock(name string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", model.ErrInvalidQuantity, quantity)
	}
	l, err := a.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if l.TotalStock() < quantity {
		return fmt.Errorf("%w: %s requested %d, in stock %d", model.ErrInsufficientStock, name, quantity, l.TotalStock())
	}
	return nil
}

// Plan рассчитывает распределение позиции. Остатки не меняются.
func (a *Allocator) Plan(name string, quantity int, now time.Time) (Plan, error) {
	if err := a.CheckStock(name, quantity); err != nil {
		return Plan{}, err
	}
	l, err := a.catalog.Lookup(name)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{ProductName: name, Requested: quantity}

	active, err := a.catalog.Resolve(name, now)
	if err != nil {
		return Plan{}, err
	}
	promo, ok := a.catalog.Promotion(active.Promotion)
	if !active.HasPromotion() || !ok || active.Stock == 0 || !promo.IsValid(now) {
		plan.Allocation = ordinary(l, quantity, 0)
		return plan, nil
	}
	plan.Promotion = &promo

	setSize := promo.SetSize()
	availableSets := l.PromotionalStock() / setSize
	requestedSets := quantity / setSize
	usedSets := min(availableSets, requestedSets)

	plan.Remaining = quantity - usedSets*setSize
	plan.Allocation = ordinary(l, plan.Remaining, usedSets*setSize)
	plan.Allocation.PromotionalPaid = usedSets * promo.Buy
	plan.Allocation.Free = usedSets * promo.FreeUnitsPerSet()

	if plan.Remaining > 0 {
		loose := l.PromotionalStock() - usedSets*setSize
		if l.NormalStock()+loose < plan.Remaining {
			return Plan{}, fmt.Errorf("%w: %s has no stock for %d units outside the promotion",
				model.ErrInsufficientStock, name, plan.Remaining)
		}
	}

	if promo.OffersProactiveUpsell() && plan.Remaining == promo.Buy &&
		(usedSets+1)*setSize <= l.PromotionalStock() {
		plan.UpsellQuantity = promo.FreeUnitsPerSet()
	}

	return plan, nil
}

// ordinary набирает quantity единиц по полной цене: сначала из обычной партии,
// затем из промо-партии за вычетом reserved единиц, занятых комплектами.
func ordinary(l Lots, quantity, reserved int) model.Allocation {
	alloc := model.Allocation{Normal: quantity}
	if shortfall := quantity - l.NormalStock(); shortfall > 0 {
		alloc.Overflow = min(shortfall, max(l.PromotionalStock()-reserved, 0))
	}
	return alloc
}

func draws(alloc model.Allocation) (promo, normal int, err error) {
	if alloc.PromotionalPaid < 0 || alloc.Normal < 0 || alloc.Free < 0 ||
		alloc.Overflow < 0 || alloc.Overflow > alloc.Normal {
		return 0, 0, fmt.Errorf("%w: malformed allocation %+v", model.ErrInvalidQuantity, alloc)
	}
	return alloc.PromotionalPaid + alloc.Free + alloc.Overflow, alloc.Normal - alloc.Overflow, nil
}

// Apply списывает остатки по принятому распределению.
// Либо списываются обе партии, либо ничего.
func (a *Allocator) Apply(name string, alloc model.Allocation) error {
	promoDraw, normalDraw, err := draws(alloc)
	if err != nil {
		return err
	}

	l, err := a.catalog.Lookup(name)
	if err != nil {
		return err
	}

	if promoDraw > l.PromotionalStock() || normalDraw > l.NormalStock() {
		return fmt.Errorf("%w: %s cannot cover allocation %+v", model.ErrInsufficientStock, name, alloc)
	}

	if promoDraw > 0 {
		if err := l.Promotional.DecreaseStock(promoDraw); err != nil {
			return err
		}
	}
	if normalDraw > 0 {
		if err := l.Normal.DecreaseStock(normalDraw); err != nil {
			return err
		}
	}

	return nil
}

// Release возвращает на склад остатки, списанные ранее по распределению alloc.
func (a *Allocator) Release(name string, alloc model.Allocation) error {
	promoDraw, normalDraw, err := draws(alloc)
	if err != nil {
		return err
	}

	l, err := a.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if (promoDraw > 0 && l.Promotional == nil) || (normalDraw > 0 && l.Normal == nil) {
		return fmt.Errorf("%w: %s has no lot for allocation %+v", model.ErrOrderNotFound, name, alloc)
	}

	if promoDraw > 0 {
		if err := l.Promotional.IncreaseStock(promoDraw); err != nil {
			return err
		}
	}
	if normalDraw > 0 {
		if err := l.Normal.IncreaseStock(normalDraw); err != nil {
			return err
		}
	}

	return nil
}
