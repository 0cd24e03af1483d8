package service

import (
	"fmt"
	"time"

	"github.com/mmeshcher/convenience-store/internal/inventory"
	"github.com/mmeshcher/convenience-store/internal/model"
)

// LineState описывает состояние обработки одной позиции заказа.
type LineState int

const (
	StateRequested LineState = iota
	StateStockChecked
	StatePromotionEvaluated
	StateNoPromotion
	StateNeedsUpsell
	StateNeedsFullPrice
	StateResolved
	StateApplied
	StateRejected
)

var lineStateNames = map[LineState]string{
	StateRequested:          "requested",
	StateStockChecked:       "stock_checked",
	StatePromotionEvaluated: "promotion_evaluated",
	StateNoPromotion:        "no_promotion",
	StateNeedsUpsell:        "needs_upsell",
	StateNeedsFullPrice:     "needs_full_price",
	StateResolved:           "resolved",
	StateApplied:            "applied",
	StateRejected:           "rejected",
}

func (s LineState) String() string {
	if name, ok := lineStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal сообщает, что обработка позиции завершена.
func (s LineState) Terminal() bool {
	return s == StateApplied || s == StateRejected
}

// LineFlow ведёт одну позицию заказа по состояниям от запроса до списания остатков.
type LineFlow struct {
	line       model.OrderLine
	state      LineState
	plan       inventory.Plan
	allocation model.Allocation
	allocator  *inventory.Allocator
	now        time.Time
}

// NewLineFlow создаёт обработку позиции в состоянии StateRequested.
func NewLineFlow(line model.OrderLine, allocator *inventory.Allocator, now time.Time) *LineFlow {
	return &LineFlow{
		line:      line,
		state:     StateRequested,
		allocator: allocator,
		now:       now,
	}
}

// State возвращает текущее состояние.
func (f *LineFlow) State() LineState { return f.state }

// Plan возвращает последний расчёт распределения.
func (f *LineFlow) Plan() inventory.Plan { return f.plan }

// Allocation возвращает принятое распределение.
func (f *LineFlow) Allocation() model.Allocation { return f.allocation }

func (f *LineFlow) expect(states ...LineState) error {
	for _, s := range states {
		if f.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s", model.ErrOrderNotFound, f.line.ProductName, f.state)
}

func (f *LineFlow) reject(err error) error {
	f.state = StateRejected
	return err
}

// CheckStock переводит позицию из StateRequested в StateStockChecked.
func (f *LineFlow) CheckStock() error {
	if err := f.expect(StateRequested); err != nil {
		return err
	}
	if err := f.allocator.CheckStock(f.line.ProductName, f.line.Quantity); err != nil {
		return f.reject(err)
	}
	f.state = StateStockChecked
	return nil
}

// Evaluate рассчитывает распределение и определяет, нужен ли вопрос покупателю.
func (f *LineFlow) Evaluate() error {
	if err := f.expect(StateStockChecked); err != nil {
		return err
	}
	return f.evaluate(f.line.Quantity, true)
}

func (f *LineFlow) evaluate(quantity int, allowUpsell bool) error {
	plan, err := f.allocator.Plan(f.line.ProductName, quantity, f.now)
	if err != nil {
		return f.reject(err)
	}
	f.plan = plan

	if !plan.HasPromotion() {
		f.state = StateNoPromotion
		f.resolve(plan.Allocation)
		return nil
	}

	f.state = StatePromotionEvaluated
	switch {
	case allowUpsell && plan.OffersUpsell():
		f.state = StateNeedsUpsell
	case plan.NeedsFullPriceConfirmation():
		f.state = StateNeedsFullPrice
	default:
		f.resolve(plan.Allocation)
	}
	return nil
}

func (f *LineFlow) resolve(alloc model.Allocation) {
	if alloc.IsEmpty() {
		f.state = StateRejected
		return
	}
	f.allocation = alloc
	f.state = StateResolved
}

// Answer применяет ответ покупателя на вопрос текущего состояния.
func (f *LineFlow) Answer(yes bool) error {
	if err := f.expect(StateNeedsUpsell, StateNeedsFullPrice); err != nil {
		return err
	}

	if f.state == StateNeedsUpsell {
		if !yes {
			f.resolve(f.plan.Allocation)
			return nil
		}
		return f.evaluate(f.plan.Requested+f.plan.UpsellQuantity, false)
	}

	if yes {
		f.resolve(f.plan.Allocation)
	} else {
		f.resolve(f.plan.WithoutRemainder())
	}
	return nil
}

// Apply списывает остатки по принятому распределению ровно один раз.
func (f *LineFlow) Apply() error {
	if err := f.expect(StateResolved); err != nil {
		return err
	}
	if err := f.allocator.Apply(f.line.ProductName, f.allocation); err != nil {
		return f.reject(err)
	}
	f.state = StateApplied
	return nil
}
