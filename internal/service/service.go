// Package service реализует оформление заказа на кассе магазина.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/convenience-store/internal/cart"
	"github.com/mmeshcher/convenience-store/internal/inventory"
	"github.com/mmeshcher/convenience-store/internal/model"
	"github.com/mmeshcher/convenience-store/internal/pricing"
)

// AnswerProvider получает от покупателя ответы «да/нет» на вопросы кассы.
type AnswerProvider interface {
	// ConfirmUpsell спрашивает, добавить ли extra единиц товара, чтобы получить подарок.
	ConfirmUpsell(ctx context.Context, productName string, extra int) (bool, error)
	// ConfirmFullPrice спрашивает, оплатить ли quantity единиц без акции по полной цене.
	ConfirmFullPrice(ctx context.Context, productName string, quantity int) (bool, error)
}

// Option настраивает Service.
type Option func(*Service)

// WithClock задаёт источник текущего времени для проверки сроков акций.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service содержит бизнес-логику кассы: распределение позиций, корзину и расчёт чека.
type Service struct {
	catalog   *inventory.Catalog
	allocator *inventory.Allocator
	cart      *cart.Cart
	logger    *zap.Logger
	now       func() time.Time
	sessionID string
}

// NewService создаёт сервис поверх загруженного каталога.
func NewService(catalog *inventory.Catalog, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		allocator: inventory.NewAllocator(catalog),
		cart:      cart.New(catalog),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.StartSession()
	return s
}

// StartSession начинает обслуживание нового покупателя: корзина очищается, остатки сохраняются.
func (s *Service) StartSession() {
	s.cart.Clear()
	s.sessionID = uuid.NewString()
	s.logger.Debug("checkout session started", zap.String("session", s.sessionID))
}

// SessionID возвращает идентификатор текущей сессии.
func (s *Service) SessionID() string {
	return s.sessionID
}

// Products возвращает записи каталога для вывода на экран.
func (s *Service) Products() []model.Product {
	return s.catalog.Products()
}

// Lookup возвращает партии товара по названию.
func (s *Service) Lookup(name string) (inventory.Lots, error) {
	return s.catalog.Lookup(name)
}

// Cart возвращает корзину текущей сессии.
func (s *Service) Cart() *cart.Cart {
	return s.cart
}

// ValidateOrder проверяет, что все товары существуют и суммарного остатка хватает
// на все позиции заказа с одинаковым названием вместе.
func (s *Service) ValidateOrder(lines []model.OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: empty order", model.ErrInvalidOrderSyntax)
	}

	requested := make(map[string]int, len(lines))
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: %d", model.ErrInvalidQuantity, l.Quantity)
		}
		if _, seen := requested[l.ProductName]; !seen {
			order = append(order, l.ProductName)
		}
		requested[l.ProductName] += l.Quantity
	}

	for _, name := range order {
		if err := s.allocator.CheckStock(name, requested[name]); err != nil {
			return err
		}
	}
	return nil
}

// PlaceOrder проверяет заказ целиком и затем обрабатывает позиции строго по очереди.
// Если позиция завершилась ошибкой, уже принятые позиции этого заказа отменяются:
// остатки возвращаются на склад, строки удаляются из корзины.
func (s *Service) PlaceOrder(ctx context.Context, lines []model.OrderLine, answers AnswerProvider) error {
	if err := s.ValidateOrder(lines); err != nil {
		s.logger.Info("order rejected", zap.String("session", s.sessionID), zap.Error(err))
		return err
	}

	mark := s.cart.Len()
	var accepted []acceptedLine

	for _, l := range lines {
		state, alloc, err := s.processLine(ctx, l, answers)
		if err != nil {
			s.rollback(accepted, mark)
			return err
		}
		if state == StateApplied {
			accepted = append(accepted, acceptedLine{name: l.ProductName, allocation: alloc})
		}
	}
	return nil
}

type acceptedLine struct {
	name       string
	allocation model.Allocation
}

func (s *Service) rollback(accepted []acceptedLine, mark int) {
	for i := len(accepted) - 1; i >= 0; i-- {
		a := accepted[i]
		if err := s.allocator.Release(a.name, a.allocation); err != nil {
			s.logger.Error("release allocation",
				zap.String("session", s.sessionID),
				zap.String("product", a.name),
				zap.Error(err),
			)
		}
	}
	s.cart.Truncate(mark)

	if len(accepted) > 0 {
		s.logger.Info("order rolled back",
			zap.String("session", s.sessionID),
			zap.Int("lines", len(accepted)),
		)
	}
}

// ProcessLine проводит одну позицию через все состояния и возвращает итоговое.
// Принятая позиция списывается со склада и добавляется в корзину.
func (s *Service) ProcessLine(ctx context.Context, line model.OrderLine, answers AnswerProvider) (LineState, error) {
	state, _, err := s.processLine(ctx, line, answers)
	return state, err
}

func (s *Service) processLine(ctx context.Context, line model.OrderLine, answers AnswerProvider) (LineState, model.Allocation, error) {
	log := s.logger.With(
		zap.String("session", s.sessionID),
		zap.String("product", line.ProductName),
		zap.Int("quantity", line.Quantity),
	)

	flow := NewLineFlow(line, s.allocator, s.now())

	if err := flow.CheckStock(); err != nil {
		log.Info("order line rejected", zap.Error(err))
		return flow.State(), model.Allocation{}, err
	}
	if err := flow.Evaluate(); err != nil {
		log.Info("order line rejected", zap.Error(err))
		return flow.State(), model.Allocation{}, err
	}

	for flow.State() == StateNeedsUpsell || flow.State() == StateNeedsFullPrice {
		yes, err := s.ask(ctx, flow, answers)
		if err != nil {
			log.Warn("confirmation failed", zap.Stringer("state", flow.State()), zap.Error(err))
			return StateRejected, model.Allocation{}, err
		}
		if err := flow.Answer(yes); err != nil {
			log.Info("order line rejected", zap.Error(err))
			return flow.State(), model.Allocation{}, err
		}
	}

	if flow.State() == StateRejected {
		log.Info("order line declined by customer")
		return flow.State(), model.Allocation{}, nil
	}

	alloc := flow.Allocation()
	if err := flow.Apply(); err != nil {
		log.Error("apply allocation", zap.Error(err))
		return flow.State(), model.Allocation{}, err
	}

	mark := s.cart.Len()
	if err := s.addToCart(line.ProductName, flow.Plan().HasPromotion(), alloc); err != nil {
		log.Error("add to cart", zap.Error(err))
		s.cart.Truncate(mark)
		if relErr := s.allocator.Release(line.ProductName, alloc); relErr != nil {
			log.Error("release allocation", zap.Error(relErr))
		}
		return StateRejected, model.Allocation{}, fmt.Errorf("%w: %w", model.ErrOrderNotFound, err)
	}

	log.Info("order line applied",
		zap.Int("promotional_paid", alloc.PromotionalPaid),
		zap.Int("normal", alloc.Normal),
		zap.Int("free", alloc.Free),
	)
	return flow.State(), alloc, nil
}

func (s *Service) ask(ctx context.Context, flow *LineFlow, answers AnswerProvider) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	plan := flow.Plan()
	if flow.State() == StateNeedsUpsell {
		return answers.ConfirmUpsell(ctx, plan.ProductName, plan.UpsellQuantity)
	}
	return answers.ConfirmFullPrice(ctx, plan.ProductName, plan.Remaining)
}

func (s *Service) addToCart(name string, promotional bool, alloc model.Allocation) error {
	if err := s.cart.Append(model.CartLine{
		ProductName: name,
		Quantity:    alloc.Total(),
		Free:        alloc.Free,
		Promotional: promotional,
	}); err != nil {
		return err
	}
	if alloc.Free == 0 {
		return nil
	}
	return s.cart.Append(model.CartLine{
		ProductName: name,
		Quantity:    alloc.Free,
		Promotional: true,
		Gift:        true,
	})
}

// Checkout рассчитывает чек по корзине текущей сессии.
func (s *Service) Checkout(applyMembership bool) (model.Receipt, error) {
	receipt, err := pricing.BuildReceipt(s.cart, s.catalog, applyMembership, s.now())
	if err != nil {
		return model.Receipt{}, fmt.Errorf("build receipt: %w", err)
	}

	s.logger.Info("checkout completed",
		zap.String("session", s.sessionID),
		zap.Int("total", receipt.TotalPrice),
		zap.Int("promotion_discount", receipt.PromotionDiscount),
		zap.Int("membership_discount", receipt.MembershipDiscount),
		zap.Int("payable", receipt.Payable),
	)
	return receipt, nil
}
