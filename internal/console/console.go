// Package console обслуживает покупателя через текстовый терминал:
// показывает товары, принимает заказ, задаёт вопросы и печатает чек.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/convenience-store/internal/inventory"
	"github.com/mmeshcher/convenience-store/internal/model"
	"github.com/mmeshcher/convenience-store/internal/service"
	"github.com/mmeshcher/convenience-store/internal/validation"
)

// Service определяет контракт кассы, используемый консолью.
type Service interface {
	Products() []model.Product
	Lookup(name string) (inventory.Lots, error)
	PlaceOrder(ctx context.Context, lines []model.OrderLine, answers service.AnswerProvider) error
	Checkout(applyMembership bool) (model.Receipt, error)
	StartSession()
}

// Console реализует цикл обслуживания покупателей.
type Console struct {
	service Service
	in      *lineReader
	view    *view
	logger  *zap.Logger
}

// New создаёт консоль, читающую ответы из in и печатающую в out.
func New(svc Service, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		service: svc,
		in:      newLineReader(in),
		view:    newView(out),
		logger:  logger,
	}
}

// Run обслуживает покупателей, пока они хотят продолжать покупки.
// Конец ввода завершает работу без ошибки.
func (c *Console) Run(ctx context.Context) error {
	defer c.in.Close()

	err := c.run(ctx)
	if errors.Is(err, io.EOF) {
		c.logger.Info("input closed")
		return nil
	}
	return err
}

func (c *Console) run(ctx context.Context) error {
	for {
		c.view.welcome(c.service.Products(), c.hasNormalLot)

		if err := c.takeOrder(ctx); err != nil {
			return err
		}

		membership, err := c.askYesNo(ctx, "Would you like a membership discount? (Y/N)")
		if err != nil {
			return err
		}

		receipt, err := c.service.Checkout(membership)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		c.view.receipt(receipt)

		again, err := c.askYesNo(ctx, "Would you like to buy anything else? (Y/N)")
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		c.service.StartSession()
	}
}

func (c *Console) hasNormalLot(name string) bool {
	l, err := c.service.Lookup(name)
	return err == nil && l.Normal != nil
}

// takeOrder запрашивает заказ, пока он не будет принят.
func (c *Console) takeOrder(ctx context.Context) error {
	for {
		c.view.println("Please enter the product names and quantities. (e.g. [Cola-2],[Energy bar-1])")

		input, err := c.in.ReadLine(ctx)
		if err != nil {
			return err
		}

		lines, err := validation.ParseOrder(input)
		if err == nil {
			err = c.service.PlaceOrder(ctx, lines, prompter{c})
		}
		if err == nil {
			return nil
		}

		if isFatal(err) {
			return err
		}
		c.view.errorMessage(message(err))
	}
}

func (c *Console) askYesNo(ctx context.Context, question string) (bool, error) {
	for {
		c.view.println()
		c.view.println(question)

		input, err := c.in.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		yes, err := validation.ParseAnswer(input)
		if err == nil {
			return yes, nil
		}
		c.view.errorMessage(message(err))
	}
}

// prompter задаёт покупателю вопросы о конкретной позиции заказа.
type prompter struct {
	c *Console
}

func (p prompter) ConfirmUpsell(ctx context.Context, productName string, extra int) (bool, error) {
	q := p.c.view.printer.Sprintf("You can get %d more %s for free. Would you like to add it? (Y/N)", extra, productName)
	return p.c.askYesNo(ctx, q)
}

func (p prompter) ConfirmFullPrice(ctx context.Context, productName string, quantity int) (bool, error) {
	q := p.c.view.printer.Sprintf(
		"%d units of %s are not covered by the promotion and will be charged at full price. Continue? (Y/N)",
		quantity, productName)
	return p.c.askYesNo(ctx, q)
}

func isFatal(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func message(err error) string {
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		return "This product does not exist. Please try again."
	case errors.Is(err, model.ErrInsufficientStock):
		return "The quantity exceeds the stock. Please try again."
	case errors.Is(err, model.ErrInvalidQuantity), errors.Is(err, model.ErrInvalidOrderSyntax):
		return "The input format is invalid. Please try again."
	case errors.Is(err, model.ErrAmbiguousConfirmationInput):
		return "Please answer Y or N."
	default:
		return "Something went wrong. Please try again."
	}
}

type readResult struct {
	line string
	err  error
}

// lineReader читает строки в отдельной горутине, чтобы ожидание ввода
// прерывалось отменой контекста. После Close горутина завершается
// на следующей прочитанной строке.
type lineReader struct {
	results chan readResult
	done    chan struct{}
	once    sync.Once
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		results: make(chan readResult),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(lr.results)

		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if !lr.send(readResult{line: sc.Text()}) {
				return
			}
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		lr.send(readResult{err: err})
	}()

	return lr
}

func (lr *lineReader) send(r readResult) bool {
	select {
	case lr.results <- r:
		return true
	case <-lr.done:
		return false
	}
}

// Close останавливает чтение.
func (lr *lineReader) Close() {
	lr.once.Do(func() { close(lr.done) })
}

// ReadLine возвращает следующую строку ввода.
func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-lr.results:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}
