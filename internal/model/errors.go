package model

import "errors"

// ErrProductNotFound возвращается, если в каталоге нет ни одной записи с указанным названием.
var (
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock возвращается, если запрошено больше, чем есть на складе.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity возвращается для нулевого или отрицательного количества.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidProduct возвращается для некорректной записи о товаре в каталоге.
	ErrInvalidProduct = errors.New("invalid product definition")
	// ErrInvalidPromotionDefinition возвращается для некорректного правила акции.
	ErrInvalidPromotionDefinition = errors.New("invalid promotion definition")
	// ErrInvalidOrderSyntax возвращается, если строку заказа не удалось разобрать.
	ErrInvalidOrderSyntax = errors.New("invalid order syntax")
	// ErrAmbiguousConfirmationInput возвращается, если ответ не является ни «да», ни «нет».
	ErrAmbiguousConfirmationInput = errors.New("answer must be Y or N")
	// ErrOrderNotFound сигнализирует о рассогласовании распределения и строки корзины.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNullOrder возвращается при попытке добавить в корзину некорректную строку.
	ErrNullOrder = errors.New("malformed cart line")
)
