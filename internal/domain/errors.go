package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart — бизнес-отказ: запрос без единой позиции.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnknownProduct — бизнес-отказ: товар не найден в каталоге.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInsufficientStock — бизнес-отказ: остатка не хватает на запрошенное количество.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrQuantityInvalid — ошибка вызывающего: количество должно быть > 0.
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// ErrTransient — инфраструктурный сбой (таймаут блокировки, deadlock,
	// недоступность БД); вызывающий может повторить Submit целиком.
	ErrTransient = errors.New("transient storage failure")

	// ErrProductNotFound возвращается каталогом, если товара нет.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists возвращается при попытке создать товар с занятым ID.
	ErrProductExists = errors.New("product already exists")
	// ErrOrderNotFound возвращается, если заказ не найден по номеру счёта.
	ErrOrderNotFound = errors.New("order not found")

	// Ошибка отсутствующего номера счёта у заказа.
	ErrInvoiceRequired = errors.New("invoice_no is required")
	// Ошибка отсутствующего идентификатора инициатора.
	ErrRequesterRequired = errors.New("requester_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrOrderItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("total_amount_minor must be non-negative")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка отрицательной цены позиции.
	ErrItemPriceInvalid = errors.New("item unit price must be non-negative")
	// Ошибка несоответствия subtotal == quantity * unit price.
	ErrSubtotalMismatch = errors.New("item subtotal does not match quantity * unit price")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")

	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка товара.
	ErrQuantityNegative = errors.New("product quantity must be non-negative")
)

// StockError уточняет ErrInsufficientStock данными для сообщения
// пользователю: какой товар, сколько запрошено и сколько доступно.
type StockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is позволяет errors.Is(err, ErrInsufficientStock).
func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductError уточняет ErrUnknownProduct идентификатором товара.
type ProductError struct {
	ProductID string
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("unknown product %s", e.ProductID)
}

// Is позволяет errors.Is(err, ErrUnknownProduct).
func (e *ProductError) Is(target error) bool {
	return target == ErrUnknownProduct
}

// QuantityError уточняет ErrQuantityInvalid позицией запроса.
type QuantityError struct {
	ProductID string
	Quantity  int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %s", e.Quantity, e.ProductID)
}

// Is позволяет errors.Is(err, ErrQuantityInvalid).
func (e *QuantityError) Is(target error) bool {
	return target == ErrQuantityInvalid
}

// IsRejection проверяет, что ошибка — ожидаемый бизнес-отказ,
// а не инфраструктурный сбой.
func IsRejection(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrUnknownProduct) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrQuantityInvalid)
}
