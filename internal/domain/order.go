package domain

import "time"

// PaymentMethod описывает способ оплаты заказа.
// Нераспознанные значения сохраняются как есть для отображения
// и не влияют на поведение движка.
type PaymentMethod string

const (
	// PaymentMethodCash — наличный расчёт на кассе.
	PaymentMethodCash PaymentMethod = "Cash"
	// PaymentMethodTransfer — банковский перевод.
	PaymentMethodTransfer PaymentMethod = "Transfer"
)

// PaymentStatus описывает состояние оплаты заказа.
type PaymentStatus string

const (
	// PaymentStatusPending — оплата ещё не подтверждена.
	PaymentStatusPending PaymentStatus = "Pending"
	// PaymentStatusCompleted — оплата зафиксирована. Оба потока
	// (checkout и ручная продажа) создают заказ сразу в этом статусе.
	PaymentStatusCompleted PaymentStatus = "Completed"
)

// AnonymousRequester подставляется вместо идентификатора покупателя,
// когда запрос пришёл без аутентификации.
const AnonymousRequester = "Anonymous"

// OrderItem представляет одну позицию заказа.
// Цена фиксируется на момент транзакции и не зависит от последующих
// изменений каталога; товар может быть удалён — исторические записи
// остаются валидными.
type OrderItem struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	// ProductID ссылается на товар по идентификатору, без жёсткого FK:
	// удалённый товар не инвалидирует историю.
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	// UnitPriceMinor — снимок цены за единицу на момент продажи.
	UnitPriceMinor int64 `json:"unit_price_minor"`
	// SubtotalMinor == Quantity * UnitPriceMinor.
	SubtotalMinor int64 `json:"subtotal_minor"`
}

// Order агрегирует зафиксированную продажу и её позиции.
// После коммита заказ неизменяем.
type Order struct {
	ID string `json:"id"`
	// InvoiceNo — внешний ключ заказа для пользователя: уникален,
	// строго возрастает в порядке создания.
	InvoiceNo string `json:"invoice_no"`
	// RequesterID — непрозрачный идентификатор инициатора
	// (или AnonymousRequester); движком не валидируется.
	RequesterID string    `json:"requester_id"`
	OrderDate   time.Time `json:"order_date"`
	// TotalAmountMinor == Σ SubtotalMinor по позициям.
	TotalAmountMinor int64         `json:"total_amount_minor"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	// PaidAt заполняется только при статусе Completed.
	PaidAt time.Time   `json:"paid_at"`
	Items  []OrderItem `json:"items"`
}

// ValidateInvariants проверяет инварианты заказа перед сохранением.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.InvoiceNo == "" {
		errs = append(errs, ErrInvoiceRequired)
	}
	if o.RequesterID == "" {
		errs = append(errs, ErrRequesterRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrOrderItemsRequired)
	}
	if o.TotalAmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.SubtotalMinor != int64(item.Quantity)*item.UnitPriceMinor {
			errs = append(errs, ErrSubtotalMismatch)
		}
		calc += item.SubtotalMinor
	}
	if calc != o.TotalAmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
