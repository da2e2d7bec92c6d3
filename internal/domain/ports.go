package domain

import (
	"context"
	"time"
)

// CartStore хранит сессионные корзины. Внешний коллаборатор движка:
// checkout получает содержимое корзины списком по значению и никогда
// не лезет в хранилище сам.
type CartStore interface {
	// Get возвращает корзину сессии (пустой срез, если её нет).
	Get(ctx context.Context, sessionID string) ([]CartItem, error)
	// Save перезаписывает корзину сессии.
	Save(ctx context.Context, sessionID string, items []CartItem) error
	// Clear удаляет корзину сессии.
	Clear(ctx context.Context, sessionID string) error
}

// RequesterDirectory резолвит отображаемое имя инициатора по его
// непрозрачному идентификатору. Идентичность принадлежит внешней
// системе; движок использует справочник только для витрины истории.
type RequesterDirectory interface {
	// DisplayName возвращает имя или пустую строку, если инициатор
	// справочнику неизвестен (витрина подставит "Unknown").
	DisplayName(ctx context.Context, requesterID string) (string, error)
}

// SaleCompletedEvent публикуется после коммита успешной продажи.
type SaleCompletedEvent struct {
	OrderID          string    `json:"order_id"`
	InvoiceNo        string    `json:"invoice_no"`
	RequesterID      string    `json:"requester_id"`
	TotalAmountMinor int64     `json:"total_amount_minor"`
	PaymentMethod    string    `json:"payment_method"`
	ItemCount        int       `json:"item_count"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// ProductRestockedEvent публикуется после пополнения остатка.
type ProductRestockedEvent struct {
	ProductID   string    `json:"product_id"`
	Amount      int       `json:"amount"`
	NewQuantity int       `json:"new_quantity"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher отдаёт доменные события наружу (Kafka). Публикация
// не входит в транзакцию продажи: ошибки логируются и не откатывают
// уже зафиксированный заказ.
type EventPublisher interface {
	PublishSaleCompleted(event SaleCompletedEvent) error
	PublishProductRestocked(event ProductRestockedEvent) error
}
