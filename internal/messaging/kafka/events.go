package kafka

// EventType определяет тип события
type EventType string

const (
	EventTypeSaleCompleted    EventType = "sale.completed"
	EventTypeProductRestocked EventType = "product.restocked"
)

// Topics для Kafka
const (
	TopicSalesEvents = "ims.sales.events"
	TopicStockEvents = "ims.stock.events"
)

// envelope — общий конверт события: тип плюс полезная нагрузка.
type envelope struct {
	EventType EventType   `json:"event_type"`
	Payload   interface{} `json:"payload"`
}
