package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
)

// Producer публикует доменные события в Kafka. Публикация идёт после
// коммита транзакции продажи и никогда не откатывает её: ошибки здесь
// логируются вызывающим кодом.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll // Wait for all in-sync replicas
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true // Включаем идемпотентность
	config.Net.MaxOpenRequests = 1    // Для идемпотентности

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}, nil
}

// PublishSaleCompleted публикует событие зафиксированной продажи.
func (p *Producer) PublishSaleCompleted(event domain.SaleCompletedEvent) error {
	return p.publish(TopicSalesEvents, event.InvoiceNo, envelope{
		EventType: EventTypeSaleCompleted,
		Payload:   event,
	})
}

// PublishProductRestocked публикует событие пополнения остатка.
func (p *Producer) PublishProductRestocked(event domain.ProductRestockedEvent) error {
	return p.publish(TopicStockEvents, event.ProductID, envelope{
		EventType: EventTypeProductRestocked,
		Payload:   event,
	})
}

// publish сериализует событие и отправляет его в указанный топик.
func (p *Producer) publish(topic, key string, event envelope) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ domain.EventPublisher = (*Producer)(nil)
