package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/Chinenye997/IMS/internal/domain"
)

func newTestProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mockProducer := mocks.NewSyncProducer(t, nil)
	return &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}, mockProducer
}

func TestProducer_PublishSaleCompleted(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event envelope
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeSaleCompleted {
			t.Errorf("expected event type %s, got %s", EventTypeSaleCompleted, event.EventType)
		}
		return nil
	})

	err := producer.PublishSaleCompleted(domain.SaleCompletedEvent{
		OrderID:          "order-1",
		InvoiceNo:        "InvoiceNo-001",
		RequesterID:      "requester-1",
		TotalAmountMinor: 4500,
		PaymentMethod:    string(domain.PaymentMethodCash),
		ItemCount:        2,
		OccurredAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishProductRestocked(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event envelope
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeProductRestocked {
			t.Errorf("expected event type %s, got %s", EventTypeProductRestocked, event.EventType)
		}
		return nil
	})

	err := producer.PublishProductRestocked(domain.ProductRestockedEvent{
		ProductID:   "p1",
		Amount:      5,
		NewQuantity: 15,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishSaleCompleted_Error(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishSaleCompleted(domain.SaleCompletedEvent{
		OrderID:   "order-1",
		InvoiceNo: "InvoiceNo-001",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
