// Package events publishes sale lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"todostock/internal/models"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers sale events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishSaleEvent(ctx context.Context, event *models.SaleEvent) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer the producer needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaProducer struct {
	writer MessageWriter
}

func NewKafkaProducer(brokers []string, topic string) Publisher {
	return NewProducerWithWriter(newKafkaWriter(brokers, topic))
}

// newKafkaWriter returns an async writer: WriteMessages only enqueues, so a
// broker outage never holds up the HTTP response. Delivery errors surface in
// Completion; Close flushes what is still buffered.
func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("WARN: kafka producer dropped %d event(s): %v", len(messages), err)
			}
		},
	}
}

func NewProducerWithWriter(writer MessageWriter) Publisher {
	return &kafkaProducer{writer: writer}
}

// PublishSaleEvent keys messages by sale id so events of one sale stay ordered
func (p *kafkaProducer) PublishSaleEvent(ctx context.Context, event *models.SaleEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode sale event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.SaleID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishSaleEvent(context.Context, *models.SaleEvent) error { return nil }

func (noopPublisher) Close() error { return nil }
