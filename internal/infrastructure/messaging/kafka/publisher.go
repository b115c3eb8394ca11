// internal/infrastructure/messaging/kafka/publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// MessageWriter is the part of kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a writer for the order events topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
}

// Publisher writes order events keyed by order id so one order's events stay ordered
type Publisher struct {
	writer MessageWriter
}

// NewPublisher wraps a message writer
func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish writes one order event
func (p *Publisher) Publish(ctx context.Context, event order.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs events when Kafka is disabled
type LogPublisher struct {
	logger *logrus.Logger
}

// Publish logs the event
func (l *LogPublisher) Publish(_ context.Context, event order.Event) error {
	l.logger.WithFields(logrus.Fields{
		"event":    event.Type,
		"order_id": event.OrderID,
	}).Debug("order event (kafka disabled)")
	return nil
}

// Close is a no-op
func (l *LogPublisher) Close() error { return nil }

// EventPublisher is implemented by Publisher and LogPublisher
type EventPublisher interface {
	Publish(ctx context.Context, event order.Event) error
	Close() error
}

// NewEventPublisher returns a Kafka publisher when enabled, otherwise a log publisher
func NewEventPublisher(cfg *config.Config, logger *logrus.Logger) EventPublisher {
	kc := cfg.External.Kafka
	if !kc.Enabled {
		return &LogPublisher{logger: logger}
	}
	logger.WithFields(logrus.Fields{"brokers": kc.Brokers, "topic": kc.Topic}).Info("✅ Kafka order event publisher configured")
	return NewPublisher(NewKafkaWriter(kc.Brokers, kc.Topic))
}
