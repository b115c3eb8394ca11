package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w)

	o := &order.Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Status:        order.OrderStatusCancelled,
		PaymentMethod: order.PaymentMethodMercadoPago,
		Total:         decimal.NewFromInt(140),
		Items:         []order.OrderItem{{Quantity: 2}},
	}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.Publish(context.Background(), order.NewEvent(order.EventOrderCancelled, o, now)))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, o.ID.String(), string(msg.Key))
	assert.Equal(t, now, msg.Time)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, "order.cancelled", string(msg.Headers[0].Value))

	var decoded order.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, o.ID, decoded.OrderID)
	assert.Equal(t, 2, decoded.ItemCount)
	assert.True(t, decoded.Total.Equal(decimal.NewFromInt(140)))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishError(t *testing.T) {
	p := NewPublisher(&fakeWriter{err: errors.New("broker down")})
	err := p.Publish(context.Background(), order.Event{OrderID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewEventPublisher(t *testing.T) {
	cfg := &config.Config{}
	assert.IsType(t, &LogPublisher{}, NewEventPublisher(cfg, logger.Discard()))

	cfg.External.Kafka = config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "orders"}
	pub := NewEventPublisher(cfg, logger.Discard())
	assert.IsType(t, &Publisher{}, pub)
	assert.NoError(t, pub.Close())
}
