package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func testOrder() *models.Order {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Order{
		ID:          "6f1c2e9a-2f1d-4c55-9a57-0b8f3f0e7d11",
		OrderNumber: "ORD-1740823200000000000",
		UserID:      "user123",
		Status:      models.OrderStatusPending,
		Breakdown: models.PricingBreakdown{
			Total:     money.New(900000, "KES"),
			ItemCount: 3,
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestKafkaPublisher_OrderCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	order := testOrder()

	require.NoError(t, p.OrderCreated(context.Background(), order))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, order.ID, string(msg.Key))
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderCreated, string(msg.Headers[0].Value))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, TypeOrderCreated, event.Type)
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	assert.Equal(t, money.New(900000, "KES"), event.Total)
	assert.Equal(t, 3, event.ItemCount)
	assert.Empty(t, event.FromStatus)
}

func TestKafkaPublisher_OrderStatusChanged(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	order := testOrder()
	processing, err := order.Transition(models.OrderStatusProcessing, order.CreatedAt.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, p.OrderStatusChanged(context.Background(), &processing, models.OrderStatusPending))
	require.Len(t, w.msgs, 1)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, TypeOrderStatusChanged, event.Type)
	assert.Equal(t, models.OrderStatusProcessing, event.Status)
	assert.Equal(t, models.OrderStatusPending, event.FromStatus)
	assert.True(t, processing.UpdatedAt.Equal(event.OccurredAt))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}}

	err := p.OrderCreated(context.Background(), testOrder())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), TypeOrderCreated)
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, NopPublisher{}, NewPublisher(config.KafkaConfig{Topic: "orders"}))

	p := NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "orders"})
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	w, ok := kp.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "orders", w.Topic)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	ctx := context.Background()

	assert.NoError(t, p.OrderCreated(ctx, testOrder()))
	assert.NoError(t, p.OrderStatusChanged(ctx, testOrder(), models.OrderStatusPending))
	assert.NoError(t, p.Close())
}
