package events

import (
	"context"
	"time"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// Publisher announces order lifecycle changes to other services.
type Publisher interface {
	OrderCreated(ctx context.Context, order *models.Order) error
	OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error
	Close() error
}

// OrderEvent is the JSON payload written for every order event.
type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	FromStatus  models.OrderStatus `json:"from_status,omitempty"`
	Total       money.Money        `json:"total"`
	ItemCount   int                `json:"item_count"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

func newOrderEvent(eventType string, order *models.Order, from models.OrderStatus) OrderEvent {
	return OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		FromStatus:  from,
		Total:       order.Breakdown.Total,
		ItemCount:   order.Breakdown.ItemCount,
		OccurredAt:  order.UpdatedAt,
	}
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) OrderCreated(context.Context, *models.Order) error { return nil }

func (NopPublisher) OrderStatusChanged(context.Context, *models.Order, models.OrderStatus) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
