package models

import (
	"fmt"
	"time"

	"github.com/safar/go-storefront/internal/money"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return validNext[s][to]
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PricingBreakdown is always derived from line items; it is never kept on a cart.
type PricingBreakdown struct {
	Subtotal    money.Money `json:"subtotal"`
	DeliveryFee money.Money `json:"delivery_fee"`
	Tax         money.Money `json:"tax"`
	Total       money.Money `json:"total"`
	ItemCount   int         `json:"item_count"`
}

// Order is a snapshot taken at checkout. Items and Breakdown never change after creation;
// only Status moves, and only through Transition.
type Order struct {
	ID              string           `json:"id"`
	OrderNumber     string           `json:"order_number"`
	UserID          string           `json:"user_id"`
	Items           []LineItem       `json:"items"`
	ShippingAddress Address          `json:"shipping_address"`
	PaymentMethod   PaymentMethod    `json:"payment_method"`
	Breakdown       PricingBreakdown `json:"breakdown"`
	Status          OrderStatus      `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// Transition returns a copy of o moved to next. o itself is left untouched.
func (o Order) Transition(next OrderStatus, at time.Time) (Order, error) {
	if o.Status.IsTerminal() {
		return Order{}, fmt.Errorf("%w: order is already %s", ErrInvalidStateTransition, o.Status)
	}
	if !o.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, o.Status, next)
	}
	out := o.Clone()
	out.Status = next
	out.UpdatedAt = at
	return out, nil
}

func (o Order) Cancel(at time.Time) (Order, error) {
	return o.Transition(OrderStatusCancelled, at)
}

func (o Order) Clone() Order {
	out := o
	out.Items = CloneItems(o.Items)
	return out
}
