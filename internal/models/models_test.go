package models

import (
	"errors"
	"testing"
	"time"

	"github.com/safar/go-storefront/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
		})
	}

	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

func TestOrder_TransitionReturnsCopy(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := created.Add(time.Hour)
	o := Order{
		ID:        "o1",
		Status:    OrderStatusPending,
		Items:     []LineItem{{ProductID: 1, Quantity: 2, UnitPrice: money.New(100, "KES")}},
		CreatedAt: created,
		UpdatedAt: created,
	}

	next, err := o.Transition(OrderStatusProcessing, later)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, next.Status)
	assert.Equal(t, later, next.UpdatedAt)
	assert.Equal(t, OrderStatusPending, o.Status)

	next.Items[0].Quantity = 99
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestOrder_CancelFromShippedFails(t *testing.T) {
	o := Order{Status: OrderStatusShipped}
	_, err := o.Cancel(time.Now())
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	o.Status = OrderStatusDelivered
	_, err = o.Cancel(time.Now())
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestAddress_Validate(t *testing.T) {
	full := Address{FirstName: "Amina", AddressLine1: "Moi Ave 1", City: "Nairobi", Phone: "+254700000000"}
	assert.NoError(t, full.Validate())

	err := Address{FirstName: "Amina", City: "  "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteShippingInfo))

	var infoErr *ShippingInfoError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, []string{"address_line1", "city", "phone"}, infoErr.Missing)
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentMethodCard.Valid())
	assert.True(t, PaymentMethodMobileMoney.Valid())
	assert.True(t, PaymentMethodBankTransfer.Valid())
	assert.False(t, PaymentMethod("cash").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestProduct_CurrentPrice(t *testing.T) {
	p := &Product{Price: decimal.RequireFromString("2500.00"), Currency: "KES"}
	assert.Equal(t, money.New(250000, "KES"), p.CurrentPrice())

	p.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString("1999.99"))
	assert.True(t, p.IsOnSale())
	assert.Equal(t, money.New(199999, "KES"), p.CurrentPrice())

	p.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString("3000"))
	assert.False(t, p.IsOnSale())
	assert.Equal(t, money.New(250000, "KES"), p.CurrentPrice())
}
