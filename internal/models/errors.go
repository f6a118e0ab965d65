package models

import (
	"errors"
	"strings"

	"github.com/safar/go-storefront/internal/money"
)

var (
	ErrInvalidQuantity          = errors.New("quantity must be at least 1")
	ErrOutOfStock               = errors.New("product is out of stock")
	ErrItemNotFound             = errors.New("item not found in cart")
	ErrEmptyCart                = errors.New("cart is empty")
	ErrIncompleteShippingInfo   = errors.New("incomplete shipping information")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidStateTransition   = errors.New("invalid order status transition")
	ErrUnknownOrderStatus       = errors.New("unknown order status")

	// ErrCurrencyMismatch is shared with the money package so errors.Is works from either side.
	ErrCurrencyMismatch = money.ErrCurrencyMismatch
)

// ShippingInfoError lists the missing address fields.
type ShippingInfoError struct {
	Missing []string
}

func (e *ShippingInfoError) Error() string {
	return ErrIncompleteShippingInfo.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

func (e *ShippingInfoError) Unwrap() error {
	return ErrIncompleteShippingInfo
}
