package pricing

import (
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
	"github.com/shopspring/decimal"
)

var ErrInvalidPolicy = errors.New("pricing: invalid policy")

// Policy is the single pricing configuration shared by cart totals, checkout and
// persisted orders.
type Policy struct {
	Currency              string
	FreeDeliveryThreshold int64
	StandardDeliveryFee   int64
	TaxRate               decimal.Decimal
}

// DefaultPolicy: free delivery from KSh 5,000.00, otherwise KSh 500.00, no tax.
func DefaultPolicy() Policy {
	return Policy{
		Currency:              "KES",
		FreeDeliveryThreshold: 500000,
		StandardDeliveryFee:   50000,
		TaxRate:               decimal.Zero,
	}
}

func (p Policy) Validate() error {
	switch {
	case p.Currency == "":
		return fmt.Errorf("%w: currency is required", ErrInvalidPolicy)
	case p.FreeDeliveryThreshold < 0:
		return fmt.Errorf("%w: negative free delivery threshold", ErrInvalidPolicy)
	case p.StandardDeliveryFee < 0:
		return fmt.Errorf("%w: negative delivery fee", ErrInvalidPolicy)
	case p.TaxRate.IsNegative():
		return fmt.Errorf("%w: negative tax rate", ErrInvalidPolicy)
	case p.TaxRate.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: tax rate above 100%%", ErrInvalidPolicy)
	}
	return nil
}

// ComputeBreakdown prices items under policy. It reads nothing but its arguments,
// so equal inputs always give equal outputs.
//
// Tax is rounded exactly once, half-up, on the whole subtotal; per-line rounding
// would drift from the order total.
func ComputeBreakdown(items []models.LineItem, policy Policy) (models.PricingBreakdown, error) {
	var subtotal int64
	var count int
	for _, item := range items {
		if item.UnitPrice.Currency != policy.Currency {
			return models.PricingBreakdown{}, fmt.Errorf("%w: item %d priced in %s, policy uses %s",
				models.ErrCurrencyMismatch, item.ProductID, item.UnitPrice.Currency, policy.Currency)
		}
		line, err := item.UnitPrice.MulQuantity(item.Quantity)
		if err != nil {
			return models.PricingBreakdown{}, fmt.Errorf("item %d: %w", item.ProductID, err)
		}
		if subtotal, err = money.AddAmounts(subtotal, line.Amount); err != nil {
			return models.PricingBreakdown{}, fmt.Errorf("subtotal: %w", err)
		}
		count += item.Quantity
	}

	deliveryFee := DeliveryFee(subtotal, len(items) == 0, policy)
	tax := Tax(subtotal, policy)
	total, err := money.AddAmounts(subtotal, deliveryFee, tax)
	if err != nil {
		return models.PricingBreakdown{}, fmt.Errorf("total: %w", err)
	}

	return models.PricingBreakdown{
		Subtotal:    money.New(subtotal, policy.Currency),
		DeliveryFee: money.New(deliveryFee, policy.Currency),
		Tax:         money.New(tax, policy.Currency),
		Total:       money.New(total, policy.Currency),
		ItemCount:   count,
	}, nil
}

// DeliveryFee is zero for an empty cart and for subtotals at or above the threshold.
func DeliveryFee(subtotal int64, empty bool, policy Policy) int64 {
	if empty || subtotal >= policy.FreeDeliveryThreshold {
		return 0
	}
	return policy.StandardDeliveryFee
}

func Tax(subtotal int64, policy Policy) int64 {
	if policy.TaxRate.IsZero() {
		return 0
	}
	// Round is half away from zero, which is half-up for non-negative subtotals.
	return decimal.NewFromInt(subtotal).Mul(policy.TaxRate).Round(0).IntPart()
}

// RemainingForFreeDelivery is how much more the customer must add to reach the
// free delivery threshold; zero once it is reached.
func RemainingForFreeDelivery(subtotal int64, policy Policy) money.Money {
	remaining := policy.FreeDeliveryThreshold - subtotal
	if remaining < 0 {
		remaining = 0
	}
	return money.New(remaining, policy.Currency)
}
