package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinorDigits is the number of minor-unit digits for every supported currency.
const MinorDigits = 2

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrAmountOverflow   = errors.New("amount overflows int64 minor units")
)

// Money is an amount in minor currency units (cents) tagged with an ISO currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func Zero(currency string) Money {
	return Money{Currency: currency}
}

// FromDecimal converts a major-unit decimal (e.g. 2500.00) to minor units, rounding half-up.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{
		Amount:   d.Shift(MinorDigits).Round(0).IntPart(),
		Currency: currency,
	}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Times multiplies the amount by an integral quantity.
func (m Money) Times(quantity int) Money {
	return Money{Amount: m.Amount * int64(quantity), Currency: m.Currency}
}

// MulQuantity is Times with an overflow check.
func (m Money) MulQuantity(quantity int) (Money, error) {
	amount, err := MulAmount(m.Amount, int64(quantity))
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: m.Currency}, nil
}

// AddAmounts sums minor-unit amounts, failing instead of wrapping.
func AddAmounts(amounts ...int64) (int64, error) {
	var sum int64
	for _, a := range amounts {
		if (a > 0 && sum > math.MaxInt64-a) || (a < 0 && sum < math.MinInt64-a) {
			return 0, ErrAmountOverflow
		}
		sum += a
	}
	return sum, nil
}

func MulAmount(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrAmountOverflow
	}
	return c, nil
}

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// Decimal returns the amount in major units. Only used at the presentation boundary.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -MinorDigits)
}

// String renders "KES 2500.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Decimal().StringFixed(MinorDigits))
}

// ValidateQuantity reports whether q is a usable line quantity.
func ValidateQuantity(q int) bool {
	return q >= 1
}

// ClampQuantity bounds q to [1, max]. Callers must ensure max >= 1.
func ClampQuantity(q, max int) int {
	if q > max {
		q = max
	}
	if q < 1 {
		q = 1
	}
	return q
}
