package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/pricing"
)

// Service turns carts into order snapshots under one pricing policy.
type Service struct {
	policy pricing.Policy
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

func NewService(policy pricing.Policy, opts ...Option) (*Service, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		policy: policy,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Policy() pricing.Policy {
	return s.policy
}

func generateOrderNumber(at time.Time) string {
	return fmt.Sprintf("ORD-%d", at.UnixNano())
}

// CreateOrder snapshots c into a pending order. The cart is only read; clearing it is
// up to the caller once the order has been durably accepted.
func (s *Service) CreateOrder(c *cart.Cart, address models.Address, method models.PaymentMethod) (*models.Order, error) {
	if c.IsEmpty() {
		return nil, models.ErrEmptyCart
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedPaymentMethod, method)
	}

	items := c.Items()
	breakdown, err := pricing.ComputeBreakdown(items, s.policy)
	if err != nil {
		return nil, fmt.Errorf("price order: %w", err)
	}

	now := s.now().UTC()
	// PostgreSQL keeps microseconds; truncate so the stored snapshot round-trips exactly.
	createdAt := now.Truncate(time.Microsecond)
	return &models.Order{
		ID:              s.newID(),
		OrderNumber:     generateOrderNumber(now),
		UserID:          c.UserID(),
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   method,
		Breakdown:       breakdown,
		Status:          models.OrderStatusPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
		Version:         1,
	}, nil
}
