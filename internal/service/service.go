package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safar/go-storefront/internal/cache"
	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/store"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Catalog is the product lookup used when adding to a cart.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error)
}

type CartRepository interface {
	LoadCart(ctx context.Context, userID string) ([]models.LineItem, error)
	SaveCart(ctx context.Context, userID string, items []models.LineItem) error
}

// OrderSubmitter durably accepts an order and returns its confirmed ID.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order *models.Order) (string, error)
}

type OrderRepository interface {
	OrderSubmitter
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, status models.OrderStatus, cursor string, limit int) (*store.CursorPage[models.Order], error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, expectedVersion int, at time.Time) error
}

// ErrCartNotCleared is returned together with a placed order when the order was
// accepted but the emptied cart could not be saved.
var ErrCartNotCleared = errors.New("order placed but cart was not cleared")

const (
	cacheTimeout      = time.Second
	sharedLoadTimeout = 5 * time.Second
)

type Dependencies struct {
	Catalog   Catalog
	Carts     CartRepository
	Orders    OrderRepository
	Checkout  *checkout.Service
	Cache     cache.CartCache
	Publisher events.Publisher
	Logger    *zap.Logger
	Clock     func() time.Time
}

// CartService coordinates carts and orders across concurrent requests. Every cart
// operation for a user runs under that user's lock.
type CartService struct {
	catalog   Catalog
	carts     CartRepository
	orders    OrderRepository
	checkout  *checkout.Service
	cache     cache.CartCache
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	locks  *userLocks
	sfg    singleflight.Group
	submit *gobreaker.CircuitBreaker[string]
}

func NewCartService(deps Dependencies, breaker config.BreakerConfig) *CartService {
	s := &CartService{
		catalog:   deps.Catalog,
		carts:     deps.Carts,
		orders:    deps.Orders,
		checkout:  deps.Checkout,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       deps.Clock,
		locks:     newUserLocks(),
	}
	if s.cache == nil {
		s.cache = noopCache{}
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.submit = newSubmitBreaker(breaker, s.logger)
	return s
}

func newSubmitBreaker(cfg config.BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[string] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "order-submit",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (s *CartService) Policy() pricing.Policy {
	return s.checkout.Policy()
}

// CartView is a cart together with its derived totals.
type CartView struct {
	UserID                   string
	Items                    []models.LineItem
	Breakdown                models.PricingBreakdown
	RemainingForFreeDelivery money.Money
}

func (s *CartService) view(c *cart.Cart) (CartView, error) {
	policy := s.Policy()
	breakdown, err := c.Totals(policy)
	if err != nil {
		return CartView{}, fmt.Errorf("price cart: %w", err)
	}
	return CartView{
		UserID:                   c.UserID(),
		Items:                    c.Items(),
		Breakdown:                breakdown,
		RemainingForFreeDelivery: pricing.RemainingForFreeDelivery(breakdown.Subtotal.Amount, policy),
	}, nil
}

// GetCart returns the user's cart. Concurrent reads for one user share a single load.
func (s *CartService) GetCart(ctx context.Context, userID string) (CartView, error) {
	c, err := s.loadShared(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	return s.view(c)
}

func (s *CartService) ItemCount(ctx context.Context, userID string) (int, error) {
	c, err := s.loadShared(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.ItemCount(), nil
}

type AddItemRequest struct {
	ProductID int64
	Quantity  int
	Variant   models.Variant
}

// AddItem prices the line from the catalog at the time of the add.
func (s *CartService) AddItem(ctx context.Context, userID string, req AddItemRequest) (CartView, error) {
	if !money.ValidateQuantity(req.Quantity) {
		return CartView{}, models.ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return CartView{}, err
	}

	price := product.CurrentPrice()
	if currency := s.Policy().Currency; price.Currency != currency {
		return CartView{}, fmt.Errorf("%w: store sells in %s, product %d priced in %s",
			models.ErrCurrencyMismatch, currency, product.ID, price.Currency)
	}

	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.AddItem(product.ID, product.Name, req.Quantity, req.Variant, price, product.StockQuantity)
	})
}

func (s *CartService) SetQuantity(ctx context.Context, userID string, productID int64, variant models.Variant, quantity int) (CartView, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.SetQuantity(productID, variant, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64, variant models.Variant) (CartView, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.RemoveItem(productID, variant)
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	_, err := s.mutate(ctx, userID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	return err
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(c *cart.Cart) error) (CartView, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	c, err := s.loadLocked(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	if err := fn(c); err != nil {
		return CartView{}, err
	}
	if err := s.save(ctx, c); err != nil {
		return CartView{}, err
	}
	return s.view(c)
}

// loadShared collapses concurrent reads of one cart into a single load. The load
// outlives any one caller, so it runs detached from the caller's cancellation.
func (s *CartService) loadShared(ctx context.Context, userID string) (*cart.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		unlock := s.locks.lock(userID)
		defer unlock()

		c, err := s.loadLocked(shared, userID)
		if err != nil {
			return nil, err
		}
		return c.Items(), nil
	})
	if err != nil {
		return nil, err
	}
	return cart.FromItems(userID, v.([]models.LineItem))
}

// loadLocked reads through the cache. The caller must hold the user's lock.
func (s *CartService) loadLocked(ctx context.Context, userID string) (*cart.Cart, error) {
	items, err := s.cache.Get(ctx, userID)
	if err == nil {
		c, restoreErr := cart.FromItems(userID, items)
		if restoreErr == nil {
			return c, nil
		}
		s.logger.Warn("discarding invalid cached cart", zap.String("user_id", userID), zap.Error(restoreErr))
		s.invalidate(userID)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("user_id", userID), zap.Error(err))
	}

	items, err = s.carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c, err := cart.FromItems(userID, items)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := s.cache.Set(ctx, userID, items); err != nil {
		s.logger.Warn("cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
	return c, nil
}

func (s *CartService) save(ctx context.Context, c *cart.Cart) error {
	if err := s.carts.SaveCart(ctx, c.UserID(), c.Items()); err != nil {
		s.logger.Error("save cart failed", zap.String("user_id", c.UserID()), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	s.invalidate(c.UserID())
	return nil
}

func (s *CartService) invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *CartService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

func (s *CartService) ListProducts(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error) {
	return s.catalog.ListProducts(ctx, page, pageSize)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]models.LineItem, error) { return nil, cache.ErrCacheMiss }

func (noopCache) Set(context.Context, string, []models.LineItem) error { return nil }

func (noopCache) Delete(context.Context, string) error { return nil }
