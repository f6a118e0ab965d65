package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type fakeCatalog struct {
	products map[int64]*models.Product
	err      error
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error) {
	items := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		items = append(items, *p)
	}
	return &store.OffsetPage[models.Product]{Items: items, Total: int64(len(items)), Page: page, PageSize: pageSize}, nil
}

type fakeCarts struct {
	mu      sync.Mutex
	data    map[string][]models.LineItem
	loads   int
	saveErr error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{data: make(map[string][]models.LineItem)}
}

func (f *fakeCarts) LoadCart(ctx context.Context, userID string) ([]models.LineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return models.CloneItems(f.data[userID]), nil
}

func (f *fakeCarts) SaveCart(_ context.Context, userID string, items []models.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[userID] = models.CloneItems(items)
	return nil
}

func (f *fakeCarts) items(userID string) []models.LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.CloneItems(f.data[userID])
}

func (f *fakeCarts) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]models.Order
	submitErr error
	submits   int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[string]models.Order)}
}

func (f *fakeOrders) SubmitOrder(_ context.Context, order *models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.orders[order.ID] = order.Clone()
	return order.ID, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	cp := o.Clone()
	return &cp, nil
}

func (f *fakeOrders) ListOrders(_ context.Context, userID string, status models.OrderStatus, _ string, limit int) (*store.CursorPage[models.Order], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &store.CursorPage[models.Order]{Items: []models.Order{}}
	for _, o := range f.orders {
		if o.UserID == userID && (status == "" || o.Status == status) && len(page.Items) < limit {
			page.Items = append(page.Items, o.Clone())
		}
	}
	return page, nil
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus, expectedVersion int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.Version != expectedVersion {
		return database.ErrOptimisticLockFailed
	}
	o.Status = status
	o.UpdatedAt = at
	o.Version++
	f.orders[id] = o
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	changed []models.OrderStatus
	err     error
}

func (p *recordingPublisher) OrderCreated(_ context.Context, order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, order.ID)
	return p.err
}

func (p *recordingPublisher) OrderStatusChanged(_ context.Context, order *models.Order, _ models.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, order.Status)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

var errBackendDown = errors.New("backend unavailable")
