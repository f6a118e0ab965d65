package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

// memStore backs the service with maps for handler tests.
type memStore struct {
	mu        sync.Mutex
	products  map[int64]models.Product
	carts     map[string][]models.LineItem
	orders    map[string]models.Order
	submitErr error
}

func newMemStore(products ...models.Product) *memStore {
	m := &memStore{
		products: make(map[int64]models.Product),
		carts:    make(map[string][]models.LineItem),
		orders:   make(map[string]models.Order),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	return &p, nil
}

func (m *memStore) ListProducts(_ context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.Product{}
	for id := int64(1); len(items) < len(m.products); id++ {
		if p, ok := m.products[id]; ok {
			items = append(items, p)
		}
	}
	return &store.OffsetPage[models.Product]{Items: items, Total: int64(len(items)), Page: page, PageSize: pageSize, TotalPages: 1}, nil
}

func (m *memStore) LoadCart(_ context.Context, userID string) ([]models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneItems(m.carts[userID]), nil
}

func (m *memStore) SaveCart(_ context.Context, userID string, items []models.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = models.CloneItems(items)
	return nil
}

func (m *memStore) SubmitOrder(_ context.Context, order *models.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return "", m.submitErr
	}
	m.orders[order.ID] = order.Clone()
	return order.ID, nil
}

func (m *memStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	cp := o.Clone()
	return &cp, nil
}

func (m *memStore) ListOrders(_ context.Context, userID string, status models.OrderStatus, cursor string, limit int) (*store.CursorPage[models.Order], error) {
	if _, err := store.DecodeCursor(cursor); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	page := &store.CursorPage[models.Order]{Items: []models.Order{}}
	for _, o := range m.orders {
		if o.UserID == userID && (status == "" || o.Status == status) && len(page.Items) < limit {
			page.Items = append(page.Items, o.Clone())
		}
	}
	return page, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus, expectedVersion int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Version != expectedVersion {
		return database.ErrOptimisticLockFailed
	}
	o.Status = status
	o.UpdatedAt = at
	o.Version++
	m.orders[id] = o
	return nil
}
