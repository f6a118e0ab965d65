package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/safar/go-storefront/internal/models"
)

// Repository adapts the package functions to the interfaces the service layer consumes.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return GetProduct(ctx, r.db, id)
}

func (r *Repository) ListProducts(ctx context.Context, page, pageSize int) (*OffsetPage[models.Product], error) {
	return ListProducts(ctx, r.db, page, pageSize)
}

func (r *Repository) LoadCart(ctx context.Context, userID string) ([]models.LineItem, error) {
	return LoadCart(ctx, r.db, userID)
}

func (r *Repository) SaveCart(ctx context.Context, userID string, items []models.LineItem) error {
	return SaveCart(ctx, r.db, userID, items)
}

func (r *Repository) SubmitOrder(ctx context.Context, order *models.Order) (string, error) {
	return SubmitOrder(ctx, r.db, order)
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return GetOrder(ctx, r.db, id)
}

func (r *Repository) ListOrders(ctx context.Context, userID string, status models.OrderStatus, cursor string, limit int) (*CursorPage[models.Order], error) {
	return ListOrdersCursor(ctx, r.db, userID, status, cursor, limit)
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, expectedVersion int, at time.Time) error {
	return UpdateOrderStatus(ctx, r.db, id, status, expectedVersion, at)
}
