package cache

import (
	"context"
	"errors"

	"github.com/safar/go-storefront/internal/models"
)

// CartCache holds the read-through copy of a user's cart lines.
type CartCache interface {
	Get(ctx context.Context, userID string) ([]models.LineItem, error)
	Set(ctx context.Context, userID string, items []models.LineItem) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
