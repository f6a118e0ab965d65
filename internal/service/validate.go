package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/pricing"
	"go.uber.org/zap"
)

// LineIssue is a cart line that cannot be checked out as it stands.
type LineIssue struct {
	ProductID int64
	Variant   models.Variant
	Name      string
	Requested int
	Available int
}

// CartValidation is a dry run of checkout against the live catalog. Breakdown
// prices only the lines in Items.
type CartValidation struct {
	Valid             bool
	Items             []models.LineItem
	Unavailable       []LineIssue
	InsufficientStock []LineIssue
	Breakdown         models.PricingBreakdown
}

// ValidateCart re-checks every line against the catalog without changing the cart.
// Lines keep the price they were added at.
func (s *CartService) ValidateCart(ctx context.Context, userID string) (CartValidation, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	c, err := s.loadLocked(ctx, userID)
	if err != nil {
		return CartValidation{}, err
	}

	result := CartValidation{Items: []models.LineItem{}}
	for _, item := range c.Items() {
		issue := LineIssue{
			ProductID: item.ProductID,
			Variant:   item.Variant,
			Name:      item.Name,
			Requested: item.Quantity,
		}

		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, database.ErrProductNotFound) || (err == nil && !product.IsActive) {
			result.Unavailable = append(result.Unavailable, issue)
			continue
		}
		if err != nil {
			return CartValidation{}, fmt.Errorf("validate product %d: %w", item.ProductID, err)
		}

		if item.Quantity > product.StockQuantity {
			issue.Available = max(product.StockQuantity, 0)
			result.InsufficientStock = append(result.InsufficientStock, issue)
			continue
		}
		item.StockAvailable = product.StockQuantity
		result.Items = append(result.Items, item)
	}

	result.Valid = len(result.Unavailable) == 0 && len(result.InsufficientStock) == 0
	result.Breakdown, err = pricing.ComputeBreakdown(result.Items, s.Policy())
	if err != nil {
		return CartValidation{}, fmt.Errorf("price cart: %w", err)
	}

	if !result.Valid {
		s.logger.Info("cart failed validation",
			zap.String("user_id", userID),
			zap.Int("unavailable", len(result.Unavailable)),
			zap.Int("insufficient_stock", len(result.InsufficientStock)),
		)
	}
	return result, nil
}
