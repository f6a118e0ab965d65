package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
)

// LoadCart returns the user's lines in display order. A user without a cart gets no lines.
func LoadCart(ctx context.Context, db *sql.DB, userID string) ([]models.LineItem, error) {
	query := `
		SELECT product_id, name, unit_price, currency, quantity, variant_size, variant_color, stock_available
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.UnitPrice.Amount,
			&item.UnitPrice.Currency,
			&item.Quantity,
			&item.Variant.Size,
			&item.Variant.Color,
			&item.StockAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// SaveCart replaces the user's stored lines with items in one transaction.
func SaveCart(ctx context.Context, db *sql.DB, userID string, items []models.LineItem) error {
	return database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}

		for i, item := range items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO cart_items (user_id, position, product_id, name, unit_price, currency, quantity,
				                         variant_size, variant_color, stock_available, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())`,
				userID, i, item.ProductID, item.Name, item.UnitPrice.Amount, item.UnitPrice.Currency,
				item.Quantity, item.Variant.Size, item.Variant.Color, item.StockAvailable)
			if err != nil {
				return fmt.Errorf("insert cart item %d: %w", item.ProductID, err)
			}
		}

		return nil
	})
}
