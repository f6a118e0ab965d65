package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
)

const orderColumns = `id, order_number, user_id, status, payment_method, currency, subtotal, delivery_fee, tax, total,
	item_count, shipping_address, created_at, updated_at, version`

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var (
		currency string
		address  []byte
	)
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.Status,
		&order.PaymentMethod,
		&currency,
		&order.Breakdown.Subtotal.Amount,
		&order.Breakdown.DeliveryFee.Amount,
		&order.Breakdown.Tax.Amount,
		&order.Breakdown.Total.Amount,
		&order.Breakdown.ItemCount,
		&address,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		return nil, err
	}

	order.Breakdown.Subtotal.Currency = currency
	order.Breakdown.DeliveryFee.Currency = currency
	order.Breakdown.Tax.Currency = currency
	order.Breakdown.Total.Currency = currency

	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}

	return order, nil
}

// SubmitOrder durably writes an order snapshot and returns its confirmed ID.
// Resubmitting an order with the same ID is a no-op, so callers may retry after
// an ambiguous failure.
func SubmitOrder(ctx context.Context, db *sql.DB, order *models.Order) (string, error) {
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return "", fmt.Errorf("encode shipping address: %w", err)
	}

	err = database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		b := order.Breakdown
		result, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, order_number, user_id, status, payment_method, currency, subtotal, delivery_fee,
			                     tax, total, item_count, shipping_address, created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			 ON CONFLICT (id) DO NOTHING`,
			order.ID, order.OrderNumber, order.UserID, order.Status, order.PaymentMethod, b.Total.Currency,
			b.Subtotal.Amount, b.DeliveryFee.Amount, b.Tax.Amount, b.Total.Amount, b.ItemCount,
			string(address), order.CreatedAt, order.UpdatedAt, order.Version)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("create order: order number %s already used: %w", order.OrderNumber, err)
			}
			return fmt.Errorf("create order: %w", err)
		}

		inserted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if inserted == 0 {
			return nil
		}

		for i, item := range order.Items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, position, product_id, name, unit_price, quantity,
				                          variant_size, variant_color, stock_available, line_total)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				order.ID, i, item.ProductID, item.Name, item.UnitPrice.Amount, item.Quantity,
				item.Variant.Size, item.Variant.Color, item.StockAvailable, item.LineTotal().Amount)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return order.ID, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id string) (*models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, database.ErrOrderNotFound
	}

	order, err := scanOrder(db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT product_id, name, unit_price, quantity, variant_size, variant_color, stock_available
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`

	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		item := models.LineItem{UnitPrice: money.Zero(order.Breakdown.Total.Currency)}
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.UnitPrice.Amount,
			&item.Quantity,
			&item.Variant.Size,
			&item.Variant.Color,
			&item.StockAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}

// ListOrdersCursor pages a user's orders newest first. An empty status lists all.
// Listed orders carry no items; use GetOrder for the full snapshot.
func ListOrdersCursor(ctx context.Context, db *sql.DB, userID string, status models.OrderStatus, cursor string, limit int) (*CursorPage[models.Order], error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		  AND ($2 = '' OR status = $2)
		  AND (created_at, id) < ($3, $4::uuid)
		ORDER BY created_at DESC, id DESC
		LIMIT $5`

	rows, err := db.QueryContext(ctx, query, userID, string(status), cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage[models.Order]{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// UpdateOrderStatus persists a status change computed by Order.Transition. The write only
// lands if the stored version still matches, so two concurrent transitions cannot both win.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, id string, status models.OrderStatus, expectedVersion int, at time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, version = version + 1, updated_at = $2
		 WHERE id = $3 AND version = $4`,
		status, at, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrOptimisticLockFailed
	}

	return nil
}
