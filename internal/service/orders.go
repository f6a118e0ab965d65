package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

// PlaceOrder snapshots the cart into an order, submits it and only then clears the cart.
// If submission fails the cart is left exactly as it was.
//
// When the order is accepted but the empty cart cannot be saved, the order is returned
// along with ErrCartNotCleared.
func (s *CartService) PlaceOrder(ctx context.Context, userID string, address models.Address, method models.PaymentMethod) (*models.Order, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	c, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.checkout.CreateOrder(c, address, method)
	if err != nil {
		return nil, err
	}

	id, err := s.submit.Execute(func() (string, error) {
		return s.orders.SubmitOrder(ctx, order)
	})
	if err != nil {
		s.logger.Error("submit order failed",
			zap.String("user_id", userID),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if id != "" {
		order.ID = id
	}

	s.logger.Info("order placed",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Breakdown.Total.Amount),
	)

	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		s.logger.Warn("publish order created failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	c.Clear()
	if err := s.save(ctx, c); err != nil {
		return order, fmt.Errorf("%w: %w", ErrCartNotCleared, err)
	}

	return order, nil
}

// GetOrder returns one of the user's orders. Orders of other users are reported as not found.
func (s *CartService) GetOrder(ctx context.Context, userID, id string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, database.ErrOrderNotFound
	}
	return order, nil
}

func (s *CartService) ListOrders(ctx context.Context, userID string, status models.OrderStatus, cursor string, limit int) (*store.CursorPage[models.Order], error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownOrderStatus, status)
	}
	return s.orders.ListOrders(ctx, userID, status, cursor, limit)
}

// UpdateOrderStatus moves an order along the status machine. A concurrent update of the
// same order fails with database.ErrOptimisticLockFailed.
func (s *CartService) UpdateOrderStatus(ctx context.Context, userID, id string, next models.OrderStatus) (*models.Order, error) {
	order, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := order.Transition(next, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateOrderStatus(ctx, id, updated.Status, order.Version, updated.UpdatedAt); err != nil {
		if errors.Is(err, database.ErrOptimisticLockFailed) {
			s.logger.Info("order status update lost race", zap.String("order_id", id))
		}
		return nil, err
	}
	updated.Version = order.Version + 1

	if err := s.publisher.OrderStatusChanged(ctx, &updated, order.Status); err != nil {
		s.logger.Warn("publish order status failed", zap.String("order_id", id), zap.Error(err))
	}

	return &updated, nil
}

func (s *CartService) CancelOrder(ctx context.Context, userID, id string) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, userID, id, models.OrderStatusCancelled)
}
