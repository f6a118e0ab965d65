package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/service"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

// Storefront is the service surface the HTTP layer drives. *service.CartService implements it.
type Storefront interface {
	GetCart(ctx context.Context, userID string) (service.CartView, error)
	ItemCount(ctx context.Context, userID string) (int, error)
	AddItem(ctx context.Context, userID string, req service.AddItemRequest) (service.CartView, error)
	SetQuantity(ctx context.Context, userID string, productID int64, variant models.Variant, quantity int) (service.CartView, error)
	RemoveItem(ctx context.Context, userID string, productID int64, variant models.Variant) (service.CartView, error)
	ClearCart(ctx context.Context, userID string) error
	ValidateCart(ctx context.Context, userID string) (service.CartValidation, error)

	PlaceOrder(ctx context.Context, userID string, address models.Address, method models.PaymentMethod) (*models.Order, error)
	GetOrder(ctx context.Context, userID, id string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, status models.OrderStatus, cursor string, limit int) (*store.CursorPage[models.Order], error)
	UpdateOrderStatus(ctx context.Context, userID, id string, next models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, id string) (*models.Order, error)

	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error)
}

type Handler struct {
	svc Storefront
}

func NewRouter(svc Storefront, logger *zap.Logger, requestTimeout time.Duration) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Get("/count", h.ItemCount)
			r.Post("/validate", h.ValidateCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productID}", h.SetQuantity)
			r.Delete("/items/{productID}", h.RemoveItem)
		})

		r.Post("/checkout", h.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Post("/{id}/status", h.UpdateOrderStatus)
			r.Post("/{id}/cancel", h.CancelOrder)
		})
	})

	return r
}
