package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/go-storefront/internal/logging"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/service"
	"go.uber.org/zap"
)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

type checkoutRequest struct {
	ShippingAddress models.Address       `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.svc.PlaceOrder(r.Context(), userIDFrom(r.Context()), req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		if order == nil || !errors.Is(err, service.ErrCartNotCleared) {
			respondErr(w, r, err)
			return
		}
		logging.FromContext(r.Context()).Error("order placed with stale cart",
			zap.String("order_id", order.ID), zap.Error(err))
	}
	respondJSON(w, http.StatusCreated, toOrder(order))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > maxOrderLimit {
		limit = defaultOrderLimit
	}

	page, err := h.svc.ListOrders(r.Context(), userIDFrom(r.Context()),
		models.OrderStatus(q.Get("status")), q.Get("cursor"), limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	out := OrderPageDTO{
		Items:      make([]OrderDTO, 0, len(page.Items)),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
	for i := range page.Items {
		out.Items = append(out.Items, toOrder(&page.Items[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrder(order))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		respondErr(w, r, models.ErrUnknownOrderStatus)
		return
	}

	order, err := h.svc.UpdateOrderStatus(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrder(order))
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.CancelOrder(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrder(order))
}
