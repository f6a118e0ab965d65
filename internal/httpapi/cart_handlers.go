package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/service"
)

type addItemRequest struct {
	ProductID int64          `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Variant   models.Variant `json:"variant"`
}

type setQuantityRequest struct {
	Quantity int            `json:"quantity"`
	Variant  models.Variant `json:"variant"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetCart(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCart(view))
}

func (h *Handler) ItemCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.ItemCount(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// ValidateCart answers 200 even when lines fail; the body says which and why.
func (h *Handler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ValidateCart(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartValidation(result))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	view, err := h.svc.AddItem(r.Context(), userIDFrom(r.Context()), service.AddItemRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Variant:   req.Variant,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCart(view))
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req setQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.svc.SetQuantity(r.Context(), userIDFrom(r.Context()), productID, req.Variant, req.Quantity)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCart(view))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	variant := models.Variant{
		Size:  r.URL.Query().Get("size"),
		Color: r.URL.Query().Get("color"),
	}

	view, err := h.svc.RemoveItem(r.Context(), userIDFrom(r.Context()), productID, variant)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCart(view))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCart(r.Context(), userIDFrom(r.Context())); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "invalid product ID")
		return 0, false
	}
	return id, true
}
