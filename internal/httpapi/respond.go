package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/logging"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
	"github.com/safar/go-storefront/internal/store"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const maxRequestBodySize = 1 << 20

// statusClientClosedRequest is nginx's code for a client that hung up first.
const statusClientClosedRequest = 499

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("encode response failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondErr maps err to a status and writes it. Server-side failures are logged and
// reported without detail.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", zap.String("code", code), zap.Error(err))
		respondError(w, status, code, http.StatusText(status))
		return
	}
	respondError(w, status, code, err.Error())
}

// statusFor is the single mapping from domain and storage errors to HTTP.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, models.ErrUnknownOrderStatus):
		return http.StatusBadRequest, "unknown_status"
	case errors.Is(err, money.ErrNegativeAmount):
		return http.StatusBadRequest, "invalid_price"
	case errors.Is(err, store.ErrInvalidCursor):
		return http.StatusBadRequest, "invalid_cursor"
	case errors.Is(err, models.ErrItemNotFound):
		return http.StatusNotFound, "item_not_found"
	case errors.Is(err, database.ErrProductNotFound):
		return http.StatusNotFound, "product_not_found"
	case errors.Is(err, database.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, models.ErrOutOfStock):
		return http.StatusConflict, "out_of_stock"
	case errors.Is(err, models.ErrInvalidStateTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, database.ErrOptimisticLockFailed):
		return http.StatusConflict, "concurrent_update"
	case errors.Is(err, models.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, models.ErrIncompleteShippingInfo):
		return http.StatusUnprocessableEntity, "incomplete_shipping_info"
	case errors.Is(err, models.ErrUnsupportedPaymentMethod):
		return http.StatusUnprocessableEntity, "unsupported_payment_method"
	case errors.Is(err, models.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity, "currency_mismatch"
	case errors.Is(err, money.ErrAmountOverflow):
		return http.StatusUnprocessableEntity, "amount_overflow"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "client_closed_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
