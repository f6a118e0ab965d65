package httpapi

import (
	"time"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
	"github.com/safar/go-storefront/internal/service"
)

// MoneyDTO carries minor units for clients that compute and a formatted string for display.
type MoneyDTO struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

func toMoney(m money.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount, Currency: m.Currency, Formatted: m.String()}
}

type LineItemDTO struct {
	ProductID      int64          `json:"product_id"`
	Name           string         `json:"name"`
	Variant        models.Variant `json:"variant"`
	UnitPrice      MoneyDTO       `json:"unit_price"`
	Quantity       int            `json:"quantity"`
	LineTotal      MoneyDTO       `json:"line_total"`
	StockAvailable int            `json:"stock_available"`
}

func toLineItems(items []models.LineItem) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemDTO{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Variant:        item.Variant,
			UnitPrice:      toMoney(item.UnitPrice),
			Quantity:       item.Quantity,
			LineTotal:      toMoney(item.LineTotal()),
			StockAvailable: item.StockAvailable,
		})
	}
	return out
}

type BreakdownDTO struct {
	Subtotal    MoneyDTO `json:"subtotal"`
	DeliveryFee MoneyDTO `json:"delivery_fee"`
	Tax         MoneyDTO `json:"tax"`
	Total       MoneyDTO `json:"total"`
	ItemCount   int      `json:"item_count"`
}

func toBreakdown(b models.PricingBreakdown) BreakdownDTO {
	return BreakdownDTO{
		Subtotal:    toMoney(b.Subtotal),
		DeliveryFee: toMoney(b.DeliveryFee),
		Tax:         toMoney(b.Tax),
		Total:       toMoney(b.Total),
		ItemCount:   b.ItemCount,
	}
}

type CartDTO struct {
	UserID                   string        `json:"user_id"`
	Items                    []LineItemDTO `json:"items"`
	Breakdown                BreakdownDTO  `json:"breakdown"`
	RemainingForFreeDelivery MoneyDTO      `json:"remaining_for_free_delivery"`
}

func toCart(v service.CartView) CartDTO {
	return CartDTO{
		UserID:                   v.UserID,
		Items:                    toLineItems(v.Items),
		Breakdown:                toBreakdown(v.Breakdown),
		RemainingForFreeDelivery: toMoney(v.RemainingForFreeDelivery),
	}
}

type LineIssueDTO struct {
	ProductID int64          `json:"product_id"`
	Name      string         `json:"name"`
	Variant   models.Variant `json:"variant"`
	Requested int            `json:"requested_quantity"`
	Available int            `json:"available_stock"`
	Reason    string         `json:"reason"`
}

type CartValidationDTO struct {
	Valid     bool           `json:"valid"`
	Items     []LineItemDTO  `json:"valid_items"`
	Issues    []LineIssueDTO `json:"validation_errors"`
	Breakdown BreakdownDTO   `json:"breakdown"`
}

func toCartValidation(v service.CartValidation) CartValidationDTO {
	issues := make([]LineIssueDTO, 0, len(v.Unavailable)+len(v.InsufficientStock))
	for _, issue := range v.Unavailable {
		issues = append(issues, toLineIssue(issue, "product_unavailable"))
	}
	for _, issue := range v.InsufficientStock {
		issues = append(issues, toLineIssue(issue, "insufficient_stock"))
	}
	return CartValidationDTO{
		Valid:     v.Valid,
		Items:     toLineItems(v.Items),
		Issues:    issues,
		Breakdown: toBreakdown(v.Breakdown),
	}
}

func toLineIssue(issue service.LineIssue, reason string) LineIssueDTO {
	return LineIssueDTO{
		ProductID: issue.ProductID,
		Name:      issue.Name,
		Variant:   issue.Variant,
		Requested: issue.Requested,
		Available: issue.Available,
		Reason:    reason,
	}
}

type OrderDTO struct {
	ID              string               `json:"id"`
	OrderNumber     string               `json:"order_number"`
	Status          models.OrderStatus   `json:"status"`
	Items           []LineItemDTO        `json:"items,omitempty"`
	ShippingAddress models.Address       `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Breakdown       BreakdownDTO         `json:"breakdown"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Version         int                  `json:"version"`
}

func toOrder(o *models.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		Items:           toLineItems(o.Items),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Breakdown:       toBreakdown(o.Breakdown),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

type OrderPageDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

type ProductDTO struct {
	ID            int64    `json:"id"`
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         MoneyDTO `json:"price"`
	CurrentPrice  MoneyDTO `json:"current_price"`
	OnSale        bool     `json:"on_sale"`
	StockQuantity int      `json:"stock_quantity"`
}

func toProduct(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         toMoney(money.FromDecimal(p.Price, p.Currency)),
		CurrentPrice:  toMoney(p.CurrentPrice()),
		OnSale:        p.IsOnSale(),
		StockQuantity: p.StockQuantity,
	}
}

type ProductPageDTO struct {
	Items      []ProductDTO `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}
