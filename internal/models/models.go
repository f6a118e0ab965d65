package models

import (
	"time"

	"github.com/safar/go-storefront/internal/money"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64               `json:"id"`
	SKU           string              `json:"sku"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	SalePrice     decimal.NullDecimal `json:"sale_price"`
	Currency      string              `json:"currency"`
	StockQuantity int                 `json:"stock_quantity"`
	IsActive      bool                `json:"is_active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// IsOnSale reports whether a sale price below the list price is set.
func (p *Product) IsOnSale() bool {
	return p.SalePrice.Valid && p.SalePrice.Decimal.LessThan(p.Price)
}

// CurrentPrice is the price a cart line snapshots when the product is added.
func (p *Product) CurrentPrice() money.Money {
	if p.IsOnSale() {
		return money.FromDecimal(p.SalePrice.Decimal, p.Currency)
	}
	return money.FromDecimal(p.Price, p.Currency)
}
