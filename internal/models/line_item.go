package models

import "github.com/safar/go-storefront/internal/money"

type Variant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// ItemKey identifies a cart line. Two adds with the same key merge into one line.
type ItemKey struct {
	ProductID int64
	Variant   Variant
}

type LineItem struct {
	ProductID      int64       `json:"product_id"`
	Name           string      `json:"name"`
	UnitPrice      money.Money `json:"unit_price"`
	Quantity       int         `json:"quantity"`
	Variant        Variant     `json:"variant"`
	StockAvailable int         `json:"stock_available"`
}

func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.ProductID, Variant: li.Variant}
}

// LineTotal is UnitPrice × Quantity.
func (li LineItem) LineTotal() money.Money {
	return li.UnitPrice.Times(li.Quantity)
}

// CloneItems returns an independent copy of items. LineItem holds no references,
// so a slice copy is a deep copy.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
