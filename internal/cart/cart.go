package cart

import (
	"fmt"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/money"
	"github.com/safar/go-storefront/internal/pricing"
)

// Cart is a user's ordered set of line items. It is not safe for concurrent use;
// the service layer serialises access per user.
//
// Invariants: identity keys are unique and every quantity is >= 1.
type Cart struct {
	userID string
	items  []models.LineItem
}

func New(userID string) *Cart {
	return &Cart{userID: userID}
}

// FromItems rebuilds a cart from persisted lines, rejecting data that breaks the invariants.
func FromItems(userID string, items []models.LineItem) (*Cart, error) {
	c := New(userID)
	seen := make(map[models.ItemKey]struct{}, len(items))
	for _, item := range items {
		if !money.ValidateQuantity(item.Quantity) {
			return nil, fmt.Errorf("restore product %d: %w", item.ProductID, models.ErrInvalidQuantity)
		}
		if _, dup := seen[item.Key()]; dup {
			return nil, fmt.Errorf("restore product %d: duplicate line", item.ProductID)
		}
		if len(c.items) > 0 && c.items[0].UnitPrice.Currency != item.UnitPrice.Currency {
			return nil, fmt.Errorf("restore product %d: %w", item.ProductID, models.ErrCurrencyMismatch)
		}
		seen[item.Key()] = struct{}{}
		c.items = append(c.items, item)
	}
	return c, nil
}

func (c *Cart) UserID() string {
	return c.userID
}

// Items returns a copy of the lines in display order.
func (c *Cart) Items() []models.LineItem {
	return models.CloneItems(c.items)
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// AddItem merges into an existing line with the same (productID, variant) or appends a new one.
// A merged line keeps the unit price captured on its first add.
func (c *Cart) AddItem(productID int64, name string, quantity int, variant models.Variant, unitPrice money.Money, stockAvailable int) error {
	if !money.ValidateQuantity(quantity) {
		return models.ErrInvalidQuantity
	}
	if stockAvailable <= 0 {
		return models.ErrOutOfStock
	}
	if unitPrice.IsNegative() {
		return money.ErrNegativeAmount
	}
	if len(c.items) > 0 && c.items[0].UnitPrice.Currency != unitPrice.Currency {
		return fmt.Errorf("%w: cart uses %s, item priced in %s",
			models.ErrCurrencyMismatch, c.items[0].UnitPrice.Currency, unitPrice.Currency)
	}

	key := models.ItemKey{ProductID: productID, Variant: variant}
	if i := c.indexOf(key); i >= 0 {
		line := &c.items[i]
		line.StockAvailable = stockAvailable
		line.Quantity = money.ClampQuantity(line.Quantity+quantity, stockAvailable)
		return nil
	}

	c.items = append(c.items, models.LineItem{
		ProductID:      productID,
		Name:           name,
		UnitPrice:      unitPrice,
		Quantity:       money.ClampQuantity(quantity, stockAvailable),
		Variant:        variant,
		StockAvailable: stockAvailable,
	})
	return nil
}

// SetQuantity sets a line's quantity within [1, StockAvailable]; zero or less removes the line.
func (c *Cart) SetQuantity(productID int64, variant models.Variant, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(productID, variant)
	}
	i := c.indexOf(models.ItemKey{ProductID: productID, Variant: variant})
	if i < 0 {
		return models.ErrItemNotFound
	}
	line := &c.items[i]
	limit := line.StockAvailable
	if limit < 1 {
		limit = 1
	}
	line.Quantity = money.ClampQuantity(quantity, limit)
	return nil
}

func (c *Cart) RemoveItem(productID int64, variant models.Variant) error {
	i := c.indexOf(models.ItemKey{ProductID: productID, Variant: variant})
	if i < 0 {
		return models.ErrItemNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Totals prices the current contents. Nothing is cached on the cart.
func (c *Cart) Totals(policy pricing.Policy) (models.PricingBreakdown, error) {
	return pricing.ComputeBreakdown(c.items, policy)
}

func (c *Cart) indexOf(key models.ItemKey) int {
	for i, item := range c.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
