// Package cart holds the in-progress order for one session: resolved line
// items, quantity adjustments and the running subtotal. All pricing is
// resolved before a line enters the cart; the cart itself never reprices.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/catalog"
)

// LineItem is one cart entry. ID is unique per cart occurrence, not per
// catalog item, so the same catalog item can appear twice with different
// customizations. UnitPrice is immutable once the line is added.
type LineItem struct {
	ID        string               `json:"id"`
	CatalogID string               `json:"catalog_id"`
	Name      string               `json:"name"`
	UnitPrice decimal.Decimal      `json:"unit_price"`
	Quantity  int                  `json:"quantity"`
	Category  catalog.Category     `json:"category"`
	Tags      []catalog.DietaryTag `json:"tags,omitempty"`
	// Description is the human-readable customization summary.
	Description string `json:"description,omitempty"`
	// Selections is an audit record of the raw choices; it never feeds
	// back into pricing.
	Selections map[string]any `json:"selections,omitempty"`
}

// NewLineID mints a cart-occurrence id.
func NewLineID() string { return uuid.NewString() }

// Subtotal is the line's contribution to the cart total.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered set of line items for one order session. Insertion
// order is display order.
type Cart struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	Items        []LineItem `json:"items"`
}

// New creates an empty cart bound to one restaurant.
func New(restaurantID string) *Cart {
	return &Cart{ID: uuid.NewString(), RestaurantID: restaurantID}
}

// Add appends lines to the cart. A line whose ID exactly matches an
// existing one is merged by adding quantities (simple re-stock of a
// non-customized item); everything else is a new row, never an overwrite.
func (c *Cart) Add(lines ...LineItem) {
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if i := c.index(line.ID); i >= 0 {
			c.Items[i].Quantity += line.Quantity
			continue
		}
		c.Items = append(c.Items, line)
	}
}

// Increment raises the quantity of the given line by one.
func (c *Cart) Increment(lineID string) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity++
	return true
}

// Decrement lowers the quantity of the given line by one, removing the
// line when it reaches zero.
func (c *Cart) Decrement(lineID string) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity--
	if c.Items[i].Quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	return true
}

// Remove deletes the line regardless of quantity.
func (c *Cart) Remove(lineID string) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// Subtotal sums every line's unit price times quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount is the total unit count across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.Items {
		n += line.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.Items) == 0 }

// Clear drops every line.
func (c *Cart) Clear() { c.Items = nil }

// Snapshot returns a copy of the lines for embedding in an order record.
func (c *Cart) Snapshot() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) index(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}
