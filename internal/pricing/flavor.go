package pricing

import (
	"fmt"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// ResolveFlavor prices a flavored item. Every flavor with a positive
// quantity becomes its own line at the shared unit price; ordering two
// flavors of the same soda yields two distinct lines.
func ResolveFlavor(item *catalog.Item, quantities map[string]int) ([]cart.LineItem, error) {
	c := spec(item)
	if c == nil || c.Flavor == nil {
		return nil, wrongKind(item, catalog.KindFlavor)
	}
	f := c.Flavor

	var verr validation.Error
	total := 0
	for _, flavor := range sortedKeys(quantities) {
		if quantities[flavor] < 0 {
			verr.Add(flavor, "quantity must not be negative")
			continue
		}
		if !f.Has(flavor) {
			verr.Add(flavor, "unknown flavor")
			continue
		}
		total += quantities[flavor]
	}
	if total == 0 {
		verr.Add("quantities", "select at least one flavor")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	lines := make([]cart.LineItem, 0, len(quantities))
	for _, flavor := range f.Flavors {
		qty := quantities[flavor]
		if qty <= 0 {
			continue
		}
		lines = append(lines, cart.LineItem{
			ID:        cart.NewLineID(),
			CatalogID: item.ID,
			Name:      fmt.Sprintf("%s - %s", item.Name, flavor),
			UnitPrice: round(f.UnitPrice),
			Quantity:  qty,
			Category:  item.Category,
			Tags:      item.Tags,
			Selections: map[string]any{
				"flavor": flavor,
			},
		})
	}
	return lines, nil
}
