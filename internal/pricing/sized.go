package pricing

import (
	"fmt"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// ResolveSized prices a size-customized item. Each size with a positive
// requested quantity becomes its own line at that size's absolute price.
// No discount logic applies to sized items.
func ResolveSized(item *catalog.Item, quantities map[string]int) ([]cart.LineItem, error) {
	c := spec(item)
	if c == nil || c.Sized == nil {
		return nil, wrongKind(item, catalog.KindSized)
	}

	var verr validation.Error
	total := 0
	for _, label := range sortedKeys(quantities) {
		if quantities[label] < 0 {
			verr.Add(label, "quantity must not be negative")
			continue
		}
		if _, ok := c.Sized.Size(label); !ok {
			verr.Add(label, "unknown size")
			continue
		}
		total += quantities[label]
	}
	if total == 0 {
		verr.Add("quantities", "select at least one size")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	lines := make([]cart.LineItem, 0, len(quantities))
	for _, size := range c.Sized.Sizes {
		qty := quantities[size.Label]
		if qty <= 0 {
			continue
		}
		lines = append(lines, cart.LineItem{
			ID:        cart.NewLineID(),
			CatalogID: item.ID,
			Name:      fmt.Sprintf("%s (%s)", item.Name, size.Label),
			UnitPrice: round(size.Price),
			Quantity:  qty,
			Category:  item.Category,
			Tags:      item.Tags,
			Selections: map[string]any{
				"size": size.Label,
			},
		})
	}
	return lines, nil
}
