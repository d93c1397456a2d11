package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// SamplerSelection maps sandwich ids to counts while a customer assembles
// a sampler plate.
type SamplerSelection map[string]int

// Adjust changes a sandwich's count by delta, flooring at zero. A count
// that reaches zero removes the selection entirely.
func (s SamplerSelection) Adjust(sandwichID string, delta int) {
	n := s[sandwichID] + delta
	if n <= 0 {
		delete(s, sandwichID)
		return
	}
	s[sandwichID] = n
}

// Total is the sandwich count across all selections.
func (s SamplerSelection) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// ResolveSampler prices a sampler plate. The total sandwich count must
// equal the chosen size's required count exactly. Price is the size base
// price plus the premium upcharge for every premium sandwich selected.
func ResolveSampler(item *catalog.Item, size string, selection SamplerSelection) (cart.LineItem, error) {
	c := spec(item)
	if c == nil || c.Sampler == nil {
		return cart.LineItem{}, wrongKind(item, catalog.KindSampler)
	}
	sp := c.Sampler

	var verr validation.Error
	sz, ok := sp.Sizes[size]
	if !ok {
		verr.Addf("size", "unknown size %q", size)
		return cart.LineItem{}, verr.Err()
	}

	premiumCount := 0
	counts := make(map[string]int, len(selection))
	var nameOrder []string
	for _, id := range sortedKeys(selection) {
		n := selection[id]
		if n <= 0 {
			continue
		}
		sw, ok := sp.Sandwich(id)
		if !ok {
			verr.Addf("sandwiches", "unknown sandwich %q", id)
			continue
		}
		nameOrder = append(nameOrder, sw.Name)
		counts[sw.Name] = n
		if sw.Premium {
			premiumCount += n
		}
	}
	if total := selection.Total(); total != sz.SandwichCount {
		verr.Addf("sandwiches", "select exactly %d sandwiches (currently %d)", sz.SandwichCount, total)
	}
	if err := verr.Err(); err != nil {
		return cart.LineItem{}, err
	}

	price := sz.BasePrice.Add(sp.PremiumUpcharge.Mul(decimal.NewFromInt(int64(premiumCount))))

	return cart.LineItem{
		ID:          cart.NewLineID(),
		CatalogID:   item.ID,
		Name:        fmt.Sprintf("%s (%s)", item.Name, size),
		UnitPrice:   round(price),
		Quantity:    1,
		Category:    item.Category,
		Tags:        item.Tags,
		Description: countedNames(nameOrder, counts),
		Selections: map[string]any{
			"size":       size,
			"sandwiches": map[string]int(selection),
		},
	}, nil
}
