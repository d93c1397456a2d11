package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// SaladSelection captures every salad choice. Zero value means "as built":
// default dressing, default toppings, no add-ons.
type SaladSelection struct {
	// Dressings chosen; one dressing is always free, each further one
	// costs the extra-dressing price. Empty means the default dressing.
	Dressings []string
	// RemovedToppings drops default toppings. Description only.
	RemovedToppings []string
	// AddedToppings adds free toppings, clamped at
	// catalog.MaxAddedToppings. Description only.
	AddedToppings []string
	// Cheeses and Meats are priced add-ons.
	Cheeses []string
	Meats   []string
}

// ResolveSalad prices a customized salad: base price, plus the
// extra-dressing charge for every dressing beyond the free one, plus the
// chosen cheese and meat add-ons. Topping changes never affect price.
//
// Additions beyond the topping cap are silently dropped rather than
// rejected; the cap is a serving-size guard, not an input contract.
func ResolveSalad(item *catalog.Item, sel SaladSelection) (cart.LineItem, error) {
	c := spec(item)
	if c == nil || c.Salad == nil {
		return cart.LineItem{}, wrongKind(item, catalog.KindSalad)
	}
	s := c.Salad

	var verr validation.Error

	dressings := sel.Dressings
	if len(dressings) == 0 {
		dressings = []string{s.DefaultDressing}
	}
	for _, name := range dressings {
		if !contains(s.Dressings, name) {
			verr.Addf("dressings", "unknown dressing %q", name)
		}
	}
	for _, name := range sel.RemovedToppings {
		if !contains(s.DefaultToppings, name) {
			verr.Addf("removed_toppings", "%q is not a default topping", name)
		}
	}
	added := sel.AddedToppings
	if len(added) > catalog.MaxAddedToppings {
		added = added[:catalog.MaxAddedToppings]
	}
	for _, name := range added {
		if !contains(s.AddableToppings, name) {
			verr.Addf("added_toppings", "unknown topping %q", name)
		}
	}

	price := item.Price
	extraDressings := len(dressings) - 1
	if extraDressings > 0 {
		price = price.Add(s.ExtraDressingPrice.Mul(decimal.NewFromInt(int64(extraDressings))))
	}
	for _, name := range sel.Cheeses {
		p, ok := s.CheeseOptions[name]
		if !ok {
			verr.Addf("cheeses", "unknown cheese %q", name)
			continue
		}
		price = price.Add(p)
	}
	for _, name := range sel.Meats {
		p, ok := s.MeatOptions[name]
		if !ok {
			verr.Addf("meats", "unknown meat %q", name)
			continue
		}
		price = price.Add(p)
	}
	if err := verr.Err(); err != nil {
		return cart.LineItem{}, err
	}

	var parts []string
	parts = append(parts, "Dressing: "+strings.Join(dressings, ", "))
	if len(sel.RemovedToppings) > 0 {
		parts = append(parts, "No "+strings.Join(sel.RemovedToppings, ", no "))
	}
	if len(added) > 0 {
		parts = append(parts, "Add "+strings.Join(added, ", "))
	}
	if len(sel.Cheeses) > 0 {
		parts = append(parts, "Cheese: "+strings.Join(sel.Cheeses, ", "))
	}
	if len(sel.Meats) > 0 {
		parts = append(parts, "Protein: "+strings.Join(sel.Meats, ", "))
	}

	return cart.LineItem{
		ID:          cart.NewLineID(),
		CatalogID:   item.ID,
		Name:        item.Name,
		UnitPrice:   round(price),
		Quantity:    1,
		Category:    item.Category,
		Tags:        item.Tags,
		Description: strings.Join(parts, "; "),
		Selections: map[string]any{
			"dressings":        dressings,
			"removed_toppings": sel.RemovedToppings,
			"added_toppings":   added,
			"cheeses":          sel.Cheeses,
			"meats":            sel.Meats,
		},
	}, nil
}

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}
