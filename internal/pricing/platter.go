package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// ResolvePlatter prices a build-your-own platter. The tier is selected by
// the requested item count; the selection list must match that count
// exactly. Duplicates are allowed and count both toward the tier and, for
// mixed platters, toward their own unit price.
//
// Mixed platters price as the sum of chosen sub-item prices discounted by
// the tier fraction. Nigiri and sashimi platters price at the tier's fixed
// bulk price regardless of which valid selection was made.
func ResolvePlatter(item *catalog.Item, tierCount int, selections []string) (cart.LineItem, error) {
	c := spec(item)
	if c == nil || c.Platter == nil {
		return cart.LineItem{}, wrongKind(item, catalog.KindPlatter)
	}
	p := c.Platter

	var verr validation.Error
	tier, ok := p.Tier(tierCount)
	if !ok {
		verr.Addf("tier", "no %d item platter is offered", tierCount)
		return cart.LineItem{}, verr.Err()
	}

	if missing := tier.ItemCount - len(selections); missing > 0 {
		verr.Addf("selections", "select %d more item(s)", missing)
	} else if missing < 0 {
		verr.Addf("selections", "too many items: remove %d", -missing)
	}

	counts := make(map[string]int, len(selections))
	var nameOrder []string
	sum := decimal.Zero
	for _, id := range selections {
		opt, ok := p.Option(id)
		if !ok {
			verr.Addf("selections", "unknown option %q", id)
			continue
		}
		if counts[opt.Name] == 0 {
			nameOrder = append(nameOrder, opt.Name)
		}
		counts[opt.Name]++
		sum = sum.Add(opt.Price)
	}
	if err := verr.Err(); err != nil {
		return cart.LineItem{}, err
	}

	var price decimal.Decimal
	switch p.Type {
	case catalog.PlatterMixed:
		price = round(sum.Mul(decimal.NewFromInt(1).Sub(tier.Discount)))
	case catalog.PlatterNigiri, catalog.PlatterSashimi:
		// Bulk pricing: the listed sub-item prices are advisory only.
		price = round(tier.Price)
	default:
		return cart.LineItem{}, fmt.Errorf("pricing: item %q: unknown platter type %q", item.ID, p.Type)
	}

	desc := countedNames(nameOrder, counts)
	if p.PiecesPerOption > 0 {
		desc = fmt.Sprintf("%s (%d pieces)", desc, p.PiecesPerOption*tier.ItemCount)
	}

	return cart.LineItem{
		ID:          cart.NewLineID(),
		CatalogID:   item.ID,
		Name:        fmt.Sprintf("%s (%d items)", item.Name, tier.ItemCount),
		UnitPrice:   price,
		Quantity:    1,
		Category:    item.Category,
		Tags:        item.Tags,
		Description: desc,
		Selections: map[string]any{
			"tier":       tier.ItemCount,
			"selections": append([]string(nil), selections...),
		},
	}, nil
}
