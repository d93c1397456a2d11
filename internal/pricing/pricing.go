// Package pricing turns a catalog item plus user selections into priced
// cart lines. Each resolver is a pure function over one customization
// kind; incomplete or empty selections come back as a *validation.Error
// listing every broken rule.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/catalog"
)

// CurrencyPrecision is the number of decimal places monetary results are
// rounded to, half away from zero.
const CurrencyPrecision = 2

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPrecision)
}

func wrongKind(item *catalog.Item, want catalog.SchemaKind) error {
	return fmt.Errorf("pricing: item %q does not carry a %s customization", item.ID, want)
}

func spec(item *catalog.Item) *catalog.Customization {
	return item.Customization
}

// countedNames renders selections as "Name x2, Other" keeping first-seen
// order, used for platter and sampler descriptions.
func countedNames(order []string, counts map[string]int) string {
	parts := make([]string, 0, len(order))
	for _, name := range order {
		if counts[name] > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", name, counts[name]))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

// sortedKeys gives deterministic iteration over map-shaped selections so
// resolving the same input twice yields byte-identical descriptions.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
