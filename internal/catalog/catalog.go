// Package catalog holds the static menu data model: restaurants, items and
// the customization schemas that drive pricing. Pure data, no behavior
// beyond structural validation.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category classifies a menu item for display and reporting.
type Category string

const (
	CategoryMain         Category = "main"
	CategoryDessert      Category = "dessert"
	CategoryBeverage     Category = "beverage"
	CategorySalad        Category = "salad"
	CategorySide         Category = "side"
	CategoryModification Category = "modification"
)

// DietaryTag marks dietary properties of an item.
type DietaryTag string

const (
	TagVegetarian DietaryTag = "vegetarian"
	TagVegan      DietaryTag = "vegan"
	TagGlutenFree DietaryTag = "gluten_free"
	TagRaw        DietaryTag = "raw"
	TagSpicy      DietaryTag = "spicy"
)

// SchemaKind tags which customization variant an item carries.
type SchemaKind string

const (
	KindSized   SchemaKind = "sized"
	KindPlatter SchemaKind = "platter"
	KindSampler SchemaKind = "sampler"
	KindFlavor  SchemaKind = "flavor"
	KindSalad   SchemaKind = "salad"
)

// Item is a single catalog entry. Price is the base price in decimal
// currency units; items carrying a customization schema may use zero here
// when all pricing lives in the schema.
type Item struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Category      Category        `json:"category"`
	Tags          []DietaryTag    `json:"tags,omitempty"`
	Customization *Customization  `json:"customization,omitempty"`
}

// Customization is a tagged union: Kind selects which spec pointer is set,
// and exactly one must be set. This replaces scattering optional fields on
// the item itself.
type Customization struct {
	Kind    SchemaKind   `json:"kind"`
	Sized   *SizedSpec   `json:"sized,omitempty"`
	Platter *PlatterSpec `json:"platter,omitempty"`
	Sampler *SamplerSpec `json:"sampler,omitempty"`
	Flavor  *FlavorSpec  `json:"flavor,omitempty"`
	Salad   *SaladSpec   `json:"salad,omitempty"`
}

// SizedSpec prices an item per named size, each size an absolute price.
type SizedSpec struct {
	Sizes []SizeOption `json:"sizes"`
}

// SizeOption is one selectable size with its own price.
type SizeOption struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// Size returns the option with the given label.
func (s *SizedSpec) Size(label string) (SizeOption, bool) {
	for _, opt := range s.Sizes {
		if opt.Label == label {
			return opt, true
		}
	}
	return SizeOption{}, false
}

// PlatterType selects the platter pricing rule.
type PlatterType string

const (
	// PlatterMixed prices the platter as the sum of chosen sub-item
	// prices, discounted by the tier's discount fraction.
	PlatterMixed PlatterType = "mixed"
	// PlatterNigiri and PlatterSashimi use the tier's fixed bulk price;
	// sub-item prices are display-only.
	PlatterNigiri  PlatterType = "nigiri"
	PlatterSashimi PlatterType = "sashimi"
)

// PlatterSpec describes a build-your-own platter. The tier is selected by
// the total number of chosen sub-items.
type PlatterSpec struct {
	Type PlatterType `json:"type"`
	// Tiers, ordered by ItemCount ascending.
	Tiers []PlatterTier `json:"tiers"`
	// PiecesPerOption is how many pieces each selected option yields
	// (e.g. 2 pieces per nigiri selection). Zero when not applicable.
	PiecesPerOption int `json:"pieces_per_option,omitempty"`
	// TotalPieces is the advertised piece count of the finished platter.
	// Zero when not applicable.
	TotalPieces int `json:"total_pieces,omitempty"`
	// Options are the sub-items a customer picks from.
	Options []PlatterOption `json:"options"`
}

// PlatterTier is one selectable platter size.
type PlatterTier struct {
	ItemCount int             `json:"item_count"`
	Price     decimal.Decimal `json:"price"`
	// Discount is a fraction in [0,1]; only meaningful for mixed platters.
	Discount decimal.Decimal `json:"discount"`
}

// PlatterOption is a choosable sub-item with its advisory unit price.
type PlatterOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Tags  []DietaryTag    `json:"tags,omitempty"`
}

// Tier returns the tier matching the given item count.
func (p *PlatterSpec) Tier(itemCount int) (PlatterTier, bool) {
	for _, t := range p.Tiers {
		if t.ItemCount == itemCount {
			return t, true
		}
	}
	return PlatterTier{}, false
}

// Option returns the platter option with the given id.
func (p *PlatterSpec) Option(id string) (PlatterOption, bool) {
	for _, opt := range p.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return PlatterOption{}, false
}

// SamplerSpec describes a sampler plate: a size fixes the base price and
// the exact number of sandwiches, with a flat upcharge per premium pick.
type SamplerSpec struct {
	Sizes map[string]SamplerSize `json:"sizes"`
	// PremiumUpcharge is the absolute amount added per premium sandwich.
	PremiumUpcharge decimal.Decimal  `json:"premium_upcharge"`
	Sandwiches      []SandwichOption `json:"sandwiches"`
}

// SamplerSize is one sampler plate size.
type SamplerSize struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	SandwichCount int             `json:"sandwich_count"`
}

// SandwichOption is one selectable sandwich; Premium picks carry the
// upcharge.
type SandwichOption struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Premium bool   `json:"premium"`
}

// Sandwich returns the sandwich option with the given id.
func (s *SamplerSpec) Sandwich(id string) (SandwichOption, bool) {
	for _, sw := range s.Sandwiches {
		if sw.ID == id {
			return sw, true
		}
	}
	return SandwichOption{}, false
}

// FlavorSpec describes an item sold per flavor at a shared unit price.
type FlavorSpec struct {
	Flavors   []string        `json:"flavors"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Has reports whether the flavor is selectable.
func (f *FlavorSpec) Has(flavor string) bool {
	for _, fl := range f.Flavors {
		if fl == flavor {
			return true
		}
	}
	return false
}

// SaladSpec describes salad customization: dressings, free toppings and
// priced cheese/meat add-ons.
type SaladSpec struct {
	DefaultDressing string   `json:"default_dressing"`
	Dressings       []string `json:"dressings"`
	// ExtraDressingPrice applies to every chosen dressing beyond the
	// first (free) one.
	ExtraDressingPrice decimal.Decimal `json:"extra_dressing_price"`
	// DefaultToppings may be removed; no price effect.
	DefaultToppings []string `json:"default_toppings"`
	// AddableToppings are free additions, capped at MaxAddedToppings.
	AddableToppings []string                   `json:"addable_toppings,omitempty"`
	CheeseOptions   map[string]decimal.Decimal `json:"cheese_options,omitempty"`
	MeatOptions     map[string]decimal.Decimal `json:"meat_options,omitempty"`
}

// MaxAddedToppings caps free topping additions per salad. Additions past
// the cap are dropped, not rejected.
const MaxAddedToppings = 10

// Restaurant groups the items one kitchen offers.
type Restaurant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item returns the restaurant's item with the given id.
func (r *Restaurant) Item(id string) (*Item, bool) {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of an item: a schema-less item
// must carry a positive price, and a customized item must have exactly the
// one spec its Kind names.
func (it *Item) Validate() error {
	if it.ID == "" || it.Name == "" {
		return fmt.Errorf("catalog: item %q: id and name are required", it.ID)
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("catalog: item %q: price must not be negative", it.ID)
	}
	if it.Customization == nil {
		if !it.Price.IsPositive() {
			return fmt.Errorf("catalog: item %q: schema-less item must have price > 0", it.ID)
		}
		return nil
	}
	return it.Customization.validate(it.ID)
}

func (c *Customization) validate(itemID string) error {
	set := 0
	for _, present := range []bool{
		c.Sized != nil, c.Platter != nil, c.Sampler != nil, c.Flavor != nil, c.Salad != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("catalog: item %q: exactly one customization variant required, found %d", itemID, set)
	}
	var match bool
	switch c.Kind {
	case KindSized:
		match = c.Sized != nil
	case KindPlatter:
		match = c.Platter != nil
	case KindSampler:
		match = c.Sampler != nil
	case KindFlavor:
		match = c.Flavor != nil
	case KindSalad:
		match = c.Salad != nil
	default:
		return fmt.Errorf("catalog: item %q: unknown customization kind %q", itemID, c.Kind)
	}
	if !match {
		return fmt.Errorf("catalog: item %q: kind %q does not match populated variant", itemID, c.Kind)
	}
	return nil
}
