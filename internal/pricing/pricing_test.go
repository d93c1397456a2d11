package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/validation"
)

func catalogItem(t *testing.T, restaurantID, itemID string) *catalog.Item {
	t.Helper()
	rest, ok := catalog.FindRestaurant(restaurantID)
	require.True(t, ok, "restaurant %s", restaurantID)
	item, ok := rest.Item(itemID)
	require.True(t, ok, "item %s", itemID)
	return item
}

func violations(t *testing.T, err error) []validation.Violation {
	t.Helper()
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	return verr.Violations
}

func TestResolveSized(t *testing.T) {
	item := catalogItem(t, "mizu-sushi", "sushi-party-tray")

	t.Run("each selected size becomes its own line", func(t *testing.T) {
		lines, err := ResolveSized(item, map[string]int{"small": 1, "large": 2})
		require.NoError(t, err)
		require.Len(t, lines, 2)

		assert.Equal(t, "Party Tray (small)", lines[0].Name)
		assert.Equal(t, "64.99", lines[0].UnitPrice.StringFixed(2))
		assert.Equal(t, 1, lines[0].Quantity)

		assert.Equal(t, "Party Tray (large)", lines[1].Name)
		assert.Equal(t, "109.99", lines[1].UnitPrice.StringFixed(2))
		assert.Equal(t, 2, lines[1].Quantity)
	})

	t.Run("zero quantities are rejected", func(t *testing.T) {
		_, err := ResolveSized(item, map[string]int{"small": 0})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "select at least one size")
	})

	t.Run("unknown size and negative quantity reported together", func(t *testing.T) {
		_, err := ResolveSized(item, map[string]int{"jumbo": 1, "small": -2})
		vs := violations(t, err)
		assert.Len(t, vs, 3) // unknown, negative, and nothing selected
	})

	t.Run("wrong customization kind", func(t *testing.T) {
		other := catalogItem(t, "mizu-sushi", "ramune-soda")
		_, err := ResolveSized(other, map[string]int{"small": 1})
		require.Error(t, err)
	})
}

func TestResolvePlatterMixed(t *testing.T) {
	item := catalogItem(t, "mizu-sushi", "sushi-mixed-platter")

	t.Run("eight item platter discounts the summed roll prices", func(t *testing.T) {
		selections := []string{
			"roll-california", "roll-cucumber", "roll-spicy-tuna", "roll-tempura-shrimp",
			"roll-dragon", "roll-eel-avocado", "roll-salmon-avocado", "roll-rainbow",
		}
		// 53.05 summed, minus the 10% tier discount, rounded half away
		// from zero: 47.745 -> 47.75.
		line, err := ResolvePlatter(item, 8, selections)
		require.NoError(t, err)
		assert.Equal(t, "47.75", line.UnitPrice.StringFixed(2))
		assert.Equal(t, 1, line.Quantity)
		assert.Equal(t, "Build-Your-Own Sushi Platter (8 items)", line.Name)
	})

	t.Run("duplicates count toward both tier and price", func(t *testing.T) {
		line, err := ResolvePlatter(item, 4, []string{
			"roll-california", "roll-california", "roll-cucumber", "roll-cucumber",
		})
		require.NoError(t, err)
		// (4.75*2 + 3.95*2) * 0.95 = 16.53
		assert.Equal(t, "16.53", line.UnitPrice.StringFixed(2))
		assert.Equal(t, "California Roll x2, Cucumber Roll x2", line.Description)
	})

	t.Run("too few selections", func(t *testing.T) {
		_, err := ResolvePlatter(item, 4, []string{"roll-california"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "select 3 more item(s)")
	})

	t.Run("too many selections", func(t *testing.T) {
		_, err := ResolvePlatter(item, 4, []string{
			"roll-california", "roll-california", "roll-california",
			"roll-california", "roll-california",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remove 1")
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := ResolvePlatter(item, 5, []string{"roll-california"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no 5 item platter")
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := ResolvePlatter(item, 4, []string{
			"roll-california", "roll-california", "roll-california", "roll-pineapple",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown option "roll-pineapple"`)
	})
}

func TestResolvePlatterFixedPrice(t *testing.T) {
	item := catalogItem(t, "mizu-sushi", "nigiri-platter")

	cheap := []string{
		"nigiri-tamago", "nigiri-tamago", "nigiri-ebi",
		"nigiri-ebi", "nigiri-sake", "nigiri-sake",
	}
	dear := []string{
		"nigiri-unagi", "nigiri-unagi", "nigiri-hamachi",
		"nigiri-hamachi", "nigiri-maguro", "nigiri-maguro",
	}

	lineCheap, err := ResolvePlatter(item, 6, cheap)
	require.NoError(t, err)
	lineDear, err := ResolvePlatter(item, 6, dear)
	require.NoError(t, err)

	// Bulk pricing: whatever was picked, the six item tier costs 28.99.
	assert.Equal(t, "28.99", lineCheap.UnitPrice.StringFixed(2))
	assert.True(t, lineCheap.UnitPrice.Equal(lineDear.UnitPrice))

	assert.Contains(t, lineCheap.Description, "(12 pieces)")
}

func TestResolveSampler(t *testing.T) {
	item := catalogItem(t, "wagyu-deli", "sampler-plate")

	t.Run("premium upcharge applies per premium sandwich", func(t *testing.T) {
		line, err := ResolveSampler(item, "small", SamplerSelection{
			"sw-roast-turkey": 1,
			"sw-caprese":      1,
			"sw-wagyu-katsu":  1,
		})
		require.NoError(t, err)
		// 73.99 base plus one 7.29 upcharge.
		assert.Equal(t, "81.28", line.UnitPrice.StringFixed(2))
		assert.Equal(t, "Sandwich Sampler Plate (small)", line.Name)
	})

	t.Run("no upcharge without premium picks", func(t *testing.T) {
		line, err := ResolveSampler(item, "small", SamplerSelection{
			"sw-roast-turkey": 2,
			"sw-pastrami":     1,
		})
		require.NoError(t, err)
		assert.Equal(t, "73.99", line.UnitPrice.StringFixed(2))
	})

	t.Run("count must match the size exactly", func(t *testing.T) {
		_, err := ResolveSampler(item, "large", SamplerSelection{"sw-caprese": 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "select exactly 6 sandwiches (currently 2)")
	})

	t.Run("unknown size", func(t *testing.T) {
		_, err := ResolveSampler(item, "medium", SamplerSelection{"sw-caprese": 3})
		require.Error(t, err)
	})

	t.Run("unknown sandwich", func(t *testing.T) {
		_, err := ResolveSampler(item, "small", SamplerSelection{
			"sw-caprese": 2, "sw-blt": 1,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown sandwich "sw-blt"`)
	})
}

func TestSamplerSelectionAdjust(t *testing.T) {
	sel := SamplerSelection{}
	sel.Adjust("sw-caprese", 2)
	sel.Adjust("sw-caprese", -1)
	assert.Equal(t, 1, sel["sw-caprese"])

	sel.Adjust("sw-caprese", -5)
	_, present := sel["sw-caprese"]
	assert.False(t, present, "count floored at zero removes the entry")
	assert.Equal(t, 0, sel.Total())
}

func TestResolveFlavor(t *testing.T) {
	item := catalogItem(t, "mizu-sushi", "ramune-soda")

	t.Run("one line per flavor", func(t *testing.T) {
		lines, err := ResolveFlavor(item, map[string]int{"Melon": 2, "Yuzu": 1})
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Ramune - Melon", lines[0].Name)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, "3.50", lines[0].UnitPrice.StringFixed(2))
		assert.Equal(t, "Ramune - Yuzu", lines[1].Name)
	})

	t.Run("unknown flavor", func(t *testing.T) {
		_, err := ResolveFlavor(item, map[string]int{"Cola": 1})
		require.Error(t, err)
	})

	t.Run("nothing selected", func(t *testing.T) {
		_, err := ResolveFlavor(item, map[string]int{})
		require.Error(t, err)
	})
}

func TestResolveSalad(t *testing.T) {
	item := catalogItem(t, "wagyu-deli", "garden-salad")

	t.Run("as built costs the base price", func(t *testing.T) {
		line, err := ResolveSalad(item, SaladSelection{})
		require.NoError(t, err)
		assert.Equal(t, "11.49", line.UnitPrice.StringFixed(2))
		assert.Equal(t, "Dressing: House Vinaigrette", line.Description)
	})

	t.Run("every dressing past the first is charged", func(t *testing.T) {
		line, err := ResolveSalad(item, SaladSelection{
			Dressings: []string{"Ranch", "Caesar", "Miso Ginger"},
		})
		require.NoError(t, err)
		// 11.49 + 2 * 0.95
		assert.Equal(t, "13.39", line.UnitPrice.StringFixed(2))
	})

	t.Run("cheese and protein add-ons are priced", func(t *testing.T) {
		line, err := ResolveSalad(item, SaladSelection{
			Cheeses: []string{"Feta"},
			Meats:   []string{"Seared Wagyu"},
		})
		require.NoError(t, err)
		// 11.49 + 1.50 + 8.95
		assert.Equal(t, "21.94", line.UnitPrice.StringFixed(2))
		assert.Contains(t, line.Description, "Cheese: Feta")
		assert.Contains(t, line.Description, "Protein: Seared Wagyu")
	})

	t.Run("topping changes never change the price", func(t *testing.T) {
		line, err := ResolveSalad(item, SaladSelection{
			RemovedToppings: []string{"Croutons", "Red Onion"},
			AddedToppings:   []string{"Avocado", "Corn"},
		})
		require.NoError(t, err)
		assert.Equal(t, "11.49", line.UnitPrice.StringFixed(2))
		assert.Contains(t, line.Description, "No Croutons, no Red Onion")
		assert.Contains(t, line.Description, "Add Avocado, Corn")
	})

	t.Run("additions past the cap are dropped silently", func(t *testing.T) {
		all := []string{
			"Avocado", "Corn", "Chickpeas", "Beets", "Carrots", "Radish",
			"Peppers", "Olives", "Sprouts", "Edamame", "Pickled Ginger",
		}
		require.Greater(t, len(all), catalog.MaxAddedToppings)

		line, err := ResolveSalad(item, SaladSelection{AddedToppings: all})
		require.NoError(t, err)
		assert.Equal(t, "11.49", line.UnitPrice.StringFixed(2))
		assert.NotContains(t, line.Description, "Pickled Ginger")
	})

	t.Run("unknown choices all reported", func(t *testing.T) {
		_, err := ResolveSalad(item, SaladSelection{
			Dressings:       []string{"Thousand Island"},
			RemovedToppings: []string{"Bacon"},
			Cheeses:         []string{"Gouda"},
		})
		vs := violations(t, err)
		assert.Len(t, vs, 3)
	})
}
