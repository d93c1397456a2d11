package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr string
	}{
		{
			name: "plain item with a price",
			item: Item{ID: "miso-soup", Name: "Miso Soup", Price: d("3.25")},
		},
		{
			name:    "plain item without a price",
			item:    Item{ID: "freebie", Name: "Freebie", Price: decimal.Zero},
			wantErr: "price > 0",
		},
		{
			name:    "negative price",
			item:    Item{ID: "oops", Name: "Oops", Price: d("-1.00")},
			wantErr: "must not be negative",
		},
		{
			name:    "missing name",
			item:    Item{ID: "x", Price: d("1.00")},
			wantErr: "id and name are required",
		},
		{
			name: "customized item may omit the base price",
			item: Item{
				ID: "tray", Name: "Tray",
				Customization: &Customization{
					Kind:  KindSized,
					Sized: &SizedSpec{Sizes: []SizeOption{{Label: "small", Price: d("10.00")}}},
				},
			},
		},
		{
			name: "kind must match the populated variant",
			item: Item{
				ID: "tray", Name: "Tray",
				Customization: &Customization{
					Kind:  KindPlatter,
					Sized: &SizedSpec{},
				},
			},
			wantErr: "does not match",
		},
		{
			name: "two variants populated",
			item: Item{
				ID: "tray", Name: "Tray",
				Customization: &Customization{
					Kind:   KindSized,
					Sized:  &SizedSpec{},
					Flavor: &FlavorSpec{},
				},
			},
			wantErr: "exactly one customization variant",
		},
		{
			name: "unknown kind",
			item: Item{
				ID: "tray", Name: "Tray",
				Customization: &Customization{
					Kind:  SchemaKind("combo"),
					Sized: &SizedSpec{},
				},
			},
			wantErr: "unknown customization kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

// The seed menu must itself satisfy the catalog invariants.
func TestSeedMenuIsValid(t *testing.T) {
	for _, rest := range Menu() {
		for _, item := range rest.Items {
			assert.NoError(t, item.Validate(), "%s/%s", rest.ID, item.ID)
		}
	}
}

func TestFindRestaurant(t *testing.T) {
	rest, ok := FindRestaurant("mizu-sushi")
	require.True(t, ok)
	assert.Equal(t, "Mizu Sushi Kitchen", rest.Name)

	_, ok = FindRestaurant("ghost-kitchen")
	assert.False(t, ok)
}

func TestRestaurantItem(t *testing.T) {
	rest, ok := FindRestaurant("wagyu-deli")
	require.True(t, ok)

	item, ok := rest.Item("garden-salad")
	require.True(t, ok)
	assert.Equal(t, KindSalad, item.Customization.Kind)

	_, ok = rest.Item("nope")
	assert.False(t, ok)
}
