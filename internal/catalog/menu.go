package catalog

import "github.com/shopspring/decimal"

// d is a compile-time-constant-ish helper for the seed menu below.
// RequireFromString panics, which is the behavior we want for bad seed data.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Menu is the built-in catalog served when no external menu source is
// configured. It covers every customization kind at least once.
func Menu() []Restaurant {
	return []Restaurant{sushiKitchen(), wagyuDeli()}
}

// FindRestaurant looks a restaurant up by id in the built-in menu.
func FindRestaurant(id string) (*Restaurant, bool) {
	menu := Menu()
	for i := range menu {
		if menu[i].ID == id {
			return &menu[i], true
		}
	}
	return nil, false
}

func sushiKitchen() Restaurant {
	nigiriOptions := []PlatterOption{
		{ID: "nigiri-maguro", Name: "Maguro Nigiri", Price: d("5.95"), Tags: []DietaryTag{TagRaw, TagGlutenFree}},
		{ID: "nigiri-sake", Name: "Sake Nigiri", Price: d("5.50"), Tags: []DietaryTag{TagRaw, TagGlutenFree}},
		{ID: "nigiri-hamachi", Name: "Hamachi Nigiri", Price: d("6.25"), Tags: []DietaryTag{TagRaw, TagGlutenFree}},
		{ID: "nigiri-ebi", Name: "Ebi Nigiri", Price: d("4.95"), Tags: []DietaryTag{TagGlutenFree}},
		{ID: "nigiri-tamago", Name: "Tamago Nigiri", Price: d("3.95"), Tags: []DietaryTag{TagVegetarian}},
		{ID: "nigiri-unagi", Name: "Unagi Nigiri", Price: d("6.95")},
	}
	mixedOptions := []PlatterOption{
		{ID: "roll-california", Name: "California Roll", Price: d("4.75")},
		{ID: "roll-spicy-tuna", Name: "Spicy Tuna Roll", Price: d("5.95"), Tags: []DietaryTag{TagRaw, TagSpicy}},
		{ID: "roll-cucumber", Name: "Cucumber Roll", Price: d("3.95"), Tags: []DietaryTag{TagVegan}},
		{ID: "roll-dragon", Name: "Dragon Roll", Price: d("9.00")},
		{ID: "roll-rainbow", Name: "Rainbow Roll", Price: d("9.95"), Tags: []DietaryTag{TagRaw}},
		{ID: "roll-eel-avocado", Name: "Eel Avocado Roll", Price: d("8.00")},
		{ID: "roll-salmon-avocado", Name: "Salmon Avocado Roll", Price: d("5.95"), Tags: []DietaryTag{TagRaw}},
		{ID: "roll-tempura-shrimp", Name: "Tempura Shrimp Roll", Price: d("5.50")},
	}
	sashimiOptions := []PlatterOption{
		{ID: "sashimi-maguro", Name: "Maguro Sashimi", Price: d("7.95"), Tags: []DietaryTag{TagRaw, TagGlutenFree}},
		{ID: "sashimi-sake", Name: "Sake Sashimi", Price: d("7.50"), Tags: []DietaryTag{TagRaw, TagGlutenFree}},
		{ID: "sashimi-hamachi", Name: "Hamachi Sashimi", Price: d("8.25"), Tags: []DietaryTag{TagRaw, TagGlutenFree}},
		{ID: "sashimi-tako", Name: "Tako Sashimi", Price: d("6.95"), Tags: []DietaryTag{TagGlutenFree}},
	}

	return Restaurant{
		ID:   "mizu-sushi",
		Name: "Mizu Sushi Kitchen",
		Items: []Item{
			{
				ID:          "sushi-party-tray",
				Name:        "Party Tray",
				Price:       decimal.Zero,
				Category:    CategoryMain,
				Description: "Chef's selection of rolls and nigiri, arranged for the table.",
				Customization: &Customization{
					Kind: KindSized,
					Sized: &SizedSpec{Sizes: []SizeOption{
						{Label: "small", Price: d("64.99")},
						{Label: "large", Price: d("109.99")},
					}},
				},
			},
			{
				ID:       "sushi-mixed-platter",
				Name:     "Build-Your-Own Sushi Platter",
				Price:    decimal.Zero,
				Category: CategoryMain,
				Customization: &Customization{
					Kind: KindPlatter,
					Platter: &PlatterSpec{
						Type: PlatterMixed,
						Tiers: []PlatterTier{
							{ItemCount: 4, Price: decimal.Zero, Discount: d("0.05")},
							{ItemCount: 8, Price: decimal.Zero, Discount: d("0.10")},
							{ItemCount: 12, Price: decimal.Zero, Discount: d("0.15")},
						},
						Options: mixedOptions,
					},
				},
			},
			{
				ID:       "nigiri-platter",
				Name:     "Nigiri Platter",
				Price:    decimal.Zero,
				Category: CategoryMain,
				Customization: &Customization{
					Kind: KindPlatter,
					Platter: &PlatterSpec{
						Type: PlatterNigiri,
						Tiers: []PlatterTier{
							{ItemCount: 6, Price: d("28.99")},
							{ItemCount: 10, Price: d("44.99")},
						},
						PiecesPerOption: 2,
						TotalPieces:     20,
						Options:         nigiriOptions,
					},
				},
			},
			{
				ID:       "sashimi-platter",
				Name:     "Sashimi Platter",
				Price:    decimal.Zero,
				Category: CategoryMain,
				Tags:     []DietaryTag{TagRaw, TagGlutenFree},
				Customization: &Customization{
					Kind: KindPlatter,
					Platter: &PlatterSpec{
						Type: PlatterSashimi,
						Tiers: []PlatterTier{
							{ItemCount: 5, Price: d("38.99")},
							{ItemCount: 8, Price: d("58.99")},
						},
						PiecesPerOption: 3,
						TotalPieces:     24,
						Options:         sashimiOptions,
					},
				},
			},
			{
				ID:       "ramune-soda",
				Name:     "Ramune",
				Price:    decimal.Zero,
				Category: CategoryBeverage,
				Tags:     []DietaryTag{TagVegan, TagGlutenFree},
				Customization: &Customization{
					Kind: KindFlavor,
					Flavor: &FlavorSpec{
						Flavors:   []string{"Original", "Strawberry", "Melon", "Lychee", "Yuzu"},
						UnitPrice: d("3.50"),
					},
				},
			},
			{ID: "miso-soup", Name: "Miso Soup", Price: d("3.25"), Category: CategorySide, Tags: []DietaryTag{TagVegetarian}},
			{ID: "mochi-trio", Name: "Mochi Trio", Price: d("6.50"), Category: CategoryDessert, Tags: []DietaryTag{TagVegetarian, TagGlutenFree}},
		},
	}
}

func wagyuDeli() Restaurant {
	return Restaurant{
		ID:   "wagyu-deli",
		Name: "Wagyu Deli & Greens",
		Items: []Item{
			{
				ID:          "sampler-plate",
				Name:        "Sandwich Sampler Plate",
				Price:       decimal.Zero,
				Category:    CategoryMain,
				Description: "A spread of quartered sandwiches for the whole crew.",
				Customization: &Customization{
					Kind: KindSampler,
					Sampler: &SamplerSpec{
						Sizes: map[string]SamplerSize{
							"small": {BasePrice: d("73.99"), SandwichCount: 3},
							"large": {BasePrice: d("129.99"), SandwichCount: 6},
						},
						PremiumUpcharge: d("7.29"),
						Sandwiches: []SandwichOption{
							{ID: "sw-roast-turkey", Name: "Roast Turkey"},
							{ID: "sw-caprese", Name: "Caprese"},
							{ID: "sw-pastrami", Name: "Pastrami"},
							{ID: "sw-wagyu-katsu", Name: "Wagyu Katsu", Premium: true},
							{ID: "sw-wagyu-dip", Name: "Wagyu French Dip", Premium: true},
						},
					},
				},
			},
			{
				ID:       "garden-salad",
				Name:     "Garden Salad",
				Price:    d("11.49"),
				Category: CategorySalad,
				Tags:     []DietaryTag{TagVegetarian, TagGlutenFree},
				Customization: &Customization{
					Kind: KindSalad,
					Salad: &SaladSpec{
						DefaultDressing:    "House Vinaigrette",
						Dressings:          []string{"House Vinaigrette", "Ranch", "Miso Ginger", "Caesar"},
						ExtraDressingPrice: d("0.95"),
						DefaultToppings:    []string{"Tomato", "Cucumber", "Red Onion", "Croutons"},
						AddableToppings: []string{
							"Avocado", "Corn", "Chickpeas", "Beets", "Carrots", "Radish",
							"Peppers", "Olives", "Sprouts", "Edamame", "Pickled Ginger",
						},
						CheeseOptions: map[string]decimal.Decimal{
							"Feta":     d("1.50"),
							"Cheddar":  d("1.25"),
							"Parmesan": d("1.75"),
						},
						MeatOptions: map[string]decimal.Decimal{
							"Grilled Chicken": d("4.50"),
							"Seared Wagyu":    d("8.95"),
							"Smoked Salmon":   d("5.95"),
						},
					},
				},
			},
			{ID: "kettle-chips", Name: "Kettle Chips", Price: d("2.75"), Category: CategorySide, Tags: []DietaryTag{TagVegan, TagGlutenFree}},
			{ID: "matcha-brownie", Name: "Matcha Brownie", Price: d("4.25"), Category: CategoryDessert, Tags: []DietaryTag{TagVegetarian}},
		},
	}
}
