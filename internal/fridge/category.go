package fridge

import (
	"strings"
)

// Category is the closed set of food categories an item can belong to.
type Category string

const (
	Vegetables       Category = "VEGETABLES"
	Fruits           Category = "FRUITS"
	Proteins         Category = "PROTEINS"
	Dairy            Category = "DAIRY"
	Grains           Category = "GRAINS"
	Legumes          Category = "LEGUMES"
	NutsSeeds        Category = "NUTS_SEEDS"
	OilsFats         Category = "OILS_FATS"
	HerbsSpices      Category = "HERBS_SPICES"
	SaucesCondiments Category = "SAUCES_CONDIMENTS"
	Other            Category = "OTHER"
)

// Categories lists every category in display order.
var Categories = []Category{
	Vegetables,
	Fruits,
	Proteins,
	Dairy,
	Grains,
	Legumes,
	NutsSeeds,
	OilsFats,
	HerbsSpices,
	SaucesCondiments,
	Other,
}

// legacyCategories maps labels written by older clients, or produced by the
// vision model, onto the closed set.
var legacyCategories = map[string]Category{
	"MEAT":         Proteins,
	"SEAFOOD":      Proteins,
	"FISH":         Proteins,
	"POULTRY":      Proteins,
	"EGGS":         Proteins,
	"PROTEIN":      Proteins,
	"VEGETABLE":    Vegetables,
	"VEGGIES":      Vegetables,
	"PRODUCE":      Vegetables,
	"FRUIT":        Fruits,
	"CONDIMENTS":   SaucesCondiments,
	"CONDIMENT":    SaucesCondiments,
	"SAUCES":       SaucesCondiments,
	"SAUCE":        SaucesCondiments,
	"HERBS":        HerbsSpices,
	"SPICES":       HerbsSpices,
	"NUTS":         NutsSeeds,
	"SEEDS":        NutsSeeds,
	"OILS":         OilsFats,
	"FATS":         OilsFats,
	"BEANS":        Legumes,
	"PULSES":       Legumes,
	"LEGUME":       Legumes,
	"GRAIN":        Grains,
	"BREAD":        Grains,
	"BAKERY":       Grains,
	"PASTA":        Grains,
	"RICE":         Grains,
	"CEREALS":      Grains,
	"MILK":         Dairy,
	"CHEESE":       Dairy,
	"BEVERAGES":    Other,
	"DRINKS":       Other,
	"SNACKS":       Other,
	"FROZEN":       Other,
	"FROZEN_FOODS": Other,
}

// IsValid reports whether c is a member of the closed set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory maps any label onto the closed set. Known members pass
// through, legacy labels are remapped and everything else becomes Other.
func NormalizeCategory(label string) Category {
	key := canonicalLabel(label)
	if key == "" {
		return Other
	}
	if c := Category(key); c.IsValid() {
		return c
	}
	if c, ok := legacyCategories[key]; ok {
		return c
	}
	return Other
}

// canonicalLabel upper-cases the label and joins its words with single
// underscores, so "Nuts & Seeds" and "nuts-seeds" both become NUTS_SEEDS.
func canonicalLabel(label string) string {
	words := strings.FieldsFunc(strings.ToUpper(strings.TrimSpace(label)), func(r rune) bool {
		switch r {
		case ' ', '-', '_', '&', '/', '\t':
			return true
		}
		return false
	})
	return strings.Join(words, "_")
}
