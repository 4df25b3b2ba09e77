package catalog

import (
	"fmt"
	"strings"
)

// Category groups services in the catalog.
type Category string

const (
	All       Category = "All"
	Transport Category = "Transport"
	Shopping  Category = "Shopping"
	Food      Category = "Food"
)

// Categories returns every category in canonical tab order, starting with All.
func Categories() []Category {
	return []Category{All, Transport, Shopping, Food}
}

// Label is the display string used for sorting and rendering.
func (c Category) Label() string {
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a case-insensitive name to a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return All, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	valid := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		valid = append(valid, strings.ToLower(string(c)))
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(valid, ", "))
}

// Item is a single catalog entry. Only Favorite changes after load.
type Item struct {
	ID       int
	Name     string
	Icon     string
	Category Category
	Favorite bool
	Promo    bool
}

// DefaultItems is the built-in FlexiGo service list. It mirrors the
// services section of the embedded default config.
func DefaultItems() []Item {
	return []Item{
		{ID: 1, Name: "Ride", Icon: "car", Category: Transport, Promo: true},
		{ID: 2, Name: "Reserve", Icon: "timer", Category: Transport},
		{ID: 3, Name: "Rental Cars", Icon: "cars", Category: Transport},
		{ID: 4, Name: "Grocery", Icon: "cart", Category: Shopping},
		{ID: 5, Name: "Food", Icon: "bag", Category: Food},
		{ID: 6, Name: "Packages", Icon: "gift", Category: Shopping},
		{ID: 7, Name: "Boda Boda", Icon: "bicycle", Category: Transport},
		{ID: 8, Name: "Pharmacy", Icon: "cross", Category: Shopping},
		{ID: 9, Name: "Flowers", Icon: "leaf", Category: Shopping},
	}
}
