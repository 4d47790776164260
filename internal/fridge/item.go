package fridge

import (
	"strings"

	"cloud.google.com/go/civil"
)

// FoodItem is a single tracked inventory entry.
type FoodItem struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Category       Category    `json:"category"`
	ExpirationDate *civil.Date `json:"expiration_date,omitempty"`
	ImageURL       string      `json:"image_url,omitempty"`
	FreshnessTier  Tier        `json:"freshness_tier"`
}

// SameName reports whether two names refer to the same item.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// clone returns a copy that does not share the expiration date pointer.
func (i FoodItem) clone() FoodItem {
	if i.ExpirationDate != nil {
		d := *i.ExpirationDate
		i.ExpirationDate = &d
	}
	return i
}
