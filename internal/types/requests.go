package types

import (
	"cloud.google.com/go/civil"

	"github.com/nexable/smartcookly/backend/internal/fridge"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// FoodItemRequest is a manually entered or edited fridge item. Category is
// free text and is normalized by the store.
type FoodItemRequest struct {
	ID             string      `json:"id" binding:"max=64"`
	Name           string      `json:"name" binding:"required,notblank,max=255"`
	Category       string      `json:"category" binding:"max=50"`
	ExpirationDate *civil.Date `json:"expiration_date"`
	ImageURL       string      `json:"image_url" binding:"omitempty,url,max=1024"`
}

// ToItem converts the request into a store item.
func (r FoodItemRequest) ToItem() fridge.FoodItem {
	return fridge.FoodItem{
		ID:             r.ID,
		Name:           r.Name,
		Category:       fridge.Category(r.Category),
		ExpirationDate: r.ExpirationDate,
		ImageURL:       r.ImageURL,
	}
}

type AddItemsRequest struct {
	Items []FoodItemRequest `json:"items" binding:"required,min=1,dive"`
}

type SetItemsRequest struct {
	Items []FoodItemRequest `json:"items" binding:"dive"`
}

// ToItems converts every request item.
func ToItems(reqs []FoodItemRequest) []fridge.FoodItem {
	items := make([]fridge.FoodItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, r.ToItem())
	}
	return items
}

type ItemCountsResponse struct {
	Total      int                     `json:"total"`
	ByCategory map[fridge.Category]int `json:"by_category"`
}

type ShoppingItemRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=255"`
	Urgency string `json:"urgency"`
}

type MissingIngredientsRequest struct {
	Names []string `json:"names" binding:"required,min=1,dive,notblank"`
}
