package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is the persisted form of a fridge item. Rows are scoped by user,
// so the same item ID may exist for different users.
type Ingredient struct {
	ID             string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:varchar(36);primaryKey;index" json:"user_id"`
	Position       int        `gorm:"not null;default:0" json:"-"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Category       string     `gorm:"size:30;not null" json:"category"`
	ExpirationDate *time.Time `gorm:"type:date" json:"expiration_date"`
	ImageURL       string     `gorm:"size:1024" json:"image_url"`
	FreshStatus    string     `gorm:"size:16;not null" json:"fresh_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// ShoppingItem is an entry on a user's shopping list.
type ShoppingItem struct {
	ID      uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Urgency string    `gorm:"size:10;not null;default:'NORMAL'" json:"urgency"`
	AddedAt time.Time `gorm:"not null;index" json:"added_at"`
}

func (ShoppingItem) TableName() string {
	return "shopping_items"
}

// FavoriteRecipe is a recipe a user saved, including its cooking steps.
type FavoriteRecipe struct {
	ID                 string       `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID             uuid.UUID    `gorm:"type:varchar(36);primaryKey;index" json:"user_id"`
	Name               string       `gorm:"size:255;not null" json:"name"`
	Cuisine            string       `gorm:"size:100" json:"cuisine"`
	ImageURL           string       `gorm:"size:1024" json:"image_url"`
	CookingTimeMinutes int          `json:"cooking_time_minutes"`
	Ingredients        StringArray  `gorm:"type:text" json:"ingredients"`
	MissingIngredients StringArray  `gorm:"type:text" json:"missing_ingredients"`
	FitPercentage      int          `json:"fit_percentage"`
	Rating             float64      `json:"rating"`
	Description        string       `gorm:"type:text" json:"description"`
	CookingSteps       CookingSteps `gorm:"type:text" json:"cooking_steps"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Ingredient{},
		&ShoppingItem{},
		&FavoriteRecipe{},
	}
}
