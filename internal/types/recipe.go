package types

import (
	"github.com/nexable/smartcookly/backend/internal/models"
)

// DiscoveryMode selects what recipe suggestions are based on.
type DiscoveryMode string

const (
	DiscoverByPreferences DiscoveryMode = "PREFERENCES"
	DiscoverByFridge      DiscoveryMode = "FRIDGE"
	DiscoverByBoth        DiscoveryMode = "BOTH"
)

// Recipe is a suggested recipe.
type Recipe struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name" binding:"required,notblank"`
	Cuisine            string               `json:"cuisine"`
	ImageURL           string               `json:"image_url"`
	CookingTimeMinutes int                  `json:"cooking_time_minutes" binding:"min=0"`
	Ingredients        []string             `json:"ingredients"`
	MissingIngredients []string             `json:"missing_ingredients"`
	FitPercentage      int                  `json:"fit_percentage" binding:"min=0,max=100"`
	Rating             float64              `json:"rating"`
	Description        string               `json:"description"`
	CookingSteps       []models.CookingStep `json:"cooking_steps,omitempty"`
}

type DiscoverRequest struct {
	Mode     DiscoveryMode `json:"mode" binding:"omitempty,oneof=PREFERENCES FRIDGE BOTH"`
	Cuisines []string      `json:"cuisines"`
}

type CookingStepsRequest struct {
	RecipeName  string   `json:"recipe_name" binding:"required,notblank"`
	Ingredients []string `json:"ingredients"`
}

type FavoriteRequest struct {
	Recipe Recipe `json:"recipe" binding:"required"`
}
