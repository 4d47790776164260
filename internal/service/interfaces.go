package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(userID uuid.UUID, username string) (string, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, data types.OnboardingData) (*models.UserProfile, error)
	ClockSource
}

// ClockSource resolves the calendar a user's freshness tiers are computed in.
type ClockSource interface {
	Clock(ctx context.Context, userID uuid.UUID) fridge.Clock
}

// IInventoryService defines the interface for fridge inventory operations
type IInventoryService interface {
	List(ctx context.Context, userID uuid.UUID, category *fridge.Category) ([]fridge.FoodItem, error)
	Grouped(ctx context.Context, userID uuid.UUID) (map[fridge.Category][]fridge.FoodItem, error)
	Counts(ctx context.Context, userID uuid.UUID) (int, map[fridge.Category]int, error)
	Add(ctx context.Context, userID uuid.UUID, items []fridge.FoodItem) ([]fridge.FoodItem, error)
	Set(ctx context.Context, userID uuid.UUID, items []fridge.FoodItem) ([]fridge.FoodItem, error)
	Update(ctx context.Context, userID uuid.UUID, item fridge.FoodItem) ([]fridge.FoodItem, error)
	Delete(ctx context.Context, userID uuid.UUID, id string) error
	Refresh(ctx context.Context, userID uuid.UUID) error
}

// IScanService defines the interface for fridge photo scanning
type IScanService interface {
	Scan(ctx context.Context, userID uuid.UUID, img ScanImage, autoAdd bool) (*ScanResult, error)
}

// IRecipeService defines the interface for recipe suggestions
type IRecipeService interface {
	Discover(ctx context.Context, userID uuid.UUID, req types.DiscoverRequest) ([]types.Recipe, error)
	CookingSteps(ctx context.Context, recipeName string, ingredients []string) ([]models.CookingStep, error)
}

// IShoppingService defines the interface for shopping list operations
type IShoppingService interface {
	Add(ctx context.Context, userID uuid.UUID, name, urgency string) (*models.ShoppingItem, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.ShoppingItem, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	AddMissing(ctx context.Context, userID uuid.UUID, names []string) ([]models.ShoppingItem, error)
	AddExpired(ctx context.Context, userID uuid.UUID) ([]models.ShoppingItem, error)
}

// IFavoriteService defines the interface for saved recipes
type IFavoriteService interface {
	Add(ctx context.Context, userID uuid.UUID, recipe types.Recipe) (*models.FavoriteRecipe, error)
	Remove(ctx context.Context, userID uuid.UUID, recipeID string) error
	List(ctx context.Context, userID uuid.UUID) ([]models.FavoriteRecipe, error)
	IsFavorite(ctx context.Context, userID uuid.UUID, recipeID string) (bool, error)
}
