package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/types"
)

var ErrFavoriteNotFound = errors.New("favorite recipe not found")

type FavoriteService struct {
	db *gorm.DB
}

var _ IFavoriteService = (*FavoriteService)(nil)

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add saves recipe, replacing any earlier copy with the same ID.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, recipe types.Recipe) (*models.FavoriteRecipe, error) {
	if strings.TrimSpace(recipe.ID) == "" {
		recipe.ID = uuid.NewString()
	}
	fav := models.FavoriteRecipe{
		ID:                 recipe.ID,
		UserID:             userID,
		Name:               strings.TrimSpace(recipe.Name),
		Cuisine:            recipe.Cuisine,
		ImageURL:           recipe.ImageURL,
		CookingTimeMinutes: recipe.CookingTimeMinutes,
		Ingredients:        models.StringArray(recipe.Ingredients),
		MissingIngredients: models.StringArray(recipe.MissingIngredients),
		FitPercentage:      recipe.FitPercentage,
		Rating:             recipe.Rating,
		Description:        recipe.Description,
		CookingSteps:       models.CookingSteps(recipe.CookingSteps),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "cuisine", "image_url", "cooking_time_minutes", "ingredients",
			"missing_ingredients", "fit_percentage", "rating", "description", "cooking_steps", "updated_at",
		}),
	}).Create(&fav).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return &fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, recipeID string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", recipeID, userID).Delete(&models.FavoriteRecipe{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// List returns the user's favorites, most recently saved first.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]models.FavoriteRecipe, error) {
	favorites := []models.FavoriteRecipe{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID uuid.UUID, recipeID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).
		Where("id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
