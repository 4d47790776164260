// Package repository persists fridge snapshots.
package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/models"
)

// IngredientRepository stores each user's fridge as rows in the ingredients table.
type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Load returns the user's items in their stored order. Rows without a name
// are skipped. Unknown categories become OTHER and unknown statuses GOOD.
func (r *IngredientRepository) Load(ctx context.Context, userID uuid.UUID) ([]fridge.FoodItem, error) {
	var rows []models.Ingredient
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	items := make([]fridge.FoodItem, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			log.Printf("[IngredientRepository] skipping nameless ingredient %s for user %s", row.ID, userID)
			continue
		}
		items = append(items, toItem(row))
	}
	return items, nil
}

// ReplaceAll makes the stored rows match items exactly, in one transaction.
// Existing rows keep their created_at.
func (r *IngredientRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, items []fridge.FoodItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(items))
		rows := make([]models.Ingredient, 0, len(items))
		for i, item := range items {
			ids = append(ids, item.ID)
			rows = append(rows, toRow(userID, i, item))
		}

		stale := tx.Where("user_id = ?", userID)
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete stale ingredients: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"position", "name", "category", "expiration_date", "image_url", "fresh_status", "updated_at",
			}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to save ingredients: %w", err)
		}
		return nil
	})
}

func toRow(userID uuid.UUID, position int, item fridge.FoodItem) models.Ingredient {
	row := models.Ingredient{
		ID:          item.ID,
		UserID:      userID,
		Position:    position,
		Name:        item.Name,
		Category:    string(item.Category),
		ImageURL:    item.ImageURL,
		FreshStatus: string(item.FreshnessTier),
	}
	if item.ExpirationDate != nil {
		t := item.ExpirationDate.In(time.UTC)
		row.ExpirationDate = &t
	}
	return row
}

func toItem(row models.Ingredient) fridge.FoodItem {
	item := fridge.FoodItem{
		ID:            row.ID,
		Name:          row.Name,
		Category:      fridge.NormalizeCategory(row.Category),
		ImageURL:      row.ImageURL,
		FreshnessTier: fridge.ParseTier(row.FreshStatus),
	}
	if row.ExpirationDate != nil {
		d := civil.DateOf(row.ExpirationDate.UTC())
		item.ExpirationDate = &d
	}
	return item
}
