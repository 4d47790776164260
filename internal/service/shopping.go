package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/models"
)

var ErrShoppingItemNotFound = errors.New("shopping item not found")

const (
	UrgencyLow    = "LOW"
	UrgencyNormal = "NORMAL"
	UrgencyHigh   = "HIGH"
)

// NormalizeUrgency maps any label onto LOW, NORMAL or HIGH, defaulting to NORMAL.
func NormalizeUrgency(urgency string) string {
	switch u := strings.ToUpper(strings.TrimSpace(urgency)); u {
	case UrgencyLow, UrgencyHigh:
		return u
	}
	return UrgencyNormal
}

type ShoppingService struct {
	db        *gorm.DB
	inventory IInventoryService
}

var _ IShoppingService = (*ShoppingService)(nil)

func NewShoppingService(db *gorm.DB, inventory IInventoryService) *ShoppingService {
	return &ShoppingService{db: db, inventory: inventory}
}

func (s *ShoppingService) Add(ctx context.Context, userID uuid.UUID, name, urgency string) (*models.ShoppingItem, error) {
	item := newShoppingItem(userID, name, urgency)
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to add shopping item: %w", err)
	}
	return &item, nil
}

// List returns the user's list, newest first.
func (s *ShoppingService) List(ctx context.Context, userID uuid.UUID) ([]models.ShoppingItem, error) {
	items := []models.ShoppingItem{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	return items, nil
}

func (s *ShoppingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ShoppingItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete shopping item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrShoppingItemNotFound
	}
	return nil
}

func (s *ShoppingService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ShoppingItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

// AddMissing adds recipe ingredients the user lacks. Names already on the
// list, ignoring case, are skipped. Returns only the new entries.
func (s *ShoppingService) AddMissing(ctx context.Context, userID uuid.UUID, names []string) ([]models.ShoppingItem, error) {
	return s.addUnique(ctx, userID, names, UrgencyNormal)
}

// AddExpired puts every expired fridge item on the list with HIGH urgency.
func (s *ShoppingService) AddExpired(ctx context.Context, userID uuid.UUID) ([]models.ShoppingItem, error) {
	items, err := s.inventory.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, item := range items {
		if item.FreshnessTier == fridge.Expired {
			names = append(names, item.Name)
		}
	}
	return s.addUnique(ctx, userID, names, UrgencyHigh)
}

func (s *ShoppingService) addUnique(ctx context.Context, userID uuid.UUID, names []string, urgency string) ([]models.ShoppingItem, error) {
	added := []models.ShoppingItem{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.ShoppingItem{}).Where("user_id = ?", userID).Pluck("name", &existing).Error; err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing)+len(names))
		for _, name := range existing {
			seen[strings.ToLower(strings.TrimSpace(name))] = true
		}

		for _, name := range names {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			added = append(added, newShoppingItem(userID, name, urgency))
		}
		if len(added) == 0 {
			return nil
		}
		return tx.Create(&added).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add shopping items: %w", err)
	}
	return added, nil
}

func newShoppingItem(userID uuid.UUID, name, urgency string) models.ShoppingItem {
	return models.ShoppingItem{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    strings.TrimSpace(name),
		Urgency: NormalizeUrgency(urgency),
		AddedAt: time.Now().UTC(),
	}
}
