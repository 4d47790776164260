package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db              *gorm.DB
	defaultTimezone string
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance. defaultTimezone
// is used for users who never picked one; empty means the server's zone.
func NewProfileService(db *gorm.DB, defaultTimezone string) *ProfileService {
	return &ProfileService{
		db:              db,
		defaultTimezone: defaultTimezone,
	}
}

// GetProfile retrieves a user's profile, creating an empty one on first use.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).
		Where(models.UserProfile{UserID: userID}).
		FirstOrCreate(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies the non-nil fields of req.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		profile.Username = strings.TrimSpace(*req.Username)
	}
	if req.Cuisines != nil {
		profile.Cuisines = cleanList(*req.Cuisines)
	}
	if req.DietaryStyle != nil {
		profile.DietaryStyle = *req.DietaryStyle
	}
	if req.AvoidedIngredients != nil {
		profile.AvoidedIngredients = cleanList(*req.AvoidedIngredients)
	}
	if req.DislikedIngredients != nil {
		profile.DislikedIngredients = cleanList(*req.DislikedIngredients)
	}
	if req.Diseases != nil {
		profile.Diseases = cleanList(*req.Diseases)
	}
	if req.CookingLevel != nil {
		profile.CookingLevel = *req.CookingLevel
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// CompleteOnboarding stores every onboarding answer at once and marks the
// profile as onboarded.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, data types.OnboardingData) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Cuisines = cleanList(data.Cuisines)
	profile.DietaryStyle = data.DietaryStyle
	profile.AvoidedIngredients = cleanList(data.AvoidedIngredients)
	profile.DislikedIngredients = cleanList(data.DislikedIngredients)
	profile.Diseases = cleanList(data.Diseases)
	profile.CookingLevel = data.CookingLevel
	if data.Timezone != "" {
		profile.Timezone = data.Timezone
	}
	profile.OnboardingCompleted = true

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save onboarding: %w", err)
	}
	log.Printf("[ProfileService] onboarding completed for user %s", userID)
	return profile, nil
}

// Clock returns the user's calendar: the profile's time zone, else the
// configured default, else the server's local zone.
func (s *ProfileService) Clock(ctx context.Context, userID uuid.UUID) fridge.Clock {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Select("timezone").Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ProfileService] failed to load timezone for user %s: %v", userID, err)
	}

	for _, tz := range []string{profile.Timezone, s.defaultTimezone} {
		if tz == "" {
			continue
		}
		clock, err := fridge.NewLocalClock(tz)
		if err != nil {
			log.Printf("[ProfileService] ignoring invalid timezone %q: %v", tz, err)
			continue
		}
		return clock
	}

	clock, _ := fridge.NewLocalClock("")
	return clock
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(values []string) models.StringArray {
	out := make(models.StringArray, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
