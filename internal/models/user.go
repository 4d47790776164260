package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds the food preferences collected during onboarding.
type UserProfile struct {
	ID                  uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID              uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Username            string      `gorm:"size:50" json:"username"`
	Cuisines            StringArray `gorm:"type:text" json:"cuisines"`
	DietaryStyle        string      `gorm:"size:50" json:"dietary_style"`
	AvoidedIngredients  StringArray `gorm:"type:text" json:"avoided_ingredients"`
	DislikedIngredients StringArray `gorm:"type:text" json:"disliked_ingredients"`
	Diseases            StringArray `gorm:"type:text" json:"diseases"`
	CookingLevel        string      `gorm:"size:30" json:"cooking_level"`
	Timezone            string      `gorm:"size:64" json:"timezone"`
	OnboardingCompleted bool        `gorm:"not null;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
