package types

// OnboardingData is the set of answers gathered across the onboarding
// screens. The caller owns it and hands it over once, when onboarding ends.
type OnboardingData struct {
	Cuisines            []string `json:"cuisines" binding:"dive,notblank"`
	DietaryStyle        string   `json:"dietary_style" binding:"max=50"`
	AvoidedIngredients  []string `json:"avoided_ingredients" binding:"dive,notblank"`
	DislikedIngredients []string `json:"disliked_ingredients" binding:"dive,notblank"`
	Diseases            []string `json:"diseases" binding:"dive,notblank"`
	CookingLevel        string   `json:"cooking_level" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Timezone            string   `json:"timezone" binding:"omitempty,timezone"`
}

// UpdateProfileRequest represents a partial update of a user's profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username            *string   `json:"username,omitempty" binding:"omitempty,max=50"`
	Cuisines            *[]string `json:"cuisines,omitempty"`
	DietaryStyle        *string   `json:"dietary_style,omitempty" binding:"omitempty,max=50"`
	AvoidedIngredients  *[]string `json:"avoided_ingredients,omitempty"`
	DislikedIngredients *[]string `json:"disliked_ingredients,omitempty"`
	Diseases            *[]string `json:"diseases,omitempty"`
	CookingLevel        *string   `json:"cooking_level,omitempty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Timezone            *string   `json:"timezone,omitempty" binding:"omitempty,timezone"`
}
