package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/testhelpers"
	"github.com/nexable/smartcookly/backend/internal/types"
)

func jsonEncode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

type fakeImages struct {
	mu      sync.Mutex
	urls    map[string]string
	queries []string
}

func (f *fakeImages) SearchImage(ctx context.Context, query string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	url, ok := f.urls[query]
	if !ok {
		return "", errors.New("not found")
	}
	return url, nil
}

const recipeReply = "```json\n" + `[
	{"name":"Spinach Omelette","cuisine":"French","image_url":"http://model/omelette.jpg","cooking_time_minutes":"15","ingredients":["Eggs","baby spinach","Salt"],"fit_percentage":140,"rating":"4.6","description":"Quick"},
	{"cuisine":"Nameless"},
	{"name":"Rice Bowl","cooking_time_minutes":-5,"ingredients":["rice","soy sauce"],"fit_percentage":-3,"rating":4}
]` + "\n```"

func TestParseRecipes(t *testing.T) {
	items := []fridge.FoodItem{{Name: "Spinach"}, {Name: "Eggs"}, {Name: "  "}}
	recipes := parseRecipes(recipeReply, items)
	require.Len(t, recipes, 2)

	omelette := recipes[0]
	assert.Equal(t, "Spinach Omelette", omelette.Name)
	assert.Equal(t, "French", omelette.Cuisine)
	assert.Equal(t, 15, omelette.CookingTimeMinutes)
	assert.Equal(t, 100, omelette.FitPercentage)
	assert.InDelta(t, 4.6, omelette.Rating, 0.001)
	assert.Equal(t, []string{"Salt"}, omelette.MissingIngredients)
	assert.NotEmpty(t, omelette.ID)

	bowl := recipes[1]
	assert.Equal(t, "Unknown", bowl.Cuisine)
	assert.Equal(t, 0, bowl.CookingTimeMinutes)
	assert.Equal(t, 0, bowl.FitPercentage)
	assert.Equal(t, []string{"rice", "soy sauce"}, bowl.MissingIngredients)
	assert.NotEqual(t, omelette.ID, bowl.ID)
}

func TestParseRecipesUnusableReply(t *testing.T) {
	assert.Empty(t, parseRecipes("no recipes today", nil))
	assert.Empty(t, parseRecipes("[{broken", nil))
}

func TestMissingIngredientsMatchesEitherDirection(t *testing.T) {
	fridgeNames := []string{"cheddar cheese", "tomato"}
	missing := missingIngredients([]string{"Cheese", "Cherry Tomatoes", "Basil"}, fridgeNames)
	assert.Equal(t, []string{"Basil"}, missing)
}

func TestParseCookingSteps(t *testing.T) {
	steps := parseCookingSteps(`[
		{"step_number":1,"description":"Whisk the eggs","ingredients_used":["Eggs"],"time_minutes":2},
		{"description":"  "},
		{"description":"Cook","time_minutes":"5.5"}
	]`)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].StepNumber)
	assert.Equal(t, []string{"Eggs"}, steps[0].IngredientsUsed)
	assert.Equal(t, 2, steps[1].StepNumber)
	assert.Equal(t, 5, steps[1].TimeMinutes)
	assert.Empty(t, steps[1].IngredientsUsed)
}

func TestDiscover(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := newTestUser(t, db)
	ctx := context.Background()

	profiles := NewProfileService(db, "")
	_, err := profiles.CompleteOnboarding(ctx, userID, types.OnboardingData{
		Cuisines:           []string{"French"},
		DietaryStyle:       "VEGETARIAN",
		AvoidedIngredients: []string{"Peanuts"},
		CookingLevel:       "BEGINNER",
	})
	require.NoError(t, err)

	inventory := NewInventoryService(newIngredientRepo(db), fixedClocks())
	_, err = inventory.Add(ctx, userID, []fridge.FoodItem{
		{Name: "Spinach", ExpirationDate: date(1)},
		{Name: "Eggs", ExpirationDate: date(10)},
		{Name: "Old Ham", ExpirationDate: date(-2)},
	})
	require.NoError(t, err)

	model := &stubLLM{reply: recipeReply}
	images := &fakeImages{urls: map[string]string{"Spinach Omelette": "https://pexels/omelette.jpg"}}
	svc := NewRecipeService(model, profiles, inventory, images)

	recipes, err := svc.Discover(ctx, userID, types.DiscoverRequest{})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "https://pexels/omelette.jpg", recipes[0].ImageURL)
	assert.Empty(t, recipes[1].ImageURL)
	assert.Len(t, images.queries, 2)

	prompt := model.lastPrompt()
	assert.Equal(t, discoveryMaxTokens, prompt.MaxTokens)
	assert.Contains(t, prompt.User, "Suggest recipes that use fridge ingredients AND match preferences.")
	assert.Contains(t, prompt.User, "Fridge: Spinach, Eggs")
	assert.Contains(t, prompt.User, "Use soon: Spinach")
	assert.NotContains(t, prompt.User, "Old Ham")
	assert.Contains(t, prompt.User, "- Dietary: VEGETARIAN")
	assert.Contains(t, prompt.User, "- Avoid: Peanuts")
	assert.Contains(t, prompt.User, "Cuisines: French")
}

func TestDiscoverPreferencesModeOmitsFridge(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := newTestUser(t, db)
	ctx := context.Background()

	inventory := NewInventoryService(newIngredientRepo(db), fixedClocks())
	_, err := inventory.Add(ctx, userID, []fridge.FoodItem{{Name: "Spinach"}})
	require.NoError(t, err)

	model := &stubLLM{reply: "[]"}
	svc := NewRecipeService(model, NewProfileService(db, ""), inventory, nil)

	recipes, err := svc.Discover(ctx, userID, types.DiscoverRequest{Mode: types.DiscoverByPreferences, Cuisines: []string{"Thai"}})
	require.NoError(t, err)
	assert.Empty(t, recipes)

	prompt := model.lastPrompt().User
	assert.Contains(t, prompt, "Fridge: None specified")
	assert.Contains(t, prompt, "Cuisines: Thai")
	assert.Contains(t, prompt, "- Dietary: Any")
	assert.False(t, strings.Contains(prompt, "Use soon"))
}

func TestDiscoverModelFailure(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := newTestUser(t, db)
	boom := errors.New("boom")
	svc := NewRecipeService(&stubLLM{err: boom}, NewProfileService(db, ""), NewInventoryService(newIngredientRepo(db), fixedClocks()), nil)

	_, err := svc.Discover(context.Background(), userID, types.DiscoverRequest{})
	assert.ErrorIs(t, err, boom)
}

func TestCookingSteps(t *testing.T) {
	model := &stubLLM{reply: `[{"step_number":1,"description":"Boil water","time_minutes":10}]`}
	svc := NewRecipeService(model, nil, nil, nil)

	steps, err := svc.CookingSteps(context.Background(), "Pasta", []string{"Pasta", "Salt"})
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "Boil water", steps[0].Description)
	assert.Contains(t, model.lastPrompt().User, `"Pasta"`)
	assert.Contains(t, model.lastPrompt().User, "Pasta, Salt")
}

func TestAttachImagesKeepsModelURLsWhenLookupsFail(t *testing.T) {
	images := &fakeImages{urls: map[string]string{"Soup": "https://pexels/soup.jpg"}}
	svc := NewRecipeService(&stubLLM{}, nil, nil, images)

	recipes := []types.Recipe{
		{Name: "Stew", ImageURL: "http://model/stew.jpg"},
		{Name: "Soup", ImageURL: "http://model/soup.jpg"},
		{Name: "Salad"},
		{Name: "Curry", ImageURL: "http://model/curry.jpg"},
	}
	svc.attachImages(context.Background(), recipes)

	assert.Len(t, images.queries, 4, "a failed lookup must not cancel the others")
	assert.Equal(t, "http://model/stew.jpg", recipes[0].ImageURL)
	assert.Equal(t, "https://pexels/soup.jpg", recipes[1].ImageURL)
	assert.Empty(t, recipes[2].ImageURL)
	assert.Equal(t, "http://model/curry.jpg", recipes[3].ImageURL)
}
