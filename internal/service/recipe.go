package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/llm"
	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/types"
	"github.com/nexable/smartcookly/backend/internal/vision"
)

const (
	discoveryMaxTokens = 4000
	stepsMaxTokens     = 2000
	maxImageFetches    = 5
)

// ImageSearcher finds a photo for a dish name.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// RecipeService suggests recipes from the user's preferences and fridge.
type RecipeService struct {
	llm       llm.Client
	profiles  IProfileService
	inventory IInventoryService
	images    ImageSearcher
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. images may be nil.
func NewRecipeService(client llm.Client, profiles IProfileService, inventory IInventoryService, images ImageSearcher) *RecipeService {
	return &RecipeService{
		llm:       client,
		profiles:  profiles,
		inventory: inventory,
		images:    images,
	}
}

// Discover asks the model for up to five recipes. An unusable answer yields
// an empty list rather than an error.
func (s *RecipeService) Discover(ctx context.Context, userID uuid.UUID, req types.DiscoverRequest) ([]types.Recipe, error) {
	if req.Mode == "" {
		req.Mode = types.DiscoverByBoth
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.inventory.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	cuisines := cleanList(req.Cuisines)
	if len(cuisines) == 0 {
		cuisines = profile.Cuisines
	}

	prompt := buildDiscoveryPrompt(req.Mode, cuisines, items, profile)
	log.Printf("[RecipeService] discovery for user %s: mode=%s fridge=%d prompt=%d chars", userID, req.Mode, len(items), len(prompt))

	content, err := s.llm.GenerateContent(ctx, llm.Prompt{User: prompt, MaxTokens: discoveryMaxTokens})
	if err != nil {
		return nil, fmt.Errorf("recipe discovery failed: %w", err)
	}

	recipes := parseRecipes(content, items)
	log.Printf("[RecipeService] parsed %d recipes", len(recipes))

	s.attachImages(ctx, recipes)
	return recipes, nil
}

// attachImages replaces each recipe's image with a Pexels photo when one is
// found. Lookups run in parallel; a failed lookup keeps the model's URL and
// never cancels the others or fails the request.
func (s *RecipeService) attachImages(ctx context.Context, recipes []types.Recipe) {
	if s.images == nil || len(recipes) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(maxImageFetches)
	var failed atomic.Int32
	for i := range recipes {
		g.Go(func() error {
			url, err := s.images.SearchImage(ctx, recipes[i].Name)
			if err != nil {
				failed.Add(1)
				return fmt.Errorf("image lookup for %q: %w", recipes[i].Name, err)
			}
			if url != "" {
				recipes[i].ImageURL = url
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[RecipeService] %d of %d image lookups failed, first: %v", failed.Load(), len(recipes), err)
	}
}

// CookingSteps asks the model for numbered steps for a recipe.
func (s *RecipeService) CookingSteps(ctx context.Context, recipeName string, ingredients []string) ([]models.CookingStep, error) {
	content, err := s.llm.GenerateContent(ctx, llm.Prompt{
		User:      buildStepsPrompt(recipeName, ingredients),
		MaxTokens: stepsMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("cooking steps request failed: %w", err)
	}
	return parseCookingSteps(content), nil
}

func buildDiscoveryPrompt(mode types.DiscoveryMode, cuisines []string, items []fridge.FoodItem, profile *models.UserProfile) string {
	var modeDescription string
	switch mode {
	case types.DiscoverByPreferences:
		modeDescription = "Suggest recipes based on user preferences and cuisines."
	case types.DiscoverByFridge:
		modeDescription = "Suggest recipes using ingredients available in the fridge."
	default:
		modeDescription = "Suggest recipes that use fridge ingredients AND match preferences."
	}

	fridgeList := "None specified"
	var urgent []string
	if mode != types.DiscoverByPreferences && len(items) > 0 {
		names := make([]string, 0, len(items))
		for _, item := range items {
			if item.FreshnessTier == fridge.Expired {
				continue
			}
			names = append(names, item.Name)
			if item.FreshnessTier == fridge.Urgent {
				urgent = append(urgent, item.Name)
			}
		}
		if len(names) > 0 {
			fridgeList = strings.Join(names, ", ")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest up to 5 recipes. %s\n\n", modeDescription)
	b.WriteString("Preferences:\n")
	fmt.Fprintf(&b, "- Dietary: %s\n", orDefault(profile.DietaryStyle, "Any"))
	fmt.Fprintf(&b, "- Avoid: %s\n", joinOr(profile.AvoidedIngredients, "None"))
	fmt.Fprintf(&b, "- Dislike: %s\n", joinOr(profile.DislikedIngredients, "None"))
	if len(profile.Diseases) > 0 {
		fmt.Fprintf(&b, "- Health conditions: %s\n", strings.Join(profile.Diseases, ", "))
	}
	fmt.Fprintf(&b, "- Skill: %s\n\n", orDefault(profile.CookingLevel, "Any"))
	fmt.Fprintf(&b, "Fridge: %s\n", fridgeList)
	if len(urgent) > 0 {
		fmt.Fprintf(&b, "Use soon: %s\n", strings.Join(urgent, ", "))
	}
	fmt.Fprintf(&b, "Cuisines: %s\n\n", joinOr(cuisines, "Any"))
	b.WriteString("Return ONLY a JSON array:\n")
	b.WriteString(`[{"name":"Dish Name","image_url":"image url you suggest from network","cuisine":"Italian","cooking_time_minutes":30,"ingredients":["item1","item2"],"fit_percentage":85,"rating":4.5,"description":"Brief description"}]`)
	return b.String()
}

func buildStepsPrompt(recipeName string, ingredients []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write clear cooking steps for %q.\n", recipeName)
	fmt.Fprintf(&b, "Ingredients: %s\n\n", joinOr(ingredients, "use typical ingredients"))
	b.WriteString("Return ONLY a JSON array:\n")
	b.WriteString(`[{"step_number":1,"description":"What to do","ingredients_used":["item1"],"time_minutes":5}]`)
	return b.String()
}

type recipeEntry struct {
	Name        json.RawMessage `json:"name"`
	Cuisine     json.RawMessage `json:"cuisine"`
	ImageURL    json.RawMessage `json:"image_url"`
	CookingTime json.RawMessage `json:"cooking_time_minutes"`
	Ingredients json.RawMessage `json:"ingredients"`
	Fit         json.RawMessage `json:"fit_percentage"`
	Rating      json.RawMessage `json:"rating"`
	Description json.RawMessage `json:"description"`
}

// parseRecipes reads the model's recipe array. Entries without a name are
// skipped. Missing ingredients are computed against the fridge contents.
func parseRecipes(content string, items []fridge.FoodItem) []types.Recipe {
	recipes := []types.Recipe{}

	entries, reason := vision.DecodeArray(content)
	if reason != "" {
		log.Printf("[RecipeService] unusable recipe response: %s", reason)
		return recipes
	}

	fridgeNames := make([]string, 0, len(items))
	for _, item := range items {
		if name := strings.ToLower(strings.TrimSpace(item.Name)); name != "" {
			fridgeNames = append(fridgeNames, name)
		}
	}

	for i, raw := range entries {
		var e recipeEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("[RecipeService] skipping recipe %d: %v", i, err)
			continue
		}
		name, _ := vision.LenientString(e.Name)
		name = strings.TrimSpace(name)
		if name == "" {
			log.Printf("[RecipeService] skipping recipe %d: no name", i)
			continue
		}

		cuisine, ok := vision.LenientString(e.Cuisine)
		if !ok || strings.TrimSpace(cuisine) == "" {
			cuisine = "Unknown"
		}
		imageURL, _ := vision.LenientString(e.ImageURL)
		description, _ := vision.LenientString(e.Description)
		cookingTime, _ := vision.LenientInt(e.CookingTime)
		fit, _ := vision.LenientInt(e.Fit)
		ingredients := lenientStrings(e.Ingredients)

		recipes = append(recipes, types.Recipe{
			ID:                 uuid.NewString(),
			Name:               name,
			Cuisine:            strings.TrimSpace(cuisine),
			ImageURL:           strings.TrimSpace(imageURL),
			CookingTimeMinutes: max(cookingTime, 0),
			Ingredients:        ingredients,
			MissingIngredients: missingIngredients(ingredients, fridgeNames),
			FitPercentage:      min(max(fit, 0), 100),
			Rating:             lenientFloat(e.Rating),
			Description:        description,
		})
	}
	return recipes
}

type stepEntry struct {
	StepNumber      json.RawMessage `json:"step_number"`
	Description     json.RawMessage `json:"description"`
	IngredientsUsed json.RawMessage `json:"ingredients_used"`
	TimeMinutes     json.RawMessage `json:"time_minutes"`
}

// parseCookingSteps reads the model's step array. Steps without a
// description are skipped; missing step numbers follow their position.
func parseCookingSteps(content string) []models.CookingStep {
	steps := []models.CookingStep{}

	entries, reason := vision.DecodeArray(content)
	if reason != "" {
		log.Printf("[RecipeService] unusable steps response: %s", reason)
		return steps
	}

	for _, raw := range entries {
		var e stepEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		description, _ := vision.LenientString(e.Description)
		description = strings.TrimSpace(description)
		if description == "" {
			continue
		}
		number, ok := vision.LenientInt(e.StepNumber)
		if !ok || number <= 0 {
			number = len(steps) + 1
		}
		minutes, _ := vision.LenientInt(e.TimeMinutes)

		steps = append(steps, models.CookingStep{
			StepNumber:      number,
			Description:     description,
			IngredientsUsed: lenientStrings(e.IngredientsUsed),
			TimeMinutes:     max(minutes, 0),
		})
	}
	return steps
}

// missingIngredients returns the ingredients that no fridge item name
// contains or is contained by, ignoring case.
func missingIngredients(ingredients, fridgeNames []string) []string {
	missing := []string{}
	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)
		found := false
		for _, name := range fridgeNames {
			if strings.Contains(lower, name) || strings.Contains(name, lower) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, ingredient)
		}
	}
	return missing
}

func lenientStrings(raw json.RawMessage) []string {
	out := []string{}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return out
	}
	for _, elem := range elems {
		if s, ok := vision.LenientString(elem); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func lenientFloat(raw json.RawMessage) float64 {
	s, ok := vision.LenientString(raw)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
