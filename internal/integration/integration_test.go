// Package integration runs the API against a real PostgreSQL schema built
// from the SQL migrations.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nexable/smartcookly/backend/internal/api"
	"github.com/nexable/smartcookly/backend/internal/database"
	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/llm"
	"github.com/nexable/smartcookly/backend/internal/middleware"
	"github.com/nexable/smartcookly/backend/internal/models"
	"github.com/nexable/smartcookly/backend/internal/repository"
	"github.com/nexable/smartcookly/backend/internal/router"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/testhelpers"
	"github.com/nexable/smartcookly/backend/internal/types"
	"github.com/nexable/smartcookly/backend/internal/vision"
)

const migrationsDir = "../../migrations"

type cannedModel struct {
	reply string
}

func (m cannedModel) GenerateContent(ctx context.Context, p llm.Prompt) (string, error) {
	return m.reply, nil
}

func (m cannedModel) DescribeImage(ctx context.Context, p llm.Prompt, img llm.Image) (string, error) {
	return m.reply, nil
}

func (m cannedModel) Close() error { return nil }

// setupDB migrates a fresh container with the SQL files and returns both
// handles.
func setupDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	dsn := testhelpers.StartPostgres(t)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	applied, err := database.NewMigrator(sqlDB, migrationsDir).Up()
	require.NoError(t, err)
	require.NotEmpty(t, applied)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, sqlDB
}

func newRouter(db *gorm.DB, model llm.VisionClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	authService := service.NewAuthService(db, "integration-secret")
	profileService := service.NewProfileService(db, "UTC")
	inventoryService := service.NewInventoryService(repository.NewIngredientRepository(db), profileService)

	return router.SetupRouter(router.Handlers{
		Health:   api.NewHealthHandler(db, nil),
		Auth:     api.NewAuthHandler(authService),
		Profile:  api.NewProfileHandler(profileService, inventoryService),
		Fridge:   api.NewFridgeHandler(inventoryService, service.NewScanService(vision.NewDetector(model), nil, inventoryService, profileService), middleware.NewScanRateLimiter(nil, 10)),
		Recipe:   api.NewRecipeHandler(service.NewRecipeService(model, profileService, inventoryService, nil), nil),
		Favorite: api.NewFavoriteHandler(service.NewFavoriteService(db)),
		Shopping: api.NewShoppingHandler(service.NewShoppingService(db, inventoryService)),
	}, authService, nil)
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFridgeSurvivesRestart(t *testing.T) {
	db, _ := setupDB(t)
	r := newRouter(db, cannedModel{reply: "[]"})

	w := call(t, r, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{Name: "Pat", Email: "pat@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	today := civil.DateOf(time.Now().UTC())
	soon, later := today.AddDays(1), today.AddDays(30)
	w = call(t, r, http.MethodPost, "/api/v1/fridge/items", auth.Token, types.AddItemsRequest{Items: []types.FoodItemRequest{
		{Name: "Spinach", Category: "vegetables", ExpirationDate: &soon},
		{Name: "Rice", Category: "GRAINS", ExpirationDate: &later},
		{Name: "Honey"},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A second process sees the same fridge.
	restarted := newRouter(db, cannedModel{reply: "[]"})
	w = call(t, restarted, http.MethodGet, "/api/v1/fridge/items", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []fridge.FoodItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Spinach", resp.Items[0].Name)
	assert.Equal(t, soon, *resp.Items[0].ExpirationDate)
	assert.Equal(t, fridge.Urgent, resp.Items[0].FreshnessTier)
	assert.Equal(t, fridge.Grains, resp.Items[1].Category)
	assert.Equal(t, fridge.Fresh, resp.Items[1].FreshnessTier)
	assert.Nil(t, resp.Items[2].ExpirationDate)
	assert.Equal(t, fridge.Good, resp.Items[2].FreshnessTier)
}

func TestFavoritesAndShoppingOnPostgres(t *testing.T) {
	db, _ := setupDB(t)
	r := newRouter(db, cannedModel{reply: `[{"name":"Fried Rice","ingredients":["rice","egg"],"fit_percentage":70}]`})

	w := call(t, r, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code)
	var auth types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	w = call(t, r, http.MethodPost, "/api/v1/recipes/discover", auth.Token, types.DiscoverRequest{Mode: types.DiscoverByPreferences, Cuisines: []string{"Chinese"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var discovered struct {
		Recipes []types.Recipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &discovered))
	require.Len(t, discovered.Recipes, 1)

	recipe := discovered.Recipes[0]
	recipe.CookingSteps = []models.CookingStep{{StepNumber: 1, Description: "Fry", IngredientsUsed: []string{"rice"}, TimeMinutes: 8}}
	w = call(t, r, http.MethodPost, "/api/v1/favorites", auth.Token, types.FavoriteRequest{Recipe: recipe})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved models.FavoriteRecipe
	require.NoError(t, db.Where("id = ?", recipe.ID).First(&saved).Error)
	assert.Equal(t, models.CookingSteps(recipe.CookingSteps), saved.CookingSteps)
	assert.Equal(t, models.StringArray{"rice", "egg"}, saved.Ingredients)

	w = call(t, r, http.MethodPost, "/api/v1/shopping/missing", auth.Token, types.MissingIngredientsRequest{Names: recipe.MissingIngredients})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.ShoppingItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestMigrationsRollBack(t *testing.T) {
	db, sqlDB := setupDB(t)

	name, err := database.NewMigrator(sqlDB, migrationsDir).Rollback()
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)
	assert.False(t, db.Migrator().HasTable("ingredients"))

	_, err = database.NewMigrator(sqlDB, migrationsDir).Up()
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("ingredients"))
}
