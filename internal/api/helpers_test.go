package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nexable/smartcookly/backend/internal/api"
	"github.com/nexable/smartcookly/backend/internal/llm"
	"github.com/nexable/smartcookly/backend/internal/middleware"
	"github.com/nexable/smartcookly/backend/internal/repository"
	"github.com/nexable/smartcookly/backend/internal/router"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/testhelpers"
	"github.com/nexable/smartcookly/backend/internal/types"
	"github.com/nexable/smartcookly/backend/internal/vision"
)

// stubModel answers every model call with reply.
type stubModel struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubModel) GenerateContent(ctx context.Context, p llm.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

func (s *stubModel) DescribeImage(ctx context.Context, p llm.Prompt, img llm.Image) (string, error) {
	return s.GenerateContent(ctx, p)
}

func (s *stubModel) Close() error { return nil }

func (s *stubModel) respond(reply string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply, s.err = reply, err
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	model  *stubModel
	auth   *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDatabase(t)
	model := &stubModel{reply: "[]"}

	authService := service.NewAuthService(db, "test-secret")
	profileService := service.NewProfileService(db, "UTC")
	inventoryService := service.NewInventoryService(repository.NewIngredientRepository(db), profileService)
	scanService := service.NewScanService(vision.NewDetector(model), nil, inventoryService, profileService)
	recipeService := service.NewRecipeService(model, profileService, inventoryService, nil)
	scanLimiter := middleware.NewScanRateLimiter(nil, 20)

	engine := router.SetupRouter(router.Handlers{
		Health:    api.NewHealthHandler(db, nil),
		Auth:      api.NewAuthHandler(authService),
		Profile:   api.NewProfileHandler(profileService, inventoryService),
		Fridge:    api.NewFridgeHandler(inventoryService, scanService, scanLimiter),
		Recipe:    api.NewRecipeHandler(recipeService, nil),
		Favorite:  api.NewFavoriteHandler(service.NewFavoriteService(db)),
		Shopping:  api.NewShoppingHandler(service.NewShoppingService(db, inventoryService)),
		RateLimit: api.NewRateLimitHandler(map[string]*middleware.RateLimiter{"fridge-scan": scanLimiter, "unused": nil}),
	}, authService, nil)

	return &testApp{t: t, router: engine, model: model, auth: authService}
}

// do sends a JSON request and returns the recorder.
func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(a.t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// register creates a user and returns its token.
func (a *testApp) register(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Name:     "Tester",
		Email:    email,
		Password: "password123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.AuthResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
