package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nexable/smartcookly/backend/internal/api"
	"github.com/nexable/smartcookly/backend/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health    *api.HealthHandler
	Auth      *api.AuthHandler
	Profile   *api.ProfileHandler
	Fridge    *api.FridgeHandler
	Recipe    *api.RecipeHandler
	Favorite  *api.FavoriteHandler
	Shopping  *api.ShoppingHandler
	RateLimit *api.RateLimitHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, tokens middleware.TokenValidator, corsOrigins []string) *gin.Engine {
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Logger(), middleware.ErrorHandler())

	// CORS middleware
	router.Use(middleware.CORS(corsOrigins))

	// Health check endpoints (no auth required)
	h.Health.RegisterRoutes(router)
	h.Health.RegisterRoutes(router.Group("/api"))

	// API v1 routes
	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		h.Profile.RegisterRoutes(protected)
		h.Fridge.RegisterRoutes(protected)
		h.Recipe.RegisterRoutes(protected)
		h.Favorite.RegisterRoutes(protected)
		h.Shopping.RegisterRoutes(protected)
		if h.RateLimit != nil {
			h.RateLimit.RegisterRoutes(protected)
		}
	}

	return router
}
