package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexable/smartcookly/backend/internal/middleware"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

type RecipeHandler struct {
	recipeService    service.IRecipeService
	discoveryLimiter *middleware.RateLimiter
}

// NewRecipeHandler creates a recipe handler. discoveryLimiter may be nil.
func NewRecipeHandler(recipeService service.IRecipeService, discoveryLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:    recipeService,
		discoveryLimiter: discoveryLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		if h.discoveryLimiter != nil {
			recipes.POST("/discover", h.discoveryLimiter.RateLimitMiddleware(), h.Discover)
		} else {
			recipes.POST("/discover", h.Discover)
		}
		recipes.POST("/steps", h.CookingSteps)
	}
}

// Discover suggests recipes. An empty body means mode BOTH with the
// profile's cuisines.
func (h *RecipeHandler) Discover(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.DiscoverRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	recipes, err := h.recipeService.Discover(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "discover recipes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) CookingSteps(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var req types.CookingStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	steps, err := h.recipeService.CookingSteps(c.Request.Context(), req.RecipeName, req.Ingredients)
	if err != nil {
		respondError(c, "get cooking steps", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}
