package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

type FavoriteHandler struct {
	favoriteService service.IFavoriteService
}

func NewFavoriteHandler(favoriteService service.IFavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.GET("", h.List)
		favorites.POST("", h.Add)
		favorites.GET("/:id", h.Status)
		favorites.DELETE("/:id", h.Remove)
	}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list favorites", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), userID, req.Recipe)
	if err != nil {
		respondError(c, "save favorite", err)
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

// Status reports whether the recipe with :id is saved.
func (h *FavoriteHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	favorite, err := h.favoriteService.IsFavorite(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, "check favorite", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "favorite": favorite})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, "remove favorite", err)
		return
	}
	c.Status(http.StatusNoContent)
}
