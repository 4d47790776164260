package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

type ShoppingHandler struct {
	shoppingService service.IShoppingService
}

func NewShoppingHandler(shoppingService service.IShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	shopping := router.Group("/shopping")
	{
		shopping.GET("", h.List)
		shopping.POST("", h.Add)
		shopping.DELETE("", h.Clear)
		shopping.DELETE("/:id", h.Delete)
		shopping.POST("/missing", h.AddMissing)
		shopping.POST("/expired", h.AddExpired)
	}
}

func (h *ShoppingHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.shoppingService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list shopping items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ShoppingHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.shoppingService.Add(c.Request.Context(), userID, req.Name, req.Urgency)
	if err != nil {
		respondError(c, "add shopping item", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ShoppingHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopping item ID"})
		return
	}

	if err := h.shoppingService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, "delete shopping item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingHandler) Clear(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.shoppingService.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, "clear shopping list", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMissing puts a recipe's missing ingredients on the list, skipping
// names already there.
func (h *ShoppingHandler) AddMissing(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.MissingIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	added, err := h.shoppingService.AddMissing(c.Request.Context(), userID, req.Names)
	if err != nil {
		respondError(c, "add missing ingredients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// AddExpired restocks every expired fridge item.
func (h *ShoppingHandler) AddExpired(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	added, err := h.shoppingService.AddExpired(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "add expired items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}
