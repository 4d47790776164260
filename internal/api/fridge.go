package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/middleware"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

// MaxScanImageSize caps uploaded fridge photos.
const MaxScanImageSize = 10 << 20

type FridgeHandler struct {
	inventoryService service.IInventoryService
	scanService      service.IScanService
	scanLimiter      *middleware.RateLimiter
}

// NewFridgeHandler creates a fridge handler. scanLimiter may be nil.
func NewFridgeHandler(inventoryService service.IInventoryService, scanService service.IScanService, scanLimiter *middleware.RateLimiter) *FridgeHandler {
	return &FridgeHandler{
		inventoryService: inventoryService,
		scanService:      scanService,
		scanLimiter:      scanLimiter,
	}
}

func (h *FridgeHandler) RegisterRoutes(router *gin.RouterGroup) {
	fridgeGroup := router.Group("/fridge")
	{
		fridgeGroup.GET("/items", h.ListItems)
		fridgeGroup.GET("/items/grouped", h.GroupedItems)
		fridgeGroup.GET("/items/count", h.CountItems)
		fridgeGroup.POST("/items", h.AddItems)
		fridgeGroup.PUT("/items", h.SetItems)
		fridgeGroup.PUT("/items/:id", h.UpdateItem)
		fridgeGroup.DELETE("/items/:id", h.DeleteItem)

		if h.scanLimiter != nil {
			fridgeGroup.POST("/scan", h.scanLimiter.RateLimitMiddleware(), h.Scan)
		} else {
			fridgeGroup.POST("/scan", h.Scan)
		}
	}
}

// ListItems returns the fridge, optionally filtered by ?category=.
func (h *FridgeHandler) ListItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var category *fridge.Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		cat := fridge.NormalizeCategory(raw)
		category = &cat
	}

	items, err := h.inventoryService.List(c.Request.Context(), userID, category)
	if err != nil {
		respondError(c, "list items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *FridgeHandler) GroupedItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	grouped, err := h.inventoryService.Grouped(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "group items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": grouped})
}

func (h *FridgeHandler) CountItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	total, byCategory, err := h.inventoryService.Counts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "count items", err)
		return
	}
	c.JSON(http.StatusOK, types.ItemCountsResponse{Total: total, ByCategory: byCategory})
}

// AddItems merges items into the fridge by name.
func (h *FridgeHandler) AddItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	items, err := h.inventoryService.Add(c.Request.Context(), userID, types.ToItems(req.Items))
	if err != nil {
		respondError(c, "add items", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// SetItems replaces the whole fridge.
func (h *FridgeHandler) SetItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SetItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	items, err := h.inventoryService.Set(c.Request.Context(), userID, types.ToItems(req.Items))
	if err != nil {
		respondError(c, "replace items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *FridgeHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.ID = c.Param("id")

	items, err := h.inventoryService.Update(c.Request.Context(), userID, req.ToItem())
	if err != nil {
		respondError(c, "update item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *FridgeHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, "delete item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Scan reads the multipart "image" field and detects the food in it.
// ?add=true merges the detected items into the fridge.
func (h *FridgeHandler) Scan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	autoAdd := false
	if raw := c.Query("add"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "add must be a boolean"})
			return
		}
		autoAdd = v
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxScanImageSize+1<<20)
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > MaxScanImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxScanImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is empty"})
		return
	}
	if len(data) > MaxScanImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		declared := header.Header.Get("Content-Type")
		if !strings.HasPrefix(declared, "image/") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "file must be an image"})
			return
		}
		contentType = declared
	}

	result, err := h.scanService.Scan(c.Request.Context(), userID, service.ScanImage{Data: data, MIMEType: contentType}, autoAdd)
	if err != nil {
		respondError(c, "scan image", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
