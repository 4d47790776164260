package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

type ProfileHandler struct {
	profileService   service.IProfileService
	inventoryService service.IInventoryService
}

func NewProfileHandler(profileService service.IProfileService, inventoryService service.IInventoryService) *ProfileHandler {
	return &ProfileHandler{
		profileService:   profileService,
		inventoryService: inventoryService,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/onboarding", h.CompleteOnboarding)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, "update profile", err)
		return
	}
	if req.Timezone != nil {
		h.refreshInventory(c, userID)
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.OnboardingData
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.CompleteOnboarding(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "complete onboarding", err)
		return
	}
	if req.Timezone != "" {
		h.refreshInventory(c, userID)
	}
	c.JSON(http.StatusOK, profile)
}

// refreshInventory reclassifies the user's fridge after a time zone change.
// The profile is already saved, so a failure here is only logged.
func (h *ProfileHandler) refreshInventory(c *gin.Context, userID uuid.UUID) {
	if err := h.inventoryService.Refresh(c.Request.Context(), userID); err != nil {
		log.Printf("[ProfileHandler] failed to refresh inventory for user %s: %v", userID, err)
	}
}
