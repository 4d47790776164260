package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, "register", err)
		return
	}

	log.Printf("[AuthHandler] registered user %s", user.ID)
	c.JSON(http.StatusCreated, types.AuthResponse{Token: token, UserID: user.ID.String()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "log in", err)
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{Token: token, UserID: user.ID.String()})
}
