package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexable/smartcookly/backend/internal/middleware"
)

// RateLimitHandler exposes the caller's remaining quota per limiter.
type RateLimitHandler struct {
	limiters map[string]*middleware.RateLimiter
}

// NewRateLimitHandler serves one status endpoint per named limiter. Nil
// limiters are skipped.
func NewRateLimitHandler(limiters map[string]*middleware.RateLimiter) *RateLimitHandler {
	kept := make(map[string]*middleware.RateLimiter, len(limiters))
	for name, l := range limiters {
		if l != nil {
			kept[name] = l
		}
	}
	return &RateLimitHandler{limiters: kept}
}

func (h *RateLimitHandler) RegisterRoutes(router *gin.RouterGroup) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.GET("/:name", h.Status)
}

func (h *RateLimitHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	name := c.Param("name")
	limiter, found := h.limiters[name]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown rate limit"})
		return
	}

	remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), userID.String())
	if err != nil {
		respondError(c, "check rate limit", err)
		return
	}

	cfg := limiter.Config()
	c.JSON(http.StatusOK, gin.H{
		"limit":      cfg.Limit,
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
		"window":     cfg.Window.String(),
		"enabled":    limiter.Enabled(),
	})
}
