package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nexable/smartcookly/backend/internal/database"
)

const version = "v1.0.0"

// HealthHandler reports whether the API and its backing stores are reachable.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a health handler. redisClient may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
}

// Health returns 200 when the database answers and 503 otherwise. Redis is
// optional, so its failure only shows up in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	if err := database.HealthCheck(ctx, h.db); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	switch {
	case h.redis == nil:
		checks["redis"] = "disabled"
	case h.redis.Ping(ctx).Err() != nil:
		checks["redis"] = "unreachable"
	default:
		checks["redis"] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"message": "SmartCookly API is running",
		"version": version,
		"checks":  checks,
	})
}
