package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// WindowCounter counts requests per key within a fixed window.
type WindowCounter interface {
	// Incr increments key, sets it to expire after window and returns the new count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// Count returns the current value of key, 0 when absent.
	Count(ctx context.Context, key string) (int64, error)
}

type redisCounter struct {
	client *redis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incrCmd.Val(), nil
}

func (r redisCounter) Count(ctx context.Context, key string) (int64, error) {
	count, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

// RateLimiter limits requests per authenticated user. A limiter without a
// counter lets every request through.
type RateLimiter struct {
	counter WindowCounter
	config  RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance. A nil client disables limiting.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if redisClient == nil {
		return &RateLimiter{config: config}
	}
	return NewRateLimiterWithCounter(redisCounter{client: redisClient}, config)
}

func NewRateLimiterWithCounter(counter WindowCounter, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{counter: counter, config: config}
}

// NewScanRateLimiter limits fridge photo scans to limit per hour.
func NewScanRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:fridge_scan",
	})
}

// NewDiscoveryRateLimiter limits recipe discovery calls to limit per hour.
func NewDiscoveryRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_discovery",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil {
			c.Next()
			return
		}

		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), fmt.Sprintf("%v", userID))
		if err != nil {
			log.Printf("[RateLimiter] %s check failed: %v", rl.config.KeyPrefix, err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) windowKey(userID string) (string, time.Time) {
	windowStart := time.Now().Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix()), windowStart.Add(rl.config.Window)
}

// IsAllowed counts a request from the given user and reports whether it fits
// in the current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	key, resetTime := rl.windowKey(userID)
	count, err := rl.counter.Incr(ctx, key, rl.config.Window)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	remaining := max(rl.config.Limit-int(count), 0)
	return int(count) <= rl.config.Limit, remaining, resetTime, nil
}

// GetRemainingRequests returns the number of remaining requests for a user
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error) {
	key, resetTime := rl.windowKey(userID)
	if rl.counter == nil {
		return rl.config.Limit, resetTime, nil
	}
	count, err := rl.counter.Count(ctx, key)
	if err != nil {
		return 0, time.Time{}, err
	}
	return max(rl.config.Limit-int(count), 0), resetTime, nil
}

// Config returns the limiter's settings.
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

// Enabled reports whether requests are being counted.
func (rl *RateLimiter) Enabled() bool {
	return rl.counter != nil
}
