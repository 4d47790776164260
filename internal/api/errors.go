package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nexable/smartcookly/backend/internal/httpclient"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/types"
)

// statusFor maps a service error to the HTTP status the API answers with.
func statusFor(err error) int {
	var networkErr httpclient.NetworkError
	switch {
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, types.ErrInvalidToken),
		errors.Is(err, types.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrShoppingItemNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		return http.StatusNotFound
	case errors.As(err, &networkErr):
		return httpclient.HTTPStatus(err)
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal failures are logged
// and reported generically.
func respondError(c *gin.Context, action string, err error) {
	status := statusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		log.Printf("[API] %s failed: %v", action, err)
		c.JSON(status, gin.H{"error": "failed to " + action})
	case status >= http.StatusBadGateway || status == http.StatusTooManyRequests || status == http.StatusRequestEntityTooLarge:
		log.Printf("[API] %s failed upstream: %v", action, err)
		c.JSON(status, gin.H{"error": "failed to " + action, "code": string(httpclient.Kind(err))})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
