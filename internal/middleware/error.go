package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler turns errors attached with c.Error into a JSON response when
// the handler did not write one itself, and recovers from panics.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ErrorHandler] panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last()
		log.Printf("[ErrorHandler] %s %s: %v", c.Request.Method, c.Request.URL.Path, err.Err)

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		message := "internal server error"
		if status < http.StatusInternalServerError {
			message = err.Error()
		}
		c.JSON(status, ErrorResponse{Error: message})
	}
}
