package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/todo-tracker/todo-api/internal/constants"
)

// RequestID tags every request with an ID, reusing a client-sent UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequest, id)
		c.Header(constants.HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the ID set by RequestID, or "-" outside of it
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(constants.ContextKeyRequest); id != "" {
		return id
	}
	return "-"
}
