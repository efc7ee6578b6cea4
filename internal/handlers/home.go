package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/dto"
	"github.com/todo-tracker/todo-api/internal/middleware"
)

// Home returns the landing payload with the current user, if any.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HomeResponse{
		Message: "Keep track of your projects and tasks",
		User:    dto.ToUserDTOPtr(middleware.GetUser(c)),
	})
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
