package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	apierrors "github.com/todo-tracker/todo-api/internal/errors"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/services"
)

// RequireTaskAccess checks if the user may modify the task named by :slug.
// The task's project owner and superusers pass.
func RequireTaskAccess(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := taskService.Authorize(GetUser(c), c.Param("slug"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTaskNotFound):
				apierrors.NotFound(c, "Task not found")
			case errors.Is(err, services.ErrForbidden):
				apierrors.Forbidden(c, "You can only modify tasks of your own projects")
			default:
				log.Printf("[%s] task access check failed: %v", GetRequestID(c), err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask returns the task stored by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}
