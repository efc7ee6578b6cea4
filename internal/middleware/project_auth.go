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

// RequireProjectAccess loads the project named by the :slug parameter and
// checks that the current user owns it or is a superuser.
// Missing projects answer 404, foreign ones 403.
func RequireProjectAccess(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := projectService.Authorize(GetUser(c), c.Param("slug"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrProjectNotFound):
				apierrors.NotFound(c, "Project not found")
			case errors.Is(err, services.ErrForbidden):
				apierrors.Forbidden(c, "You can only modify your own projects")
			default:
				log.Printf("[%s] project access check failed: %v", GetRequestID(c), err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject returns the project stored by RequireProjectAccess
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}
