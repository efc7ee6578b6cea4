package middleware

import (
	"errors"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	apierrors "github.com/todo-tracker/todo-api/internal/errors"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/services"
	"github.com/todo-tracker/todo-api/internal/utils"
)

// LoadUser resolves the session's user for every request. Requests without a
// valid session continue as anonymous.
func LoadUser(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := sessionUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			c.Next()
			return
		}

		user, err := authService.GetUser(userID)
		if err != nil || !user.IsActive {
			if err != nil && !errors.Is(err, services.ErrUserNotFound) {
				log.Printf("[%s] failed to load session user %d: %v", GetRequestID(c), userID, err)
			}
			session.Delete(constants.ContextKeyUserID)
			if err := session.Save(); err != nil {
				log.Printf("[%s] failed to clear session: %v", GetRequestID(c), err)
			}
			c.Next()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Form clients are sent to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c) == nil {
			if utils.IsFormRequest(c) {
				apierrors.RedirectToLogin(c)
			} else {
				apierrors.Unauthorized(c, "")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUser returns the authenticated user, or nil for anonymous requests
func GetUser(c *gin.Context) *models.User {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

func sessionUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
