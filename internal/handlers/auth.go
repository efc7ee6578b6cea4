package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	"github.com/todo-tracker/todo-api/internal/dto"
	apierrors "github.com/todo-tracker/todo-api/internal/errors"
	"github.com/todo-tracker/todo-api/internal/middleware"
	"github.com/todo-tracker/todo-api/internal/services"
	"github.com/todo-tracker/todo-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account. Form clients are sent on to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username  string `form:"username" json:"username"`
		Email     string `form:"email" json:"email"`
		Password1 string `form:"password1" json:"password1"`
		Password2 string `form:"password2" json:"password2"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, constants.LoginPath, http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = []string{services.MsgFieldRequired}
	}
	if req.Password == "" {
		fields["password"] = []string{services.MsgFieldRequired}
	}
	if len(fields) > 0 {
		respondFieldErrors(c, http.StatusBadRequest, fields)
		return
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInactiveUser):
			if utils.IsFormRequest(c) {
				apierrors.FormErrors(c, map[string][]string{"__all__": {loginFailureMessage(err)}})
				return
			}
			apierrors.InvalidCredentials(c, loginFailureMessage(err))
		default:
			respondServiceError(c, err)
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("[%s] failed to save session: %v", middleware.GetRequestID(c), err)
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	respondSuccess(c, nextPath(c), http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	respondSuccess(c, constants.HomePath, http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func loginFailureMessage(err error) string {
	if errors.Is(err, services.ErrInactiveUser) {
		return "This account is inactive."
	}
	return "Please enter a correct email and password."
}

// nextPath returns the local ?next= target of a login, defaulting to home.
func nextPath(c *gin.Context) string {
	next := c.Query("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return constants.HomePath
}
