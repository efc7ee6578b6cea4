package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/todo-tracker/todo-api/internal/constants"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInactiveUser         = errors.New("this account is inactive")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRequired        = errors.New("the email must be set")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// Registration messages, keyed by form field in a *ValidationError.
const (
	MsgFieldRequired    = "This field is required."
	MsgUsernameInvalid  = "Username must be alphanumeric or contain numbers"
	MsgUsernameTaken    = "User with this name already exist."
	MsgEmailMissingAt   = "Missed the @ symbol in the email address."
	MsgEmailMissingDot  = "Missed the . symbol in the email address."
	MsgEmailTakenFormat = "User with email %s already exists."
	MsgEmailIncorrect   = "Incorrect email."
	MsgPasswordMismatch = "Your passwords don't match."
	MsgPasswordTooShort = "This password is too short. It must contain at least %d characters."
	MsgMaxLengthFormat  = "Ensure this value has at most %d characters (it has %d)."
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9.+-]*$`)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: validator.New(),
	}
}

// RegisterInput represents the registration form.
type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// Register validates the registration form and creates an active user.
// Field problems come back together as a *ValidationError.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	var user *models.User

	err := s.userRepo.Transaction(func(repo repository.UserRepository) error {
		verr := NewValidationError()

		username, err := s.checkUsername(repo, verr, input.Username)
		if err != nil {
			return err
		}
		email, err := s.checkEmail(repo, verr, input.Email)
		if err != nil {
			return err
		}
		checkPasswords(verr, input.Password1, input.Password2)

		if verr.HasErrors() {
			return verr
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password1), bcrypt.DefaultCost)
		if err != nil {
			return ErrFailedToHashPassword
		}

		user = &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hashedPassword),
			IsActive:     true,
		}
		return repo.Create(user)
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrFailedToHashPassword) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

func (s *AuthService) checkUsername(repo repository.UserRepository, verr *ValidationError, raw string) (string, error) {
	username := strings.TrimSpace(raw)
	switch {
	case username == "":
		verr.Add("username", MsgFieldRequired)
	case utf8.RuneCountInString(username) > constants.MaxUsernameLength:
		verr.Add("username", fmt.Sprintf(MsgMaxLengthFormat, constants.MaxUsernameLength, utf8.RuneCountInString(username)))
	case !usernamePattern.MatchString(username):
		verr.Add("username", MsgUsernameInvalid)
	default:
		if _, err := repo.FindByUsername(username); err == nil {
			verr.Add("username", MsgUsernameTaken)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
	}
	return username, nil
}

func (s *AuthService) checkEmail(repo repository.UserRepository, verr *ValidationError, raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case email == "":
		verr.Add("email", MsgFieldRequired)
	case !strings.Contains(email, "@"):
		verr.Add("email", MsgEmailMissingAt)
	case !strings.Contains(email, "."):
		verr.Add("email", MsgEmailMissingDot)
	case utf8.RuneCountInString(email) > constants.MaxEmailLength:
		verr.Add("email", fmt.Sprintf(MsgMaxLengthFormat, constants.MaxEmailLength, utf8.RuneCountInString(email)))
	default:
		if _, err := repo.FindByEmail(email); err == nil {
			verr.Add("email", fmt.Sprintf(MsgEmailTakenFormat, email))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to check email: %w", err)
		} else if err := s.validate.Var(email, "email"); err != nil {
			verr.Add("email", MsgEmailIncorrect)
		}
	}
	return email, nil
}

func checkPasswords(verr *ValidationError, password1, password2 string) {
	if password1 == "" {
		verr.Add("password1", MsgFieldRequired)
	}
	if password2 == "" {
		verr.Add("password2", MsgFieldRequired)
	}
	if verr.Has("password1") || verr.Has("password2") {
		return
	}

	if password1 != password2 {
		verr.Add("password2", MsgPasswordMismatch)
		return
	}
	if utf8.RuneCountInString(password1) < constants.MinPasswordLength {
		verr.Add("password2", fmt.Sprintf(MsgPasswordTooShort, constants.MinPasswordLength))
	}
}

// Authenticate verifies an email and password pair and returns the user.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// SuperuserInput holds the create-superuser command arguments.
type SuperuserInput struct {
	Email    string
	Username string
	Password string
}

// CreateSuperuser creates an active staff superuser. The username defaults
// to the local part of the email.
func (s *AuthService) CreateSuperuser(input SuperuserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	verr := NewValidationError()
	if !usernamePattern.MatchString(username) {
		verr.Add("username", MsgUsernameInvalid)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		verr.Add("email", MsgEmailIncorrect)
	}
	if utf8.RuneCountInString(input.Password) < constants.MinPasswordLength {
		verr.Add("password", fmt.Sprintf(MsgPasswordTooShort, constants.MinPasswordLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsStaff:      true,
		IsAdmin:      true,
		IsSuperuser:  true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create superuser: %w", err)
	}

	return user, nil
}
