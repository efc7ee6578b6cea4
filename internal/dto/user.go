package dto

import "github.com/todo-tracker/todo-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
	}
}

// ToUserDTOPtr converts an optional user; nil stays nil
func ToUserDTOPtr(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	dto := ToUserDTO(*user)
	return &dto
}

// HomeResponse is the landing payload
type HomeResponse struct {
	Message string   `json:"message"`
	User    *UserDTO `json:"user"`
}
