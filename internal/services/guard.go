package services

import (
	"errors"

	"github.com/todo-tracker/todo-api/internal/models"
)

// ErrForbidden is returned when the actor may not modify the resource.
var ErrForbidden = errors.New("you do not have permission to modify this resource")

// CanModify reports whether actor may edit or delete what owner owns:
// the owner itself or any superuser.
func CanModify(actor, owner *models.User) bool {
	if actor == nil || owner == nil {
		return false
	}
	return actor.ID == owner.ID || actor.IsSuperuser
}
