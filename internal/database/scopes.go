package database

import (
	"gorm.io/gorm"

	"github.com/todo-tracker/todo-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy restricts a projects query to one owner.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.user_id = ?", userID)
	}
}
