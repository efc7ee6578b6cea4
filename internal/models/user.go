package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(75);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	IsStaff      bool      `gorm:"not null" json:"is_staff"`
	IsAdmin      bool      `gorm:"not null" json:"is_admin"`
	IsSuperuser  bool      `gorm:"not null" json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Projects []Project `gorm:"foreignKey:UserID" json:"-"`
}
