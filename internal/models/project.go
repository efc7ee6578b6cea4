package models

import "time"

type Project struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(120);not null" json:"title"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Color     string    `gorm:"type:varchar(20);not null" json:"color"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}
