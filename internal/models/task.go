package models

import (
	"strconv"
	"strings"
	"time"
)

type TaskPriority int

const (
	PriorityHigh   TaskPriority = 1
	PriorityMiddle TaskPriority = 0
	PriorityLow    TaskPriority = -1
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMiddle, PriorityLow:
		return true
	}
	return false
}

func (p TaskPriority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMiddle:
		return "Middle"
	case PriorityLow:
		return "Low"
	}
	return "Unknown"
}

// ParseTaskPriority accepts a label ("high", "Middle") or its numeric value.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		p := TaskPriority(n)
		return p, p.Valid()
	}
	for _, p := range []TaskPriority{PriorityHigh, PriorityMiddle, PriorityLow} {
		if strings.EqualFold(s, p.String()) {
			return p, true
		}
	}
	return 0, false
}

type TaskStatus int

const (
	TaskStatusCompleted   TaskStatus = 1
	TaskStatusUncompleted TaskStatus = 0
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusCompleted || s == TaskStatusUncompleted
}

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusUncompleted:
		return "Uncompleted"
	}
	return "Unknown"
}

// ParseTaskStatus accepts a label ("completed") or its numeric value.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		st := TaskStatus(n)
		return st, st.Valid()
	}
	for _, st := range []TaskStatus{TaskStatusCompleted, TaskStatusUncompleted} {
		if strings.EqualFold(s, st.String()) {
			return st, true
		}
	}
	return 0, false
}

// Priority and Status carry no gorm default: gorm skips zero values on insert
// when a default is declared, which would turn Middle (0) into the default.
type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(120);not null" json:"title"`
	Slug        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"not null" json:"priority"`
	Status      TaskStatus   `gorm:"not null" json:"status"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
