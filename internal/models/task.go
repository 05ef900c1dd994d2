package models

import (
	"time"
)

// Task statuses. A task starts OPEN and is only ever soft-deleted by
// moving it to DELETED; no row is physically removed.
const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusClosed     = "CLOSED"
	StatusDeleted    = "DELETED"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed, StatusDeleted:
		return true
	}
	return false
}

// Task represents a unit of work owned by a user and grouped into a category
type Task struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string    `gorm:"size:50;not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"duedate"`
	Status      string    `gorm:"default:OPEN" json:"status"`
	Owner       string    `gorm:"size:25;not null" json:"owner"`

	// Relationships
	CategoryID uint      `gorm:"not null" json:"categoryId"`
	Category   *Category `json:"category,omitempty"`
}

// CategoryName returns the joined category name, or the literal
// "No Category" label when the category is not loaded or missing.
func (t Task) CategoryName() string {
	if t.Category == nil || t.Category.Name == "" {
		return "No Category"
	}
	return t.Category.Name
}
