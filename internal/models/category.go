package models

import "time"

// Category represents a named grouping applied to tasks
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:20;not null" json:"name"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:CategoryID" json:"-"`
}
