package models

import "time"

// Task status filter values accepted by the task listing endpoint.
const (
	TaskStatusAll       = "all"
	TaskStatusCompleted = "completed"
	TaskStatusPending   = "pending"
)

// Task is a personal to-do item. Tasks are visible and mutable only by the
// owning user.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:64" json:"category"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
