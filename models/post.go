package models

import "time"

// Post represents a feed entry created by a user. A post carries text content,
// an optional stored attachment path, or both; at least one must be present.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Content    string    `gorm:"type:text" json:"content"`
	Attachment string    `gorm:"size:255" json:"attachment,omitempty"` // relative path under the upload directory
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
