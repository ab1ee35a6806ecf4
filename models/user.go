package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Passwords are stored as salted hashes only.
type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Username     string        `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string        `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Posts        []Post        `json:"-"`
	Tasks        []Task        `json:"-"`
	HelpRequests []HelpRequest `json:"-"`
	HelpReplies  []HelpReply   `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}
