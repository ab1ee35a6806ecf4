package models

import "time"

// HelpReply is a reply on a help request. Replies have no edit or delete path
// of their own; they disappear with their parent request.
type HelpReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"index;not null" json:"request_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
