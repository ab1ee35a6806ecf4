package models

import "time"

// HelpRequest is a peer help-board entry visible to all authenticated users.
// Deleting a request removes its replies as well.
type HelpRequest struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Subject     string      `gorm:"size:64" json:"subject"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	User        User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Replies     []HelpReply `gorm:"foreignKey:RequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"replies"`
}
