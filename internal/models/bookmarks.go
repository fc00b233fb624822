package models

import (
	"time"
)

// Bookmark links a user to a saved content entry. One bookmark per
// (user, content) pair.
type Bookmark struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_bookmark_user_content" json:"user_id"`
	ContentID uint `gorm:"not null;uniqueIndex:idx_bookmark_user_content" json:"content_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content *Content `gorm:"foreignKey:ContentID;references:ID;constraint:OnDelete:CASCADE" json:"content,omitempty"`
}
