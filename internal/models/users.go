package models

import (
	"time"
)

// User represents a platform account.
// Core model used by authentication, goals and consultations.
type User struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username          string     `gorm:"size:100;not null;uniqueIndex" json:"username"` // Unique display handle
	Email             string     `gorm:"size:250;not null;uniqueIndex" json:"email"`    // Email address
	PasswordHash      string     `gorm:"size:250;not null" json:"-"`                    // bcrypt hash, never serialized
	IsAdmin           bool       `gorm:"default:false" json:"is_admin"`                 // Admin role flag
	EmailVerified     bool       `gorm:"default:false" json:"email_verified"`           // Whether email is verified
	ResetTokenHash    *string    `gorm:"size:64;index" json:"-"`                        // SHA-256 of active reset ticket
	ResetTokenExpires *time.Time `json:"-"`                                             // Reset ticket expiry

	// Standard metadata fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Goals         []Goal         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"goals,omitempty"`
	Activities    []UserProgress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
	Consultations []Consultation `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"consultations,omitempty"`
	Bookmarks     []Bookmark     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"bookmarks,omitempty"`
}

// HasActiveResetLock reports whether an unexpired password-reset ticket is
// pending for the user. Accounts in this state cannot authenticate until the
// ticket is consumed or expires.
func (u *User) HasActiveResetLock(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpires != nil && now.Before(*u.ResetTokenExpires)
}
