package models

import (
	"time"
)

// Consultation statuses
const (
	ConsultationStatusPending   = "pending"
	ConsultationStatusConfirmed = "confirmed"
	ConsultationStatusCompleted = "completed"
	ConsultationStatusCancelled = "cancelled"
)

// Consultation is a scheduled session with a nutritionist. Guests may book
// without an account, so UserID is nullable.
type Consultation struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference        string    `gorm:"size:36;uniqueIndex" json:"reference"` // Public booking reference (UUID)
	UserID           *uint     `gorm:"index" json:"user_id,omitempty"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Email            string    `gorm:"size:250;not null" json:"email"`
	Phone            string    `gorm:"size:50" json:"phone,omitempty"`
	ConsultationType string    `gorm:"size:50;default:'general'" json:"consultation_type"`
	PreferredDate    time.Time `gorm:"not null;index" json:"preferred_date"`
	PreferredTime    string    `gorm:"size:8;default:'09:00'" json:"preferred_time"`
	DurationMin      int       `gorm:"default:60" json:"duration"`
	Notes            string    `gorm:"size:2000" json:"notes,omitempty"`
	Status           string    `gorm:"size:50;default:'pending';index" json:"status"`

	// Standard metadata fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}
