package models

import (
	"time"
)

// UserSettings holds per-user notification and display preferences. One row
// per user, created lazily on first update.
type UserSettings struct {
	ID                    uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID                uint   `gorm:"not null;uniqueIndex" json:"-"`
	EmailNotifications    bool   `gorm:"default:true" json:"email_notifications"`
	GoalReminders         bool   `gorm:"default:true" json:"goal_reminders"`
	ConsultationReminders bool   `gorm:"default:true" json:"consultation_reminders"`
	Theme                 string `gorm:"size:20;default:'light'" json:"theme"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
