package models

import (
	"time"
)

// Activity types recorded in the user progress log
const (
	ActivityGoalCreated    = "goal_created"
	ActivityProgressUpdate = "progress_update"
	ActivityGoalUpdated    = "goal_updated"
	ActivityGoalCompleted  = "goal_completed"
	ActivityContentViewed  = "content_viewed"
)

// UserProgress is an append-only activity log entry. Rows are never updated
// or deleted individually; they go away only when their parent goal is
// deleted (cascade).
type UserProgress struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint     `gorm:"index;not null" json:"user_id"`
	GoalID       *uint    `gorm:"index" json:"goal_id,omitempty"` // Optional goal reference
	ActivityType string   `gorm:"size:50;not null" json:"activity_type"`
	Value        *float64 `json:"value,omitempty"`
	Notes        string   `gorm:"size:2000" json:"notes,omitempty"`
	Mood         string   `gorm:"size:50" json:"mood,omitempty"`

	RecordedAt time.Time `gorm:"autoCreateTime;index" json:"recorded_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Goal *Goal `gorm:"foreignKey:GoalID;references:ID;constraint:OnDelete:CASCADE" json:"goal,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
