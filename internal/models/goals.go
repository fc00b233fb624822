package models

import (
	"time"
)

// Goal categories
const (
	GoalCategoryWeight      = "weight"
	GoalCategoryNutrition   = "nutrition"
	GoalCategoryExercise    = "exercise"
	GoalCategoryMindfulness = "mindfulness"
	GoalCategoryHydration   = "hydration"
	GoalCategorySleep       = "sleep"
	GoalCategoryOther       = "other"
)

// Goal statuses
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusCancelled = "cancelled"
)

var GoalCategories = []string{
	GoalCategoryWeight,
	GoalCategoryNutrition,
	GoalCategoryExercise,
	GoalCategoryMindfulness,
	GoalCategoryHydration,
	GoalCategorySleep,
	GoalCategoryOther,
}

// IsValidGoalCategory reports whether category is one of the fixed enum values.
func IsValidGoalCategory(category string) bool {
	for _, c := range GoalCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Goal represents a wellness goal owned by exactly one user.
type Goal struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Title        string     `gorm:"size:250;not null" json:"title"`
	Description  string     `gorm:"size:2000" json:"description,omitempty"`
	Category     string     `gorm:"size:50;not null" json:"category"`
	TargetValue  *float64   `json:"target_value,omitempty"` // Optional positive target
	CurrentValue float64    `gorm:"default:0" json:"current_value"`
	Unit         string     `gorm:"size:50" json:"unit,omitempty"`
	Progress     int        `gorm:"default:0" json:"progress"` // 0..100, derived from current/target
	Status       string     `gorm:"size:50;default:'active';index" json:"status"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	IsPublic     bool       `gorm:"default:false" json:"is_public"`
	ShareCode    string     `gorm:"size:21;index" json:"share_code,omitempty"` // Set for public goals

	// Standard metadata fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User       *User          `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Activities []UserProgress `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}
