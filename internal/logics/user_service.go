package logics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"gorm.io/gorm"
)

// DashboardStats is the dashboard statistics block.
type DashboardStats struct {
	TotalGoals        int64 `json:"totalGoals"`
	CompletedGoals    int64 `json:"completedGoals"`
	CompletedConsults int64 `json:"completedConsults"`
	AverageProgress   int   `json:"averageProgress"`
}

// DashboardResult aggregates the user's landing-page data.
type DashboardResult struct {
	Goals         []models.Goal         `json:"goals"`
	Consultations []models.Consultation `json:"consultations"`
	Content       []models.Content      `json:"content"`
	Statistics    DashboardStats        `json:"statistics"`
}

// ActivityListResult is the paginated activity log payload.
type ActivityListResult struct {
	Activities []models.UserProgress `json:"activities"`
	Pagination Pagination            `json:"pagination"`
}

// SettingsParams holds a settings update. Nil pointers keep current values.
type SettingsParams struct {
	EmailNotifications    *bool   `json:"email_notifications"`
	GoalReminders         *bool   `json:"goal_reminders"`
	ConsultationReminders *bool   `json:"consultation_reminders"`
	Theme                 *string `json:"theme"`
}

// UserService implements the dashboard, activity log and settings views.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Dashboard collects recent goals, upcoming consultations, latest content
// and cross-table statistics for one user.
func (svc *UserService) Dashboard(user *models.User) (*DashboardResult, error) {
	var goals []models.Goal
	if err := svc.db.Where("user_id = ?", user.ID).
		Order("updated_at DESC").
		Limit(5).
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("recent goals failed: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	var consultations []models.Consultation
	if err := svc.db.Where("user_id = ? AND preferred_date >= ? AND status IN ?",
		user.ID, today,
		[]string{models.ConsultationStatusPending, models.ConsultationStatusConfirmed}).
		Order("preferred_date ASC").
		Limit(3).
		Find(&consultations).Error; err != nil {
		return nil, fmt.Errorf("upcoming consultations failed: %w", err)
	}

	var content []models.Content
	if err := svc.db.Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(4).
		Find(&content).Error; err != nil {
		return nil, fmt.Errorf("recent content failed: %w", err)
	}

	stats := DashboardStats{}
	if err := svc.db.Model(&models.Goal{}).Where("user_id = ?", user.ID).Count(&stats.TotalGoals).Error; err != nil {
		return nil, fmt.Errorf("goal count failed: %w", err)
	}
	if err := svc.db.Model(&models.Goal{}).
		Where("user_id = ? AND status = ?", user.ID, models.GoalStatusCompleted).
		Count(&stats.CompletedGoals).Error; err != nil {
		return nil, fmt.Errorf("completed goal count failed: %w", err)
	}
	if err := svc.db.Model(&models.Consultation{}).
		Where("user_id = ? AND status = ?", user.ID, models.ConsultationStatusCompleted).
		Count(&stats.CompletedConsults).Error; err != nil {
		return nil, fmt.Errorf("completed consultation count failed: %w", err)
	}

	var avgProgress float64
	if err := svc.db.Model(&models.Goal{}).
		Select("COALESCE(AVG(progress), 0)").
		Where("user_id = ?", user.ID).
		Scan(&avgProgress).Error; err != nil {
		return nil, fmt.Errorf("average progress failed: %w", err)
	}
	stats.AverageProgress = int(math.Round(avgProgress))

	return &DashboardResult{
		Goals:         goals,
		Consultations: consultations,
		Content:       content,
		Statistics:    stats,
	}, nil
}

// Activities returns the user's activity log newest first, with goal titles
// preloaded.
func (svc *UserService) Activities(user *models.User, page, limit int) (*ActivityListResult, error) {
	page, limit = NormalizePage(page, limit, 20, 100)

	var total int64
	if err := svc.db.Model(&models.UserProgress{}).
		Where("user_id = ?", user.ID).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("activity count failed: %w", err)
	}

	var activities []models.UserProgress
	if err := svc.db.Preload("Goal").
		Where("user_id = ?", user.ID).
		Order("recorded_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("activity list failed: %w", err)
	}

	return &ActivityListResult{
		Activities: activities,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// Settings returns the user's stored preferences, falling back to defaults
// when no row exists yet.
func (svc *UserService) Settings(user *models.User) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := svc.db.Where("user_id = ?", user.ID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSettings{
			UserID:                user.ID,
			EmailNotifications:    true,
			GoalReminders:         true,
			ConsultationReminders: true,
			Theme:                 "light",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings lookup failed: %w", err)
	}
	return &settings, nil
}

// UpdateSettings upserts the user's preferences row.
func (svc *UserService) UpdateSettings(user *models.User, params SettingsParams) (*models.UserSettings, error) {
	if params.Theme != nil && *params.Theme != "light" && *params.Theme != "dark" {
		return nil, NewServiceError(ErrValidation, "theme must be light or dark")
	}

	settings, err := svc.Settings(user)
	if err != nil {
		return nil, err
	}

	if params.EmailNotifications != nil {
		settings.EmailNotifications = *params.EmailNotifications
	}
	if params.GoalReminders != nil {
		settings.GoalReminders = *params.GoalReminders
	}
	if params.ConsultationReminders != nil {
		settings.ConsultationReminders = *params.ConsultationReminders
	}
	if params.Theme != nil {
		settings.Theme = *params.Theme
	}

	if err := svc.db.Save(settings).Error; err != nil {
		return nil, fmt.Errorf("settings save failed: %w", err)
	}
	return settings, nil
}
