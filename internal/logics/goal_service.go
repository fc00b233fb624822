package logics

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// ComputeProgress derives the integer progress percentage from current and
// target values: floor(current/target*100) clamped to 0..100. A non-positive
// target yields 0, not the goal's stored progress. Goals without a usable
// target are tracked by status alone, so callers must skip the recompute
// for them rather than apply this zero.
func ComputeProgress(current, target float64) int {
	if target <= 0 {
		return 0
	}
	progress := int(math.Floor(current / target * 100))
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return progress
}

// CreateGoalParams holds goal creation input.
type CreateGoalParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	TargetValue *float64   `json:"target_value"`
	TargetDate  *time.Time `json:"target_date"`
	Unit        string     `json:"unit"`
	IsPublic    bool       `json:"is_public"`
}

// UpdateProgressParams holds a progress update.
type UpdateProgressParams struct {
	CurrentValue *float64 `json:"current_value"`
	Notes        string   `json:"notes"`
	Mood         string   `json:"mood"`
}

// UpdateGoalParams holds a partial goal update. Nil pointers leave the
// corresponding field untouched.
type UpdateGoalParams struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	TargetValue *float64   `json:"target_value"`
	TargetDate  *time.Time `json:"target_date"`
	Unit        *string    `json:"unit"`
	IsPublic    *bool      `json:"is_public"`
	Status      *string    `json:"status"`
}

// ListGoalsParams holds list filters.
type ListGoalsParams struct {
	Status   string
	Category string
	Limit    int
	Page     int
	Sort     string
	Order    string
}

// GoalListResult is the goal list response payload.
type GoalListResult struct {
	Goals      []models.Goal  `json:"goals"`
	Statistics GoalListStats  `json:"statistics"`
	Pagination Pagination     `json:"pagination"`
}

// GoalListStats summarizes the returned page.
type GoalListStats struct {
	Total           int `json:"total"`
	Active          int `json:"active"`
	Completed       int `json:"completed"`
	AverageProgress int `json:"averageProgress"`
}

// GoalService implements goal CRUD and the progress state machine.
type GoalService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewGoalService(db *gorm.DB, notifier *Notifier) *GoalService {
	return &GoalService{db: db, notifier: notifier}
}

func validateGoalTitle(title string) error {
	if len(strings.TrimSpace(title)) < 3 {
		return NewServiceError(ErrValidation, "title must be at least 3 characters")
	}
	return nil
}

func validateGoalInput(category string, targetValue *float64, targetDate *time.Time, description string) error {
	if !models.IsValidGoalCategory(category) {
		return NewServiceError(ErrValidation, "valid category is required")
	}
	if targetValue != nil && *targetValue <= 0 {
		return NewServiceError(ErrValidation, "target value must be a positive number")
	}
	if targetDate != nil && !targetDate.After(time.Now()) {
		return NewServiceError(ErrValidation, "target date must be in the future")
	}
	if len(description) > 2000 {
		return NewServiceError(ErrValidation, "description cannot exceed 2000 characters")
	}
	return nil
}

// Create validates and persists a new goal, appending its goal_created
// activity entry.
func (svc *GoalService) Create(user *models.User, params CreateGoalParams) (*models.Goal, error) {
	title := strings.TrimSpace(params.Title)

	if err := validateGoalTitle(title); err != nil {
		return nil, err
	}
	if err := validateGoalInput(params.Category, params.TargetValue, params.TargetDate, params.Description); err != nil {
		return nil, err
	}

	// Duplicate active goal with the same title is a conflict.
	var existing models.Goal
	result := svc.db.Where("user_id = ? AND title = ? AND status = ?",
		user.ID, title, models.GoalStatusActive).First(&existing)
	if result.Error == nil {
		return nil, NewServiceError(ErrConflict, "you already have an active goal with this title")
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("goal lookup failed: %w", result.Error)
	}

	goal := models.Goal{
		UserID:      user.ID,
		Title:       title,
		Description: params.Description,
		Category:    params.Category,
		TargetValue: params.TargetValue,
		TargetDate:  params.TargetDate,
		Unit:        params.Unit,
		IsPublic:    params.IsPublic,
		Status:      models.GoalStatusActive,
	}

	if params.IsPublic {
		code, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("share code generation failed: %w", err)
		}
		goal.ShareCode = code
	}

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&goal).Error; err != nil {
			return fmt.Errorf("goal creation failed: %w", err)
		}

		activity := models.UserProgress{
			UserID:       user.ID,
			GoalID:       &goal.ID,
			ActivityType: models.ActivityGoalCreated,
			Notes:        "Created goal: " + title,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("activity log append failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

// UpdateProgress applies a progress update to an owned goal. It recomputes
// the progress percentage, performs the one-shot completed transition, and
// unconditionally appends a progress_update activity entry. The returned
// bool reports whether this call crossed the completion edge.
func (svc *GoalService) UpdateProgress(user *models.User, goalID uint, params UpdateProgressParams) (*models.Goal, bool, error) {
	if params.CurrentValue != nil && *params.CurrentValue < 0 {
		return nil, false, NewServiceError(ErrValidation, "current value must be a non-negative number")
	}

	var goal models.Goal
	transitioned := false

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", goalID, user.ID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewServiceError(ErrNotFound, "goal not found")
			}
			return fmt.Errorf("goal lookup failed: %w", err)
		}

		newCurrent := goal.CurrentValue
		if params.CurrentValue != nil {
			newCurrent = *params.CurrentValue
		}

		updates := map[string]interface{}{"current_value": newCurrent}

		// Progress is only derived when the goal has a positive numeric
		// target and a positive current value; otherwise the stored value
		// stands.
		if goal.TargetValue != nil && *goal.TargetValue > 0 && newCurrent > 0 {
			progress := ComputeProgress(newCurrent, *goal.TargetValue)
			updates["progress"] = progress

			if progress >= 100 && goal.Status != models.GoalStatusCompleted {
				updates["status"] = models.GoalStatusCompleted
				transitioned = true
			}
			goal.Progress = progress
		}

		if err := tx.Model(&goal).Updates(updates).Error; err != nil {
			return fmt.Errorf("goal update failed: %w", err)
		}

		goal.CurrentValue = newCurrent
		if transitioned {
			goal.Status = models.GoalStatusCompleted
		}

		// One activity entry per update call, even when progress is
		// unchanged.
		activity := models.UserProgress{
			UserID:       user.ID,
			GoalID:       &goal.ID,
			ActivityType: models.ActivityProgressUpdate,
			Value:        &newCurrent,
			Notes:        params.Notes,
			Mood:         params.Mood,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("activity log append failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if transitioned && svc.notifier != nil {
		svc.notifier.NotifyGoalCompleted(user.Email, user.Username, goal.Title)
	}

	return &goal, transitioned, nil
}

// Update applies a partial update to an owned goal and appends a
// goal_updated activity entry.
func (svc *GoalService) Update(user *models.User, goalID uint, params UpdateGoalParams) (*models.Goal, error) {
	var goal models.Goal
	if err := svc.db.Where("id = ? AND user_id = ?", goalID, user.ID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(ErrNotFound, "goal not found")
		}
		return nil, fmt.Errorf("goal lookup failed: %w", err)
	}

	updates := map[string]interface{}{}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if err := validateGoalTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if params.Description != nil {
		if len(*params.Description) > 2000 {
			return nil, NewServiceError(ErrValidation, "description cannot exceed 2000 characters")
		}
		updates["description"] = *params.Description
	}
	if params.Category != nil {
		if !models.IsValidGoalCategory(*params.Category) {
			return nil, NewServiceError(ErrValidation, "valid category is required")
		}
		updates["category"] = *params.Category
	}
	if params.TargetValue != nil {
		if *params.TargetValue <= 0 {
			return nil, NewServiceError(ErrValidation, "target value must be a positive number")
		}
		updates["target_value"] = *params.TargetValue
	}
	if params.TargetDate != nil {
		if !params.TargetDate.After(time.Now()) {
			return nil, NewServiceError(ErrValidation, "target date must be in the future")
		}
		updates["target_date"] = *params.TargetDate
	}
	if params.Unit != nil {
		updates["unit"] = *params.Unit
	}
	if params.IsPublic != nil {
		updates["is_public"] = *params.IsPublic
		if *params.IsPublic && goal.ShareCode == "" {
			code, err := gonanoid.New()
			if err != nil {
				return nil, fmt.Errorf("share code generation failed: %w", err)
			}
			updates["share_code"] = code
		}
	}
	if params.Status != nil {
		switch *params.Status {
		case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusCancelled:
			updates["status"] = *params.Status
		default:
			return nil, NewServiceError(ErrValidation, "invalid status")
		}
	}

	if len(updates) == 0 {
		return nil, NewServiceError(ErrValidation, "no valid fields to update")
	}

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&goal).Updates(updates).Error; err != nil {
			return fmt.Errorf("goal update failed: %w", err)
		}

		// Recompute progress when the target changed.
		if params.TargetValue != nil && goal.CurrentValue > 0 {
			progress := ComputeProgress(goal.CurrentValue, *params.TargetValue)
			if err := tx.Model(&goal).Update("progress", progress).Error; err != nil {
				return fmt.Errorf("progress update failed: %w", err)
			}
		}

		activity := models.UserProgress{
			UserID:       user.ID,
			GoalID:       &goal.ID,
			ActivityType: models.ActivityGoalUpdated,
			Notes:        "Goal details updated",
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("activity log append failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Goal
	if err := svc.db.First(&updated, goal.ID).Error; err != nil {
		return nil, fmt.Errorf("goal reload failed: %w", err)
	}
	return &updated, nil
}

// Delete removes an owned goal together with its activity log entries in a
// single transaction, so orphaned log rows cannot survive a partial failure.
func (svc *GoalService) Delete(user *models.User, goalID uint) error {
	return svc.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", goalID, user.ID).Delete(&models.Goal{})
		if result.Error != nil {
			return fmt.Errorf("goal deletion failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return NewServiceError(ErrNotFound, "goal not found")
		}

		if err := tx.Where("goal_id = ?", goalID).Delete(&models.UserProgress{}).Error; err != nil {
			return fmt.Errorf("activity log cascade failed: %w", err)
		}
		return nil
	})
}

// Get loads an owned goal with its recent activity entries.
func (svc *GoalService) Get(user *models.User, goalID uint) (*models.Goal, []models.UserProgress, int64, error) {
	var goal models.Goal
	if err := svc.db.Where("id = ? AND user_id = ?", goalID, user.ID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, NewServiceError(ErrNotFound, "goal not found")
		}
		return nil, nil, 0, fmt.Errorf("goal lookup failed: %w", err)
	}

	var activities []models.UserProgress
	if err := svc.db.Where("goal_id = ?", goalID).
		Order("recorded_at DESC").
		Limit(50).
		Find(&activities).Error; err != nil {
		return nil, nil, 0, fmt.Errorf("activity lookup failed: %w", err)
	}

	var activityCount int64
	if err := svc.db.Model(&models.UserProgress{}).Where("goal_id = ?", goalID).Count(&activityCount).Error; err != nil {
		return nil, nil, 0, fmt.Errorf("activity count failed: %w", err)
	}

	return &goal, activities, activityCount, nil
}

var goalSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"title":       true,
	"target_date": true,
	"progress":    true,
}

// listPredicate builds the shared filter used by both the row fetch and the
// count, so the two can never drift apart.
func (svc *GoalService) listPredicate(userID uint, params ListGoalsParams) *gorm.DB {
	query := svc.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	return query
}

// List returns an owned, filtered, paginated goal page with summary stats.
func (svc *GoalService) List(user *models.User, params ListGoalsParams) (*GoalListResult, error) {
	page, limit := NormalizePage(params.Page, params.Limit, 20, 100)

	sortField := "created_at"
	if goalSortFields[params.Sort] {
		sortField = params.Sort
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		sortOrder = "ASC"
	}

	var total int64
	if err := svc.listPredicate(user.ID, params).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("goal count failed: %w", err)
	}

	var goals []models.Goal
	if err := svc.listPredicate(user.ID, params).
		Order(sortField + " " + sortOrder).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("goal list failed: %w", err)
	}

	stats := GoalListStats{Total: len(goals)}
	progressSum := 0
	for _, g := range goals {
		switch g.Status {
		case models.GoalStatusActive:
			stats.Active++
		case models.GoalStatusCompleted:
			stats.Completed++
		}
		progressSum += g.Progress
	}
	if len(goals) > 0 {
		stats.AverageProgress = int(math.Round(float64(progressSum) / float64(len(goals))))
	}

	return &GoalListResult{
		Goals:      goals,
		Statistics: stats,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// CategoryStat is a per-category/status aggregate row.
type CategoryStat struct {
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	Count          int64   `json:"count"`
	AvgProgress    float64 `json:"avg_progress"`
	CompletedCount int64   `json:"completed_count"`
}

// OverallGoalStats is the cross-goal aggregate for one user.
type OverallGoalStats struct {
	TotalGoals      int64   `json:"total_goals"`
	ActiveGoals     int64   `json:"active_goals"`
	CompletedGoals  int64   `json:"completed_goals"`
	OverallProgress float64 `json:"overall_progress"`
}

// CompletionTrendPoint is one day of the 30-day completion trend.
type CompletionTrendPoint struct {
	Date        string `json:"date"`
	Completions int64  `json:"completions"`
}

// GoalStatisticsResult is the statistics response payload.
type GoalStatisticsResult struct {
	Statistics       OverallGoalStats       `json:"statistics"`
	ByCategory       []CategoryStat         `json:"byCategory"`
	RecentActivities []models.UserProgress  `json:"recentActivities"`
	CompletionTrend  []CompletionTrendPoint `json:"completionTrend"`
}

// Statistics aggregates goal counts, per-category breakdowns, recent
// activities and the 30-day completion trend for one user.
func (svc *GoalService) Statistics(user *models.User) (*GoalStatisticsResult, error) {
	var byCategory []CategoryStat
	if err := svc.db.Model(&models.Goal{}).
		Select("category, status, COUNT(*) as count, AVG(progress) as avg_progress, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as completed_count", models.GoalStatusCompleted).
		Where("user_id = ?", user.ID).
		Group("category, status").
		Order("category, status").
		Scan(&byCategory).Error; err != nil {
		return nil, fmt.Errorf("category stats failed: %w", err)
	}

	var overall OverallGoalStats
	if err := svc.db.Model(&models.Goal{}).
		Select("COUNT(*) as total_goals, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as active_goals, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as completed_goals, "+
			"COALESCE(AVG(progress), 0) as overall_progress",
			models.GoalStatusActive, models.GoalStatusCompleted).
		Where("user_id = ?", user.ID).
		Scan(&overall).Error; err != nil {
		return nil, fmt.Errorf("overall stats failed: %w", err)
	}

	var recent []models.UserProgress
	if err := svc.db.Preload("Goal").
		Where("user_id = ?", user.ID).
		Order("recorded_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("recent activities failed: %w", err)
	}

	since := time.Now().AddDate(0, 0, -30)
	var trend []CompletionTrendPoint
	if err := svc.db.Model(&models.Goal{}).
		Select("DATE(updated_at) as date, COUNT(*) as completions").
		Where("user_id = ? AND status = ? AND updated_at >= ?", user.ID, models.GoalStatusCompleted, since).
		Group("DATE(updated_at)").
		Order("date").
		Scan(&trend).Error; err != nil {
		return nil, fmt.Errorf("completion trend failed: %w", err)
	}

	return &GoalStatisticsResult{
		Statistics:       overall,
		ByCategory:       byCategory,
		RecentActivities: recent,
		CompletionTrend:  trend,
	}, nil
}
