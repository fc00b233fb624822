package logics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"gorm.io/gorm"
)

// AdminUserStats is the platform-wide user rollup.
type AdminUserStats struct {
	TotalUsers    int64 `json:"total_users"`
	AdminUsers    int64 `json:"admin_users"`
	VerifiedUsers int64 `json:"verified_users"`
}

// AdminGoalStats is the platform-wide goal rollup.
type AdminGoalStats struct {
	TotalGoals     int64   `json:"total_goals"`
	CompletedGoals int64   `json:"completed_goals"`
	AvgProgress    float64 `json:"avg_progress"`
	ActiveUsers    int64   `json:"active_users"`
}

// AdminConsultStats is the platform-wide consultation rollup.
type AdminConsultStats struct {
	TotalConsultations     int64 `json:"total_consultations"`
	CompletedConsultations int64 `json:"completed_consultations"`
	PendingConsultations   int64 `json:"pending_consultations"`
}

// AdminContentStats is the platform-wide published-content rollup.
type AdminContentStats struct {
	TotalContent    int64   `json:"total_content"`
	FeaturedContent int64   `json:"featured_content"`
	TotalViews      int64   `json:"total_views"`
	AvgReadTime     float64 `json:"avg_read_time"`
}

// AdminStatsResult is the admin statistics payload.
type AdminStatsResult struct {
	Users         AdminUserStats    `json:"users"`
	Goals         AdminGoalStats    `json:"goals"`
	Consultations AdminConsultStats `json:"consultations"`
	Content       AdminContentStats `json:"content"`
	RecentSignups []models.User     `json:"recentSignups"`
}

// AdminUserRow is one user in the admin list, with per-user counts.
type AdminUserRow struct {
	models.User
	GoalCount         int64 `json:"goal_count"`
	ConsultationCount int64 `json:"consultation_count"`
}

// AdminUserListResult is the admin user list payload.
type AdminUserListResult struct {
	Users      []AdminUserRow `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// UpdateUserStatusParams holds an admin user-status change.
type UpdateUserStatusParams struct {
	IsAdmin       *bool `json:"is_admin"`
	EmailVerified *bool `json:"email_verified"`
}

// AdminService implements platform administration views.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Stats aggregates user, goal, consultation and content totals plus the
// five most recent signups.
func (svc *AdminService) Stats() (*AdminStatsResult, error) {
	result := &AdminStatsResult{}

	if err := svc.db.Model(&models.User{}).
		Select("COUNT(*) as total_users, "+
			"SUM(CASE WHEN is_admin THEN 1 ELSE 0 END) as admin_users, "+
			"SUM(CASE WHEN email_verified THEN 1 ELSE 0 END) as verified_users").
		Scan(&result.Users).Error; err != nil {
		return nil, fmt.Errorf("user stats failed: %w", err)
	}

	if err := svc.db.Model(&models.Goal{}).
		Select("COUNT(*) as total_goals, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as completed_goals, "+
			"COALESCE(AVG(progress), 0) as avg_progress, "+
			"COUNT(DISTINCT user_id) as active_users", models.GoalStatusCompleted).
		Scan(&result.Goals).Error; err != nil {
		return nil, fmt.Errorf("goal stats failed: %w", err)
	}

	if err := svc.db.Model(&models.Consultation{}).
		Select("COUNT(*) as total_consultations, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as completed_consultations, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as pending_consultations",
			models.ConsultationStatusCompleted, models.ConsultationStatusPending).
		Scan(&result.Consultations).Error; err != nil {
		return nil, fmt.Errorf("consultation stats failed: %w", err)
	}

	if err := svc.db.Model(&models.Content{}).
		Select("COUNT(*) as total_content, "+
			"SUM(CASE WHEN is_featured THEN 1 ELSE 0 END) as featured_content, "+
			"COALESCE(SUM(view_count), 0) as total_views, "+
			"COALESCE(AVG(read_time), 0) as avg_read_time").
		Where("is_published = ?", true).
		Scan(&result.Content).Error; err != nil {
		return nil, fmt.Errorf("content stats failed: %w", err)
	}

	if err := svc.db.Select("id, username, email, created_at").
		Order("created_at DESC").
		Limit(5).
		Find(&result.RecentSignups).Error; err != nil {
		return nil, fmt.Errorf("recent signups failed: %w", err)
	}

	return result, nil
}

// ListUsers returns the user list with optional username/email search and
// per-user goal and consultation counts.
func (svc *AdminService) ListUsers(search string, page, limit int) (*AdminUserListResult, error) {
	page, limit = NormalizePage(page, limit, 20, 100)

	query := svc.db.Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("user count failed: %w", err)
	}

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user list failed: %w", err)
	}

	rows := make([]AdminUserRow, 0, len(users))
	for _, u := range users {
		row := AdminUserRow{User: u}
		if err := svc.db.Model(&models.Goal{}).Where("user_id = ?", u.ID).Count(&row.GoalCount).Error; err != nil {
			return nil, fmt.Errorf("goal count failed: %w", err)
		}
		if err := svc.db.Model(&models.Consultation{}).Where("user_id = ?", u.ID).Count(&row.ConsultationCount).Error; err != nil {
			return nil, fmt.Errorf("consultation count failed: %w", err)
		}
		rows = append(rows, row)
	}

	return &AdminUserListResult{
		Users:      rows,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// UpdateUserStatus changes another user's admin or verification flags. An
// administrator cannot change their own flags.
func (svc *AdminService) UpdateUserStatus(actor *models.User, targetID uint, params UpdateUserStatusParams) error {
	if targetID == actor.ID {
		return NewServiceError(ErrValidation, "cannot modify your own admin status")
	}

	updates := map[string]interface{}{}
	if params.IsAdmin != nil {
		updates["is_admin"] = *params.IsAdmin
	}
	if params.EmailVerified != nil {
		updates["email_verified"] = *params.EmailVerified
	}
	if len(updates) == 0 {
		return NewServiceError(ErrValidation, "no valid fields to update")
	}

	var target models.User
	if err := svc.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewServiceError(ErrNotFound, "user not found")
		}
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if err := svc.db.Model(&target).Updates(updates).Error; err != nil {
		return fmt.Errorf("user update failed: %w", err)
	}
	return nil
}
