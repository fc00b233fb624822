package logics

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateConsultationParams holds a booking request. Guests may book without
// an account, so no user is required here.
type CreateConsultationParams struct {
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	ConsultationType string     `json:"consultation_type"`
	PreferredDate    *time.Time `json:"preferred_date"`
	PreferredTime    string     `json:"preferred_time"`
	DurationMin      int        `json:"duration"`
	Notes            string     `json:"notes"`
}

// UpdateConsultationParams holds a partial consultation update.
type UpdateConsultationParams struct {
	ConsultationType *string    `json:"consultation_type"`
	PreferredDate    *time.Time `json:"preferred_date"`
	PreferredTime    *string    `json:"preferred_time"`
	Notes            *string    `json:"notes"`
	Status           *string    `json:"status"`
}

// ListConsultationsParams holds list filters for the admin view.
type ListConsultationsParams struct {
	Status string
	Date   *time.Time
	Page   int
	Limit  int
}

// ConsultationListResult is the consultation list response payload.
type ConsultationListResult struct {
	Consultations []models.Consultation `json:"consultations"`
	Pagination    Pagination            `json:"pagination"`
}

// ConsultService implements consultation booking and management.
type ConsultService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewConsultService(db *gorm.DB, notifier *Notifier) *ConsultService {
	return &ConsultService{db: db, notifier: notifier}
}

// Create books a consultation. user may be nil for guest bookings. The same
// email cannot hold two non-cancelled bookings on one calendar day.
func (svc *ConsultService) Create(user *models.User, params CreateConsultationParams) (*models.Consultation, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if name == "" {
		return nil, NewServiceError(ErrValidation, "name is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, NewServiceError(ErrValidation, "valid email is required")
	}
	if params.PreferredDate == nil {
		return nil, NewServiceError(ErrValidation, "preferred date is required")
	}
	dayStart := params.PreferredDate.Truncate(24 * time.Hour)
	if dayStart.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, NewServiceError(ErrValidation, "preferred date cannot be in the past")
	}

	// One pending or confirmed booking per email per day.
	var existing models.Consultation
	err := svc.db.Where("email = ? AND preferred_date >= ? AND preferred_date < ? AND status IN ?",
		email, dayStart, dayStart.Add(24*time.Hour),
		[]string{models.ConsultationStatusPending, models.ConsultationStatusConfirmed}).
		First(&existing).Error
	if err == nil {
		return nil, NewServiceError(ErrConflict, "you already have a consultation booked for this date")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("consultation lookup failed: %w", err)
	}

	consultation := models.Consultation{
		Reference:        uuid.NewString(),
		Name:             name,
		Email:            email,
		Phone:            strings.TrimSpace(params.Phone),
		ConsultationType: params.ConsultationType,
		PreferredDate:    dayStart,
		PreferredTime:    params.PreferredTime,
		DurationMin:      params.DurationMin,
		Notes:            params.Notes,
		Status:           models.ConsultationStatusPending,
	}
	if consultation.ConsultationType == "" {
		consultation.ConsultationType = "general"
	}
	if consultation.PreferredTime == "" {
		consultation.PreferredTime = "09:00"
	}
	if consultation.DurationMin <= 0 {
		consultation.DurationMin = 60
	}
	if user != nil {
		consultation.UserID = &user.ID
	}

	if err := svc.db.Create(&consultation).Error; err != nil {
		return nil, fmt.Errorf("consultation creation failed: %w", err)
	}

	if svc.notifier != nil {
		svc.notifier.NotifyConsultationBooked(
			consultation.Email,
			consultation.Name,
			consultation.PreferredDate.Format("Monday, January 2, 2006"),
			consultation.PreferredTime,
			consultation.ConsultationType,
			consultation.DurationMin,
		)
	}

	return &consultation, nil
}

// List returns the caller's own consultations, newest preferred date first.
func (svc *ConsultService) List(user *models.User, params ListConsultationsParams) (*ConsultationListResult, error) {
	page, limit := NormalizePage(params.Page, params.Limit, 20, 100)

	query := svc.db.Model(&models.Consultation{}).Where("user_id = ?", user.ID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("consultation count failed: %w", err)
	}

	var consultations []models.Consultation
	if err := query.
		Order("preferred_date DESC, preferred_time DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&consultations).Error; err != nil {
		return nil, fmt.Errorf("consultation list failed: %w", err)
	}

	return &ConsultationListResult{
		Consultations: consultations,
		Pagination:    NewPagination(total, page, limit),
	}, nil
}

func (svc *ConsultService) loadOwned(user *models.User, id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	query := svc.db.Where("id = ?", id)
	if !user.IsAdmin {
		query = query.Where("user_id = ?", user.ID)
	}
	if err := query.First(&consultation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(ErrNotFound, "consultation not found")
		}
		return nil, fmt.Errorf("consultation lookup failed: %w", err)
	}
	return &consultation, nil
}

// Get loads one consultation. Admins can read any booking, other users only
// their own.
func (svc *ConsultService) Get(user *models.User, id uint) (*models.Consultation, error) {
	return svc.loadOwned(user, id)
}

// Update modifies a pending or confirmed consultation. Status changes are
// admin-only.
func (svc *ConsultService) Update(user *models.User, id uint, params UpdateConsultationParams) (*models.Consultation, error) {
	consultation, err := svc.loadOwned(user, id)
	if err != nil {
		return nil, err
	}

	if consultation.Status == models.ConsultationStatusCompleted ||
		consultation.Status == models.ConsultationStatusCancelled {
		return nil, NewServiceError(ErrValidation, "completed or cancelled consultations cannot be updated")
	}

	updates := map[string]interface{}{}

	if params.ConsultationType != nil {
		updates["consultation_type"] = *params.ConsultationType
	}
	if params.PreferredDate != nil {
		dayStart := params.PreferredDate.Truncate(24 * time.Hour)
		if dayStart.Before(time.Now().Truncate(24 * time.Hour)) {
			return nil, NewServiceError(ErrValidation, "preferred date cannot be in the past")
		}
		updates["preferred_date"] = dayStart
	}
	if params.PreferredTime != nil {
		updates["preferred_time"] = *params.PreferredTime
	}
	if params.Notes != nil {
		updates["notes"] = *params.Notes
	}
	if params.Status != nil {
		if !user.IsAdmin {
			return nil, NewServiceError(ErrForbidden, "only administrators can change the status")
		}
		switch *params.Status {
		case models.ConsultationStatusPending, models.ConsultationStatusConfirmed,
			models.ConsultationStatusCompleted, models.ConsultationStatusCancelled:
			updates["status"] = *params.Status
		default:
			return nil, NewServiceError(ErrValidation, "invalid status")
		}
	}

	if len(updates) == 0 {
		return nil, NewServiceError(ErrValidation, "no valid fields to update")
	}

	if err := svc.db.Model(consultation).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("consultation update failed: %w", err)
	}

	var updated models.Consultation
	if err := svc.db.First(&updated, consultation.ID).Error; err != nil {
		return nil, fmt.Errorf("consultation reload failed: %w", err)
	}
	return &updated, nil
}

// Cancel marks an owned consultation as cancelled.
func (svc *ConsultService) Cancel(user *models.User, id uint) (*models.Consultation, error) {
	consultation, err := svc.loadOwned(user, id)
	if err != nil {
		return nil, err
	}

	if consultation.Status == models.ConsultationStatusCancelled {
		return nil, NewServiceError(ErrValidation, "consultation is already cancelled")
	}
	if consultation.Status == models.ConsultationStatusCompleted {
		return nil, NewServiceError(ErrValidation, "completed consultations cannot be cancelled")
	}

	if err := svc.db.Model(consultation).Update("status", models.ConsultationStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("consultation cancel failed: %w", err)
	}
	consultation.Status = models.ConsultationStatusCancelled
	return consultation, nil
}

// ListAll returns every consultation newest first, with status and date
// filters. Admin view.
func (svc *ConsultService) ListAll(params ListConsultationsParams) (*ConsultationListResult, error) {
	page, limit := NormalizePage(params.Page, params.Limit, 20, 100)

	query := svc.db.Model(&models.Consultation{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Date != nil {
		dayStart := params.Date.Truncate(24 * time.Hour)
		query = query.Where("preferred_date >= ? AND preferred_date < ?", dayStart, dayStart.Add(24*time.Hour))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("consultation count failed: %w", err)
	}

	var consultations []models.Consultation
	if err := query.Preload("User").
		Order("preferred_date DESC, preferred_time DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&consultations).Error; err != nil {
		return nil, fmt.Errorf("consultation list failed: %w", err)
	}

	return &ConsultationListResult{
		Consultations: consultations,
		Pagination:    NewPagination(total, page, limit),
	}, nil
}
