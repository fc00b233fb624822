package logics

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ListContentParams holds content list filters.
type ListContentParams struct {
	ContentType string
	Category    string
	Search      string
	Featured    bool
	Page        int
	Limit       int
}

// ContentListResult is the content list response payload.
type ContentListResult struct {
	Content    []models.Content `json:"content"`
	Pagination Pagination       `json:"pagination"`
}

// ContentDetail is a single content entry plus the caller's bookmark state.
type ContentDetail struct {
	Content      models.Content `json:"content"`
	IsBookmarked bool           `json:"is_bookmarked"`
}

// SaveContentParams holds admin content creation and update input.
type SaveContentParams struct {
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	ContentType string `json:"content_type"`
	Body        string `json:"content"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	Author      string `json:"author"`
	ReadTime    int    `json:"read_time"`
	IsFeatured  *bool  `json:"is_featured"`
	IsPublished *bool  `json:"is_published"`
	Thumbnail   string `json:"thumbnail_url"`
}

var contentTypes = map[string]bool{
	"article": true,
	"recipe":  true,
	"video":   true,
}

// ContentService implements the content library and bookmarks.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

func (svc *ContentService) listQuery(params ListContentParams) *gorm.DB {
	query := svc.db.Model(&models.Content{}).Where("is_published = ?", true)
	if params.ContentType != "" {
		query = query.Where("content_type = ?", params.ContentType)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}
	return query
}

// List returns published content, newest first, with type/category/search
// filters.
func (svc *ContentService) List(params ListContentParams) (*ContentListResult, error) {
	page, limit := NormalizePage(params.Page, params.Limit, 12, 50)

	var total int64
	if err := svc.listQuery(params).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("content count failed: %w", err)
	}

	var content []models.Content
	if err := svc.listQuery(params).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&content).Error; err != nil {
		return nil, fmt.Errorf("content list failed: %w", err)
	}

	return &ContentListResult{
		Content:    content,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// Featured returns up to limit featured published entries.
func (svc *ContentService) Featured(limit int) ([]models.Content, error) {
	if limit <= 0 || limit > 20 {
		limit = 6
	}
	var content []models.Content
	if err := svc.db.Where("is_published = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&content).Error; err != nil {
		return nil, fmt.Errorf("featured content failed: %w", err)
	}
	return content, nil
}

// Search is the list query with a required search term.
func (svc *ContentService) Search(term string, params ListContentParams) (*ContentListResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, NewServiceError(ErrValidation, "search query is required")
	}
	params.Search = term
	return svc.List(params)
}

// Get loads one published entry, increments its view count, and records a
// content_viewed activity for authenticated callers. user may be nil.
func (svc *ContentService) Get(user *models.User, id uint) (*ContentDetail, error) {
	var content models.Content
	if err := svc.db.Where("id = ? AND is_published = ?", id, true).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(ErrNotFound, "content not found")
		}
		return nil, fmt.Errorf("content lookup failed: %w", err)
	}

	if err := svc.db.Model(&content).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return nil, fmt.Errorf("view count update failed: %w", err)
	}
	content.ViewCount++

	detail := &ContentDetail{Content: content}

	if user != nil {
		var bookmark models.Bookmark
		err := svc.db.Where("user_id = ? AND content_id = ?", user.ID, content.ID).First(&bookmark).Error
		if err == nil {
			detail.IsBookmarked = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bookmark lookup failed: %w", err)
		}

		activity := models.UserProgress{
			UserID:       user.ID,
			ActivityType: models.ActivityContentViewed,
			Notes:        "Viewed: " + content.Title,
		}
		if err := svc.db.Create(&activity).Error; err != nil {
			return nil, fmt.Errorf("activity log append failed: %w", err)
		}
	}

	return detail, nil
}

// Bookmark saves a published entry for the user. Duplicate bookmarks are a
// conflict.
func (svc *ContentService) Bookmark(user *models.User, contentID uint) error {
	var content models.Content
	if err := svc.db.Where("id = ? AND is_published = ?", contentID, true).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewServiceError(ErrNotFound, "content not found")
		}
		return fmt.Errorf("content lookup failed: %w", err)
	}

	var existing models.Bookmark
	err := svc.db.Where("user_id = ? AND content_id = ?", user.ID, contentID).First(&existing).Error
	if err == nil {
		return NewServiceError(ErrConflict, "content is already bookmarked")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("bookmark lookup failed: %w", err)
	}

	bookmark := models.Bookmark{UserID: user.ID, ContentID: contentID}
	if err := svc.db.Create(&bookmark).Error; err != nil {
		return fmt.Errorf("bookmark creation failed: %w", err)
	}
	return nil
}

// Unbookmark removes the user's bookmark for a content entry.
func (svc *ContentService) Unbookmark(user *models.User, contentID uint) error {
	result := svc.db.Where("user_id = ? AND content_id = ?", user.ID, contentID).Delete(&models.Bookmark{})
	if result.Error != nil {
		return fmt.Errorf("bookmark deletion failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewServiceError(ErrNotFound, "bookmark not found")
	}
	return nil
}

// Bookmarks returns the user's bookmarked entries, newest bookmark first.
func (svc *ContentService) Bookmarks(user *models.User, page, limit int) (*ContentListResult, error) {
	page, limit = NormalizePage(page, limit, 12, 50)

	base := svc.db.Model(&models.Bookmark{}).Where("user_id = ?", user.ID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("bookmark count failed: %w", err)
	}

	var bookmarks []models.Bookmark
	if err := svc.db.Preload("Content").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&bookmarks).Error; err != nil {
		return nil, fmt.Errorf("bookmark list failed: %w", err)
	}

	content := make([]models.Content, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.Content != nil {
			content = append(content, *b.Content)
		}
	}

	return &ContentListResult{
		Content:    content,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// uniqueSlug derives the slug from the title and appends a short random
// suffix when the base slug is already taken.
func (svc *ContentService) uniqueSlug(title string, excludeID uint) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", NewServiceError(ErrValidation, "title must contain letters or digits")
	}

	var existing models.Content
	query := svc.db.Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return slug, nil
	}
	if err != nil {
		return "", fmt.Errorf("slug lookup failed: %w", err)
	}

	suffix, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 6)
	if err != nil {
		return "", fmt.Errorf("slug suffix generation failed: %w", err)
	}
	return slug + "-" + suffix, nil
}

// Create persists a new content entry. Admin only, enforced by the caller.
func (svc *ContentService) Create(params SaveContentParams) (*models.Content, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, NewServiceError(ErrValidation, "title is required")
	}
	if !contentTypes[params.ContentType] {
		return nil, NewServiceError(ErrValidation, "content type must be article, recipe or video")
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, NewServiceError(ErrValidation, "content body is required")
	}

	slug, err := svc.uniqueSlug(title, 0)
	if err != nil {
		return nil, err
	}

	content := models.Content{
		Title:       title,
		Slug:        slug,
		Excerpt:     params.Excerpt,
		ContentType: params.ContentType,
		Body:        params.Body,
		Category:    params.Category,
		Tags:        params.Tags,
		Author:      params.Author,
		ReadTime:    params.ReadTime,
		Thumbnail:   params.Thumbnail,
		IsPublished: true,
	}
	if content.Author == "" {
		content.Author = "Admin"
	}
	if content.ReadTime <= 0 {
		content.ReadTime = 5
	}
	if params.IsFeatured != nil {
		content.IsFeatured = *params.IsFeatured
	}
	if params.IsPublished != nil {
		content.IsPublished = *params.IsPublished
	}

	if err := svc.db.Create(&content).Error; err != nil {
		return nil, fmt.Errorf("content creation failed: %w", err)
	}
	return &content, nil
}

// Update modifies an existing entry. A changed title regenerates the slug.
func (svc *ContentService) Update(id uint, params SaveContentParams) (*models.Content, error) {
	var content models.Content
	if err := svc.db.First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(ErrNotFound, "content not found")
		}
		return nil, fmt.Errorf("content lookup failed: %w", err)
	}

	updates := map[string]interface{}{}

	if title := strings.TrimSpace(params.Title); title != "" && title != content.Title {
		slug, err := svc.uniqueSlug(title, content.ID)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
		updates["slug"] = slug
	}
	if params.ContentType != "" {
		if !contentTypes[params.ContentType] {
			return nil, NewServiceError(ErrValidation, "content type must be article, recipe or video")
		}
		updates["content_type"] = params.ContentType
	}
	if params.Excerpt != "" {
		updates["excerpt"] = params.Excerpt
	}
	if params.Body != "" {
		updates["body"] = params.Body
	}
	if params.Category != "" {
		updates["category"] = params.Category
	}
	if params.Tags != "" {
		updates["tags"] = params.Tags
	}
	if params.Author != "" {
		updates["author"] = params.Author
	}
	if params.ReadTime > 0 {
		updates["read_time"] = params.ReadTime
	}
	if params.Thumbnail != "" {
		updates["thumbnail"] = params.Thumbnail
	}
	if params.IsFeatured != nil {
		updates["is_featured"] = *params.IsFeatured
	}
	if params.IsPublished != nil {
		updates["is_published"] = *params.IsPublished
	}

	if len(updates) == 0 {
		return nil, NewServiceError(ErrValidation, "no valid fields to update")
	}

	if err := svc.db.Model(&content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("content update failed: %w", err)
	}

	var updated models.Content
	if err := svc.db.First(&updated, content.ID).Error; err != nil {
		return nil, fmt.Errorf("content reload failed: %w", err)
	}
	return &updated, nil
}

// Delete removes a content entry and every bookmark pointing at it, in one
// transaction.
func (svc *ContentService) Delete(id uint) error {
	return svc.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Content{}, id)
		if result.Error != nil {
			return fmt.Errorf("content deletion failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return NewServiceError(ErrNotFound, "content not found")
		}

		if err := tx.Where("content_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return fmt.Errorf("bookmark cascade failed: %w", err)
		}
		return nil
	})
}
