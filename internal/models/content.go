package models

import (
	"time"
)

// Content is a published article, recipe or video entry.
type Content struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"size:250;not null" json:"title"`
	Slug        string `gorm:"size:280;uniqueIndex" json:"slug"`
	Excerpt     string `gorm:"size:500" json:"excerpt,omitempty"`
	ContentType string `gorm:"size:50;not null" json:"content_type"` // article, recipe, video
	Body        string `gorm:"type:text;not null" json:"content"`
	Category    string `gorm:"size:50;index" json:"category,omitempty"`
	Tags        string `gorm:"size:500" json:"tags,omitempty"` // JSON-encoded string list
	Author      string `gorm:"size:100;default:'Admin'" json:"author"`
	ReadTime    int    `gorm:"default:5" json:"read_time"` // Minutes
	IsFeatured  bool   `gorm:"default:false;index" json:"is_featured"`
	IsPublished bool   `gorm:"default:true;index" json:"is_published"`
	ViewCount   int    `gorm:"default:0" json:"view_count"`
	Thumbnail   string `gorm:"size:500" json:"thumbnail_url,omitempty"`

	// Standard metadata fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Bookmarks []Bookmark `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"bookmarks,omitempty"`
}
