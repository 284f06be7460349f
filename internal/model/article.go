package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is the closed set of article sections.
type Category string

const (
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryPolitics      Category = "politics"
	CategoryBusiness      Category = "business"
	CategoryTech          Category = "tech"
	CategoryOther         Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySports, CategoryEntertainment, CategoryPolitics,
		CategoryBusiness, CategoryTech, CategoryOther:
		return true
	}
	return false
}

// MaxArticleImages caps the number of images attached to one article.
const MaxArticleImages = 5

// Article is a published news item.
type Article struct {
	ID         uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Title      string      `json:"title" gorm:"size:255;not null"`
	Content    string      `json:"content" gorm:"type:text;not null"`
	AuthorID   uuid.UUID   `json:"author_id" gorm:"type:char(36);not null;index"`
	Category   Category    `json:"category,omitempty" gorm:"type:varchar(20);index"`
	ImageURLs  []string    `json:"image_urls" gorm:"type:json;serializer:json"`
	VideoURL   string      `json:"video_url,omitempty" gorm:"size:1024"`
	CommentIDs []uuid.UUID `json:"comment_ids" gorm:"type:json;serializer:json"`
	CreatedAt  time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Relations
	Author *User `json:"-" gorm:"foreignKey:AuthorID"`
}

// BeforeCreate sets UUID and empty sequences before creating the record.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ImageURLs == nil {
		a.ImageURLs = []string{}
	}
	if a.CommentIDs == nil {
		a.CommentIDs = []uuid.UUID{}
	}
	return nil
}

// HasComment reports whether id is in the back-reference list.
func (a *Article) HasComment(id uuid.UUID) bool {
	for _, cid := range a.CommentIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// RemoveComment pulls id from the back-reference list, reporting whether it was present.
func (a *Article) RemoveComment(id uuid.UUID) bool {
	kept := a.CommentIDs[:0]
	removed := false
	for _, cid := range a.CommentIDs {
		if cid == id {
			removed = true
			continue
		}
		kept = append(kept, cid)
	}
	a.CommentIDs = kept
	return removed
}
