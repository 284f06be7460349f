package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousUsername is the display name given to anonymous commenters who omit one.
const AnonymousUsername = "Anonymous Reader"

// Comment is a reader comment on an article. AuthorID is nil for anonymous comments,
// which are then identified by Username and Email.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	ArticleID uuid.UUID  `json:"article_id" gorm:"type:char(36);not null;index"`
	AuthorID  *uuid.UUID `json:"author_id" gorm:"type:char(36);index"`
	Username  string     `json:"username" gorm:"size:100;not null"`
	Email     string     `json:"-" gorm:"size:255"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentOwner identifies who owns a comment: AuthoredBy or Anonymous.
type CommentOwner interface {
	isCommentOwner()
}

// AuthoredBy owns comments written by a signed-in user.
type AuthoredBy struct {
	UserID uuid.UUID
}

// Anonymous owns comments written without an account.
type Anonymous struct {
	Username string
	Email    string
}

func (AuthoredBy) isCommentOwner() {}
func (Anonymous) isCommentOwner()  {}

// Owner returns the tagged ownership of the comment.
func (c *Comment) Owner() CommentOwner {
	if c.AuthorID != nil {
		return AuthoredBy{UserID: *c.AuthorID}
	}
	return Anonymous{Username: c.Username, Email: c.Email}
}
