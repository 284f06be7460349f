package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eagle/internal/model"
)

// CommentRepository defines comment persistence operations. Writes that touch the
// parent article's back-reference list run in a single transaction.
type CommentRepository interface {
	// CreateForArticle inserts the comment and appends its id to the parent article.
	// It returns gorm.ErrRecordNotFound (wrapped) when the article does not exist.
	CreateForArticle(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]model.Comment, error)
	ListByArticles(ctx context.Context, articleIDs []uuid.UUID) ([]model.Comment, error)
	UpdateContent(ctx context.Context, comment *model.Comment) error
	// Delete removes the comment and pulls its id from the parent article.
	Delete(ctx context.Context, comment *model.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// lockArticle loads the article row with a write lock held until the transaction ends.
func lockArticle(tx *gorm.DB, id uuid.UUID, article *model.Article) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(article).Error
}

func saveCommentRefs(tx *gorm.DB, article *model.Article) error {
	return tx.Model(article).Select("comment_ids").UpdateColumns(article).Error
}

func (r *commentRepository) CreateForArticle(ctx context.Context, comment *model.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := lockArticle(tx, comment.ArticleID, &article); err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		article.CommentIDs = append(article.CommentIDs, comment.ID)
		return saveCommentRefs(tx, &article)
	})
	if err != nil {
		return fmt.Errorf("gorm: create comment on article %s: %w", comment.ArticleID, err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, fmt.Errorf("gorm: find comment by id %s: %w", id, err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list comments for article %s: %w", articleID, err)
	}
	return comments, nil
}

func (r *commentRepository) ListByArticles(ctx context.Context, articleIDs []uuid.UUID) ([]model.Comment, error) {
	comments := []model.Comment{}
	if len(articleIDs) == 0 {
		return comments, nil
	}
	if err := r.db.WithContext(ctx).Where("article_id IN ?", articleIDs).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("gorm: list comments for %d articles: %w", len(articleIDs), err)
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *model.Comment) error {
	err := r.db.WithContext(ctx).Model(comment).
		Select("content", "updated_at").
		Updates(comment).Error
	if err != nil {
		return fmt.Errorf("gorm: update comment %s: %w", comment.ID, err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, comment *model.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		err := lockArticle(tx, comment.ArticleID, &article)
		switch {
		case err == nil:
			if article.RemoveComment(comment.ID) {
				if err := saveCommentRefs(tx, &article); err != nil {
					return err
				}
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Delete(&model.Comment{}, "id = ?", comment.ID).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete comment %s: %w", comment.ID, err)
	}
	return nil
}
