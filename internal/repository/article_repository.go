package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eagle/internal/model"
)

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error)
	List(ctx context.Context, q ArticleQuery) ([]model.Article, int64, error)
	// Delete removes the article and every comment that belongs to it.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func selectAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

// Create creates a new article.
func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(article).Error; err != nil {
		return fmt.Errorf("gorm: create article: %w", err)
	}
	return nil
}

// Update writes the editable columns. comment_ids is left alone so that concurrent
// comment writes are never overwritten by a stale copy.
func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	res := r.db.WithContext(ctx).Model(article).
		Select("title", "content", "category", "image_urls", "video_url", "updated_at").
		Updates(article)
	if res.Error != nil {
		return fmt.Errorf("gorm: update article %s: %w", article.ID, res.Error)
	}
	return nil
}

// FindByID finds an article by ID with its author loaded.
func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	var article model.Article
	err := r.db.WithContext(ctx).
		Preload("Author", selectAuthor).
		Where("id = ?", id).
		First(&article).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find article by id %s: %w", id, err)
	}
	return &article, nil
}

// List returns one page of matching articles and the total number of matches.
func (r *articleRepository) List(ctx context.Context, q ArticleQuery) ([]model.Article, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Article{}).Scopes(q.Filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gorm: count articles: %w", err)
	}

	articles := []model.Article{}
	if total == 0 {
		return articles, 0, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(q.Filter, q.Paginate).
		Preload("Author", selectAuthor).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: list articles: %w", err)
	}
	return articles, total, nil
}

// Delete removes the article and its comments in one transaction, returning how many
// comments were removed.
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := lockArticle(tx, id, &article); err != nil {
			return err
		}
		res := tx.Where("article_id = ?", id).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Delete(&article).Error
	})
	if err != nil {
		return 0, fmt.Errorf("gorm: delete article %s: %w", id, err)
	}
	return removed, nil
}
