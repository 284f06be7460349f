package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eagle/internal/model"
)

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	ArticlesScanned  int   `json:"articles_scanned"`
	ArticlesRepaired int   `json:"articles_repaired"`
	RefsPruned       int   `json:"refs_pruned"`
	RefsAdded        int   `json:"refs_added"`
	OrphansDeleted   int64 `json:"orphans_deleted"`
}

// ReconcileRepository repairs the Article.CommentIDs / Comment.ArticleID pair.
type ReconcileRepository interface {
	Reconcile(ctx context.Context) (ReconcileReport, error)
}

type reconcileRepository struct {
	db *gorm.DB
}

// NewReconcileRepository creates a new reconciliation repository.
func NewReconcileRepository(db *gorm.DB) ReconcileRepository {
	return &reconcileRepository{db: db}
}

// Reconcile deletes comments whose article is gone, then makes every article's
// back-reference list match the comments that actually point at it.
func (r *reconcileRepository) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	db := r.db.WithContext(ctx)

	res := db.Where("article_id NOT IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&model.Article{}).Select("id")).
		Delete(&model.Comment{})
	if res.Error != nil {
		return report, fmt.Errorf("gorm: delete orphan comments: %w", res.Error)
	}
	report.OrphansDeleted = res.RowsAffected

	var ids []uuid.UUID
	if err := db.Model(&model.Article{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return report, fmt.Errorf("gorm: scan article ids: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pruned, added, err := r.repairArticle(ctx, id)
		if err != nil {
			return report, err
		}
		report.ArticlesScanned++
		if pruned > 0 || added > 0 {
			report.ArticlesRepaired++
			report.RefsPruned += pruned
			report.RefsAdded += added
		}
	}
	return report, nil
}

func (r *reconcileRepository) repairArticle(ctx context.Context, id uuid.UUID) (pruned, added int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := lockArticle(tx, id, &article); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var actual []uuid.UUID
		if err := tx.Model(&model.Comment{}).
			Where("article_id = ?", id).
			Order("created_at ASC").
			Pluck("id", &actual).Error; err != nil {
			return err
		}

		var next []uuid.UUID
		next, pruned, added = reconcileRefs(article.CommentIDs, actual)
		if pruned == 0 && added == 0 {
			return nil
		}
		article.CommentIDs = next
		return saveCommentRefs(tx, &article)
	})
	if err != nil {
		return 0, 0, fmt.Errorf("gorm: repair article %s: %w", id, err)
	}
	return pruned, added, nil
}

// reconcileRefs keeps the ids of current that appear in actual (in their existing order,
// without duplicates) and appends ids from actual that current is missing.
func reconcileRefs(current, actual []uuid.UUID) (next []uuid.UUID, pruned, added int) {
	exists := make(map[uuid.UUID]bool, len(actual))
	for _, id := range actual {
		exists[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(current))
	next = make([]uuid.UUID, 0, len(actual))
	for _, id := range current {
		if !exists[id] || seen[id] {
			pruned++
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	for _, id := range actual {
		if !seen[id] {
			seen[id] = true
			next = append(next, id)
			added++
		}
	}
	return next, pruned, added
}
