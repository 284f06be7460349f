package repository

import (
	"html"
	"strings"

	"gorm.io/gorm"

	"eagle/internal/model"
)

// ArticleQuery describes a filtered, paginated article listing.
type ArticleQuery struct {
	// Search matches title or content, case-insensitive substring. Titles are stored as
	// plain text and content as sanitised HTML, so content is also matched against the
	// entity-escaped form of the search text.
	Search string
	// Author matches the author's username, case-insensitive substring.
	Author   string
	Category model.Category
	Offset   int
	Limit    int
}

// Filter is a GORM scope applying the query's predicates (not its pagination).
func (q ArticleQuery) Filter(db *gorm.DB) *gorm.DB {
	if q.Search != "" {
		pattern := likePattern(q.Search)
		escaped := likePattern(html.EscapeString(q.Search))
		db = db.Where("(LOWER(articles.title) LIKE ? OR LOWER(articles.content) LIKE ? OR LOWER(articles.content) LIKE ?)",
			pattern, pattern, escaped)
	}
	if q.Author != "" {
		authors := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.User{}).
			Select("id").
			Where("LOWER(username) LIKE ?", likePattern(q.Author))
		db = db.Where("articles.author_id IN (?)", authors)
	}
	if q.Category != "" {
		db = db.Where("articles.category = ?", q.Category)
	}
	return db
}

// Paginate is a GORM scope applying newest-first ordering and the offset window.
func (q ArticleQuery) Paginate(db *gorm.DB) *gorm.DB {
	return db.Order("articles.created_at DESC").Offset(q.Offset).Limit(q.Limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lower-cases s, escapes LIKE wildcards and wraps it for substring matching.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
