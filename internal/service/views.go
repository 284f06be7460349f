package service

import (
	"time"

	"github.com/google/uuid"

	"eagle/internal/model"
)

// CommentView is a comment as embedded in article responses.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleView is an article with its author name and comments resolved.
type ArticleView struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	AuthorID  uuid.UUID      `json:"author_id"`
	Author    string         `json:"author"`
	Category  model.Category `json:"category,omitempty"`
	ImageURLs []string       `json:"image_urls"`
	VideoURL  string         `json:"video_url,omitempty"`
	Comments  []CommentView  `json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ArticlePage is one page of an article listing.
type ArticlePage struct {
	Items []ArticleView `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

func newCommentView(c *model.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		Author:    c.Username,
		CreatedAt: c.CreatedAt,
	}
}

// newArticleView joins the article with comments, ordered as in its CommentIDs.
// Ids with no matching comment are skipped.
func newArticleView(a *model.Article, comments map[uuid.UUID]*model.Comment) ArticleView {
	view := ArticleView{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		AuthorID:  a.AuthorID,
		Category:  a.Category,
		ImageURLs: a.ImageURLs,
		VideoURL:  a.VideoURL,
		Comments:  make([]CommentView, 0, len(a.CommentIDs)),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if view.ImageURLs == nil {
		view.ImageURLs = []string{}
	}
	if a.Author != nil {
		view.Author = a.Author.Username
	}
	for _, id := range a.CommentIDs {
		if c, ok := comments[id]; ok && c.ArticleID == a.ID {
			view.Comments = append(view.Comments, newCommentView(c))
		}
	}
	return view
}

func indexComments(comments []model.Comment) map[uuid.UUID]*model.Comment {
	index := make(map[uuid.UUID]*model.Comment, len(comments))
	for i := range comments {
		index[comments[i].ID] = &comments[i]
	}
	return index
}
