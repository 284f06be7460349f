package service

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "eagle/internal/errors"
	"eagle/internal/media"
	"eagle/internal/model"
	"eagle/internal/repository"
	"eagle/internal/sanitize"
)

const testPlaceholder = "https://cdn.example.com/placeholder.jpg"

type articleFixture struct {
	service  ArticleService
	articles *MockArticleRepository
	comments *MockCommentRepository
	media    *MockMediaStore
}

func newArticleFixture(placeholder string) *articleFixture {
	f := &articleFixture{
		articles: new(MockArticleRepository),
		comments: new(MockCommentRepository),
		media:    new(MockMediaStore),
	}
	f.service = NewArticleService(f.articles, f.comments, f.media, sanitize.New(), placeholder, zerolog.Nop())
	return f
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"2", "5", 2, 5},
		{"abc", "xyz", 1, 10},
		{"0", "-3", 1, 10},
		{"3", "1000", 3, 100},
		{"9223372036854775807", "10", math.MaxInt / 10, 10},
		{"99999999999999999999", "10", 1, 10},
	}

	for _, tt := range tests {
		page, limit := ParsePagination(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page, "page=%q", tt.page)
		assert.Equal(t, tt.wantLimit, limit, "limit=%q", tt.limit)
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 3, pageCount(12, 5))
}

func TestArticleService_ListArticles(t *testing.T) {
	f := newArticleFixture("")
	author := &model.User{ID: uuid.New(), Username: "Jane Doe"}
	a1 := model.Article{ID: uuid.New(), Title: "t1", AuthorID: author.ID, Author: author}
	c1, c2 := uuid.New(), uuid.New()
	a1.CommentIDs = []uuid.UUID{c2, uuid.New(), c1}

	f.articles.On("List", mock.Anything, repository.ArticleQuery{
		Search: "storm", Author: "jane", Category: model.CategoryTech, Offset: 5, Limit: 5,
	}).Return([]model.Article{a1}, int64(12), nil)
	f.comments.On("ListByArticles", mock.Anything, []uuid.UUID{a1.ID}).Return([]model.Comment{
		{ID: c1, ArticleID: a1.ID, Content: "first", Username: "bob"},
		{ID: c2, ArticleID: a1.ID, Content: "second", Username: model.AnonymousUsername},
	}, nil)

	page, err := f.service.ListArticles(context.Background(), ArticleFilter{
		Search: "storm", Author: "jane", Category: "tech", Page: 2, Limit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, "Jane Doe", item.Author)
	require.Len(t, item.Comments, 2)
	assert.Equal(t, "second", item.Comments[0].Content)
	assert.Equal(t, model.AnonymousUsername, item.Comments[0].Author)
	assert.Equal(t, "first", item.Comments[1].Content)
}

func TestArticleService_ListArticlesHugePageDoesNotOverflow(t *testing.T) {
	f := newArticleFixture("")
	f.articles.On("List", mock.Anything, mock.MatchedBy(func(q repository.ArticleQuery) bool {
		return q.Offset >= 0 && q.Limit == 100
	})).Return([]model.Article{}, int64(3), nil)
	f.comments.On("ListByArticles", mock.Anything, mock.Anything).Return([]model.Comment{}, nil)

	page, err := f.service.ListArticles(context.Background(), ArticleFilter{Page: math.MaxInt, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	f.articles.AssertExpectations(t)
}

func TestArticleService_ListArticlesUnknownCategory(t *testing.T) {
	f := newArticleFixture("")
	_, err := f.service.ListArticles(context.Background(), ArticleFilter{Category: "weather"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.articles.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestArticleService_CreateArticle(t *testing.T) {
	contributor := &model.User{ID: uuid.New(), Username: "Jane", Role: model.RoleContributor}

	t.Run("placeholder when no images", func(t *testing.T) {
		f := newArticleFixture(testPlaceholder)
		f.articles.On("Create", mock.Anything, mock.AnythingOfType("*model.Article")).Return(nil)

		view, err := f.service.CreateArticle(context.Background(), contributor, ArticleInput{
			Title: "Storm warning", Content: "<p>Heavy rain</p>", Category: "other",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{testPlaceholder}, view.ImageURLs)
		assert.Equal(t, "Jane", view.Author)
		assert.Equal(t, contributor.ID, view.AuthorID)
		assert.Empty(t, view.Comments)
	})

	t.Run("no placeholder when disabled", func(t *testing.T) {
		f := newArticleFixture("")
		f.articles.On("Create", mock.Anything, mock.AnythingOfType("*model.Article")).Return(nil)

		view, err := f.service.CreateArticle(context.Background(), contributor, ArticleInput{Title: "t", Content: "c"})
		require.NoError(t, err)
		assert.Empty(t, view.ImageURLs)
	})

	t.Run("stores uploads", func(t *testing.T) {
		f := newArticleFixture(testPlaceholder)
		f.media.On("Save", mock.Anything, media.KindImage, "a.png").Return("/uploads/images/a.png", nil)
		f.media.On("Save", mock.Anything, media.KindVideo, "clip.mp4").Return("/uploads/videos/clip.mp4", nil)
		f.articles.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Article) bool {
			return a.VideoURL == "/uploads/videos/clip.mp4" && len(a.ImageURLs) == 1
		})).Return(nil)

		view, err := f.service.CreateArticle(context.Background(), contributor, ArticleInput{
			Title:   "t",
			Content: "c",
			Images:  []Upload{{Filename: "a.png", Content: strings.NewReader("img")}},
			Video:   &Upload{Filename: "clip.mp4", Content: strings.NewReader("vid")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/images/a.png"}, view.ImageURLs)
	})

	t.Run("rejected upload removes earlier files", func(t *testing.T) {
		f := newArticleFixture("")
		f.media.On("Save", mock.Anything, media.KindImage, "a.png").Return("/uploads/images/a.png", nil)
		f.media.On("Save", mock.Anything, media.KindImage, "b.exe").Return("", media.ErrUnsupportedType)
		f.media.On("Delete", mock.Anything, "/uploads/images/a.png").Return(nil)

		_, err := f.service.CreateArticle(context.Background(), contributor, ArticleInput{
			Title:   "t",
			Content: "c",
			Images: []Upload{
				{Filename: "a.png", Content: strings.NewReader("img")},
				{Filename: "b.exe", Content: strings.NewReader("bin")},
			},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.media.AssertExpectations(t)
		f.articles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		f := newArticleFixture("")
		six := make([]Upload, 6)

		_, err := f.service.CreateArticle(context.Background(), contributor, ArticleInput{Title: "", Content: "c"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = f.service.CreateArticle(context.Background(), contributor, ArticleInput{Title: "t", Content: "<script>x</script>"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = f.service.CreateArticle(context.Background(), contributor, ArticleInput{Title: "t", Content: "c", Images: six})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("readers cannot publish", func(t *testing.T) {
		f := newArticleFixture("")
		reader := &model.User{ID: uuid.New(), Role: model.RoleReader}

		_, err := f.service.CreateArticle(context.Background(), reader, ArticleInput{Title: "t", Content: "c"})
		assert.Equal(t, ErrArticleForbidden, err)
		_, err = f.service.CreateArticle(context.Background(), nil, ArticleInput{Title: "t", Content: "c"})
		assert.Equal(t, ErrArticleForbidden, err)
	})
}

func TestArticleService_UpdateArticleIsPartial(t *testing.T) {
	f := newArticleFixture("")
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	existing := &model.Article{
		ID:        uuid.New(),
		Title:     "Old title",
		Content:   "Old content",
		Category:  model.CategorySports,
		ImageURLs: []string{"/uploads/images/old.png"},
		CreatedAt: time.Now(),
	}
	newTitle := "New title"

	f.articles.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	f.articles.On("Update", mock.Anything, mock.MatchedBy(func(a *model.Article) bool {
		return a.Title == "New title" && a.Content == "Old content" && a.Category == model.CategorySports
	})).Return(nil)
	f.comments.On("ListByArticle", mock.Anything, existing.ID).Return([]model.Comment{}, nil)

	view, err := f.service.UpdateArticle(context.Background(), admin, existing.ID, ArticleUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "New title", view.Title)
	assert.Equal(t, []string{"/uploads/images/old.png"}, view.ImageURLs)
	f.media.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestArticleService_UpdateArticleReplacesImages(t *testing.T) {
	f := newArticleFixture("")
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	existing := &model.Article{ID: uuid.New(), Title: "t", Content: "c", ImageURLs: []string{"/uploads/images/old.png"}}

	f.articles.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	f.media.On("Save", mock.Anything, media.KindImage, "new.jpg").Return("/uploads/images/new.jpg", nil)
	f.media.On("Delete", mock.Anything, "/uploads/images/old.png").Return(nil)
	f.articles.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.comments.On("ListByArticle", mock.Anything, existing.ID).Return([]model.Comment{}, nil)

	view, err := f.service.UpdateArticle(context.Background(), admin, existing.ID, ArticleUpdate{
		Images: []Upload{{Filename: "new.jpg", Content: strings.NewReader("img")}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/images/new.jpg"}, view.ImageURLs)
	f.media.AssertExpectations(t)
}

func TestArticleService_DeleteArticle(t *testing.T) {
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	t.Run("cascades", func(t *testing.T) {
		f := newArticleFixture("")
		a := &model.Article{ID: uuid.New(), ImageURLs: []string{}}
		f.articles.On("FindByID", mock.Anything, a.ID).Return(a, nil)
		f.articles.On("Delete", mock.Anything, a.ID).Return(int64(3), nil)

		require.NoError(t, f.service.DeleteArticle(context.Background(), admin, a.ID))
		f.articles.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		f := newArticleFixture("")
		id := uuid.New()
		f.articles.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		assert.Equal(t, ErrArticleNotFound, f.service.DeleteArticle(context.Background(), admin, id))
	})
}
