package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "eagle/internal/errors"
	"eagle/internal/media"
	"eagle/internal/metrics"
	"eagle/internal/model"
	"eagle/internal/policy"
	"eagle/internal/repository"
	"eagle/internal/sanitize"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var (
	// ErrArticleNotFound is returned when an article id does not resolve.
	ErrArticleNotFound = apperrors.NotFound("article not found")
	// ErrArticleForbidden is returned when a non-privileged user tries to publish or edit.
	ErrArticleForbidden = apperrors.Forbidden("not authorized to publish or modify articles")
)

// Upload is a file received with an article request.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ArticleFilter selects a page of articles.
type ArticleFilter struct {
	Search   string
	Author   string
	Category string
	Page     int
	Limit    int
}

// ArticleInput holds the fields of a new article.
type ArticleInput struct {
	Title    string
	Content  string
	Category string
	VideoURL string
	Images   []Upload
	Video    *Upload
}

// ArticleUpdate is a partial article change; nil fields are left untouched.
// A non-nil Images replaces the whole image list.
type ArticleUpdate struct {
	Title    *string
	Content  *string
	Category *string
	VideoURL *string
	Images   []Upload
	Video    *Upload
}

// ArticleService exposes article listing and mutation.
type ArticleService interface {
	ListArticles(ctx context.Context, f ArticleFilter) (*ArticlePage, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*ArticleView, error)
	CreateArticle(ctx context.Context, actor *model.User, in ArticleInput) (*ArticleView, error)
	UpdateArticle(ctx context.Context, actor *model.User, id uuid.UUID, in ArticleUpdate) (*ArticleView, error)
	DeleteArticle(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type articleService struct {
	articles    repository.ArticleRepository
	comments    repository.CommentRepository
	media       media.Store
	sanitizer   *sanitize.Sanitizer
	placeholder string
	log         zerolog.Logger
}

// NewArticleService creates an ArticleService. An empty placeholder disables the
// default image for articles created without images.
func NewArticleService(
	articles repository.ArticleRepository,
	comments repository.CommentRepository,
	store media.Store,
	sanitizer *sanitize.Sanitizer,
	placeholder string,
	log zerolog.Logger,
) ArticleService {
	return &articleService{
		articles:    articles,
		comments:    comments,
		media:       store,
		sanitizer:   sanitizer,
		placeholder: placeholder,
		log:         log.With().Str("component", "article_service").Logger(),
	}
}

// ParsePagination reads page and limit query values. Missing, non-numeric and
// non-positive values fall back to the defaults; limit is capped and page is capped
// so that the row offset fits in an int.
func ParsePagination(page, limit string) (int, int) {
	p, err := strconv.Atoi(page)
	if err != nil || p <= 0 {
		p = defaultPage
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l <= 0 {
		l = defaultLimit
	}
	if l > maxLimit {
		l = maxLimit
	}
	return clampPage(p, l), l
}

// clampPage keeps (page-1)*limit from overflowing.
func clampPage(page, limit int) int {
	if maxPage := math.MaxInt / limit; page > maxPage {
		return maxPage
	}
	return page
}

// pageCount is ceil(total/limit).
func pageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *articleService) ListArticles(ctx context.Context, f ArticleFilter) (*ArticlePage, error) {
	if f.Page <= 0 {
		f.Page = defaultPage
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	f.Page = clampPage(f.Page, f.Limit)
	category, err := parseCategory(f.Category)
	if err != nil {
		return nil, err
	}

	articles, total, err := s.articles.List(ctx, repository.ArticleQuery{
		Search:   f.Search,
		Author:   f.Author,
		Category: category,
		Offset:   (f.Page - 1) * f.Limit,
		Limit:    f.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	ids := make([]uuid.UUID, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}
	comments, err := s.comments.ListByArticles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	index := indexComments(comments)

	items := make([]ArticleView, len(articles))
	for i := range articles {
		items[i] = newArticleView(&articles[i], index)
	}

	return &ArticlePage{
		Items: items,
		Total: total,
		Page:  f.Page,
		Pages: pageCount(total, f.Limit),
	}, nil
}

func (s *articleService) GetArticle(ctx context.Context, id uuid.UUID) (*ArticleView, error) {
	article, err := s.findArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, article)
}

func (s *articleService) CreateArticle(ctx context.Context, actor *model.User, in ArticleInput) (*ArticleView, error) {
	if !policy.CanManageArticles(actor) {
		return nil, ErrArticleForbidden
	}

	title := s.sanitizer.Text(in.Title)
	content := s.sanitizer.Article(in.Content)
	if title == "" || content == "" {
		return nil, apperrors.Invalid("title and content are required")
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if len(in.Images) > model.MaxArticleImages {
		return nil, apperrors.Invalid(fmt.Sprintf("at most %d images are allowed", model.MaxArticleImages))
	}

	var stored []string
	imageURLs, err := s.saveImages(ctx, in.Images, &stored)
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	if len(imageURLs) == 0 && s.placeholder != "" {
		imageURLs = []string{s.placeholder}
	}

	videoURL := in.VideoURL
	if in.Video != nil {
		videoURL, err = s.saveUpload(ctx, media.KindVideo, *in.Video, &stored)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
	}

	article := &model.Article{
		Title:     title,
		Content:   content,
		AuthorID:  actor.ID,
		Category:  category,
		ImageURLs: imageURLs,
		VideoURL:  videoURL,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		s.discard(ctx, stored)
		return nil, fmt.Errorf("create article: %w", err)
	}
	metrics.RecordArticleMutation("create")

	article.Author = actor
	view := newArticleView(article, nil)
	return &view, nil
}

func (s *articleService) UpdateArticle(ctx context.Context, actor *model.User, id uuid.UUID, in ArticleUpdate) (*ArticleView, error) {
	if !policy.CanManageArticles(actor) {
		return nil, ErrArticleForbidden
	}

	article, err := s.findArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := s.sanitizer.Text(*in.Title)
		if title == "" {
			return nil, apperrors.Invalid("title cannot be empty")
		}
		article.Title = title
	}
	if in.Content != nil {
		content := s.sanitizer.Article(*in.Content)
		if content == "" {
			return nil, apperrors.Invalid("content cannot be empty")
		}
		article.Content = content
	}
	if in.Category != nil {
		category, err := parseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		article.Category = category
	}
	if len(in.Images) > model.MaxArticleImages {
		return nil, apperrors.Invalid(fmt.Sprintf("at most %d images are allowed", model.MaxArticleImages))
	}
	if in.VideoURL != nil {
		article.VideoURL = *in.VideoURL
	}

	var stored []string
	previous := append([]string(nil), article.ImageURLs...)
	previousVideo := article.VideoURL
	if in.Images != nil {
		article.ImageURLs, err = s.saveImages(ctx, in.Images, &stored)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
	}
	if in.Video != nil {
		article.VideoURL, err = s.saveUpload(ctx, media.KindVideo, *in.Video, &stored)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
	}

	if err := s.articles.Update(ctx, article); err != nil {
		s.discard(ctx, stored)
		return nil, fmt.Errorf("update article: %w", err)
	}
	metrics.RecordArticleMutation("update")

	if in.Images != nil {
		s.discard(ctx, previous)
	}
	if in.Video != nil && previousVideo != article.VideoURL {
		s.discard(ctx, []string{previousVideo})
	}
	return s.view(ctx, article)
}

func (s *articleService) DeleteArticle(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if !policy.CanManageArticles(actor) {
		return ErrArticleForbidden
	}

	article, err := s.findArticle(ctx, id)
	if err != nil {
		return err
	}

	removed, err := s.articles.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	metrics.RecordArticleMutation("delete")

	s.discard(ctx, append(article.ImageURLs, article.VideoURL))
	s.log.Info().
		Str("article_id", id.String()).
		Str("actor_id", actor.ID.String()).
		Int64("comments_removed", removed).
		Msg("article deleted")
	return nil
}

func (s *articleService) findArticle(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return article, nil
}

func (s *articleService) view(ctx context.Context, article *model.Article) (*ArticleView, error) {
	comments, err := s.comments.ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	view := newArticleView(article, indexComments(comments))
	return &view, nil
}

func (s *articleService) saveImages(ctx context.Context, uploads []Upload, stored *[]string) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.saveUpload(ctx, media.KindImage, u, stored)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *articleService) saveUpload(ctx context.Context, kind media.Kind, u Upload, stored *[]string) (string, error) {
	url, err := s.media.Save(ctx, kind, u.Filename, u.Content)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) || errors.Is(err, media.ErrTooLarge) {
			return "", apperrors.Invalid(fmt.Sprintf("%s: %v", u.Filename, err))
		}
		return "", fmt.Errorf("store upload: %w", err)
	}
	*stored = append(*stored, url)
	return url, nil
}

// discard removes stored uploads; failures are logged and otherwise ignored.
func (s *articleService) discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" || url == s.placeholder {
			continue
		}
		if err := s.media.Delete(ctx, url); err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("failed to remove upload")
		}
	}
}

func parseCategory(raw string) (model.Category, error) {
	if raw == "" {
		return "", nil
	}
	category := model.Category(raw)
	if !category.Valid() {
		return "", apperrors.Invalid(fmt.Sprintf("unknown category %q", raw))
	}
	return category, nil
}
