package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "eagle/internal/errors"
	"eagle/internal/metrics"
	"eagle/internal/model"
	"eagle/internal/policy"
	"eagle/internal/repository"
	"eagle/internal/sanitize"
)

var (
	// ErrCommentNotFound is returned when a comment id does not resolve under the given article.
	ErrCommentNotFound = apperrors.NotFound("comment not found")
	// ErrCommentContentRequired is returned for empty comment bodies.
	ErrCommentContentRequired = apperrors.Invalid("comment content is required")
	// ErrCommentEmailRequired is returned when an anonymous commenter omits their email.
	ErrCommentEmailRequired = apperrors.Invalid("email is required to comment without an account")
)

// CommentInput holds the fields of a new comment. Username is ignored for signed-in users.
type CommentInput struct {
	Content  string
	Username string
	Email    string
}

// CommentService exposes comment operations.
type CommentService interface {
	CreateComment(ctx context.Context, articleID uuid.UUID, requester *model.User, in CommentInput) (*model.Comment, error)
	ListComments(ctx context.Context, articleID uuid.UUID) ([]model.Comment, error)
	UpdateComment(ctx context.Context, articleID, commentID uuid.UUID, requester *model.User, email, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, articleID, commentID uuid.UUID, requester *model.User, email string) error
}

type commentService struct {
	articles  repository.ArticleRepository
	comments  repository.CommentRepository
	sanitizer *sanitize.Sanitizer
}

// NewCommentService creates a CommentService.
func NewCommentService(articles repository.ArticleRepository, comments repository.CommentRepository, sanitizer *sanitize.Sanitizer) CommentService {
	return &commentService{
		articles:  articles,
		comments:  comments,
		sanitizer: sanitizer,
	}
}

// CreateComment stores a comment and links it to its article in one transaction.
func (s *commentService) CreateComment(ctx context.Context, articleID uuid.UUID, requester *model.User, in CommentInput) (*model.Comment, error) {
	content := s.sanitizer.Comment(in.Content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}
	email := normalizeEmail(in.Email)

	comment := &model.Comment{
		ArticleID: articleID,
		Content:   content,
	}
	if requester != nil {
		comment.AuthorID = &requester.ID
		comment.Username = requester.Username
		comment.Email = email
		if comment.Email == "" {
			comment.Email = requester.Email
		}
	} else {
		if email == "" {
			return nil, ErrCommentEmailRequired
		}
		comment.Username = s.sanitizer.Text(in.Username)
		if comment.Username == "" {
			comment.Username = model.AnonymousUsername
		}
		comment.Email = email
	}

	if err := s.comments.CreateForArticle(ctx, comment); err != nil {
		if isNotFound(err) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	metrics.RecordCommentCreated(requester == nil)
	return comment, nil
}

// ListComments returns the article's comments newest first.
func (s *commentService) ListComments(ctx context.Context, articleID uuid.UUID) ([]model.Comment, error) {
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		if isNotFound(err) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}

	comments, err := s.comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment replaces the content of a comment the requester may modify.
func (s *commentService) UpdateComment(ctx context.Context, articleID, commentID uuid.UUID, requester *model.User, email, content string) (*model.Comment, error) {
	comment, err := s.authorize(ctx, articleID, commentID, requester, email)
	if err != nil {
		return nil, err
	}

	content = s.sanitizer.Comment(content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}
	comment.Content = content

	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment the requester may modify and unlinks it from its article.
func (s *commentService) DeleteComment(ctx context.Context, articleID, commentID uuid.UUID, requester *model.User, email string) error {
	comment, err := s.authorize(ctx, articleID, commentID, requester, email)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment); err != nil {
		if isNotFound(err) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *commentService) authorize(ctx context.Context, articleID, commentID uuid.UUID, requester *model.User, email string) (*model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment.ArticleID != articleID {
		return nil, ErrCommentNotFound
	}

	if !policy.CanModifyComment(comment, requester, strings.TrimSpace(email)) {
		return nil, apperrors.Forbidden("not authorized to modify this comment")
	}
	return comment, nil
}
