package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eagle/internal/middleware"
	"eagle/internal/service"
)

// CommentHandler serves comments nested under an article.
type CommentHandler struct {
	service service.CommentService
}

// NewCommentHandler constructs a CommentHandler.
func NewCommentHandler(s service.CommentService) *CommentHandler {
	return &CommentHandler{service: s}
}

// CreateCommentRequest is a new comment. Email is required when not signed in.
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required"`
	Username string `json:"username" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateCommentRequest replaces a comment's content. Email proves ownership of an
// anonymous comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
	Email   string `json:"email" query:"email"`
}

// DeleteCommentRequest carries the ownership email for anonymous comments, in the body
// or as ?email=.
type DeleteCommentRequest struct {
	Email string `json:"email" query:"email"`
}

// Create godoc
// @Summary Comment on an article
// @Description Sign-in is optional; anonymous comments must include an email.
// @Tags comments
// @Accept json
// @Produce json
// @Param articleId path string true "Article ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /articles/{articleId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("articleId"))
	if err != nil {
		return badRequest("invalid article ID")
	}

	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.CreateComment(c.Request().Context(), articleID, middleware.CurrentUser(c), service.CommentInput{
		Content:  req.Content,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// List godoc
// @Summary List an article's comments, newest first
// @Tags comments
// @Produce json
// @Param articleId path string true "Article ID"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{articleId}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("articleId"))
	if err != nil {
		return badRequest("invalid article ID")
	}

	comments, err := h.service.ListComments(c.Request().Context(), articleID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// Update godoc
// @Summary Edit a comment
// @Description Allowed for the comment's author, for anyone presenting the email of an anonymous comment, and for contributors and admins.
// @Tags comments
// @Accept json
// @Produce json
// @Param articleId path string true "Article ID"
// @Param id path string true "Comment ID"
// @Param request body UpdateCommentRequest true "New content"
// @Success 200 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{articleId}/comments/{id} [patch]
// @Router /articles/{articleId}/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	articleID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}

	var req UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Email == "" {
		req.Email = c.QueryParam("email")
	}

	comment, err := h.service.UpdateComment(c.Request().Context(), articleID, commentID, middleware.CurrentUser(c), req.Email, req.Content)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param articleId path string true "Article ID"
// @Param id path string true "Comment ID"
// @Param email query string false "Email of an anonymous comment"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{articleId}/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	articleID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}

	var req DeleteCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := h.service.DeleteComment(c.Request().Context(), articleID, commentID, middleware.CurrentUser(c), req.Email); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "comment deleted successfully"})
}

func commentPath(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	articleID, err := uuid.Parse(c.Param("articleId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, badRequest("invalid article ID")
	}
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, badRequest("invalid comment ID")
	}
	return articleID, commentID, nil
}
