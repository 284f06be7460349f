package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eagle/internal/middleware"
	"eagle/internal/model"
	"eagle/internal/service"
)

// ContactHandler serves the contact form and its admin inbox.
type ContactHandler struct {
	service service.ContactService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{service: s}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactResponse acknowledges a submission.
type ContactResponse struct {
	Message string                `json:"message"`
	Contact *model.ContactMessage `json:"contact"`
}

// Submit godoc
// @Summary Send a message to the editors
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Message"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Submit(c.Request().Context(), req.Name, req.Email, req.Message)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, ContactResponse{
		Message: "message received",
		Contact: msg,
	})
}

// List godoc
// @Summary List contact messages, newest first
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ContactMessage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	msgs, err := h.service.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// Get godoc
// @Summary Get a contact message
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} model.ContactMessage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /contact/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid message ID")
	}

	msg, err := h.service.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, msg)
}

// Delete godoc
// @Summary Delete a contact message
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid message ID")
	}

	if err := h.service.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "contact message deleted"})
}
