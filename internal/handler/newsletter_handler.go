package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eagle/internal/model"
	"eagle/internal/service"
)

// NewsletterHandler serves newsletter sign-up.
type NewsletterHandler struct {
	service service.NewsletterService
}

// NewNewsletterHandler constructs a NewsletterHandler.
func NewNewsletterHandler(s service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: s}
}

// SubscribeRequest is a newsletter sign-up.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SubscribeResponse acknowledges a sign-up.
type SubscribeResponse struct {
	Message    string            `json:"message"`
	Subscriber *model.Subscriber `json:"subscriber"`
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscriber email"
// @Success 201 {object} SubscribeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /newsletter [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.service.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, SubscribeResponse{
		Message:    "subscribed successfully",
		Subscriber: sub,
	})
}
