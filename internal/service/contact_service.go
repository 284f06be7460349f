package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "eagle/internal/errors"
	"eagle/internal/mail"
	"eagle/internal/model"
	"eagle/internal/policy"
	"eagle/internal/repository"
	"eagle/internal/sanitize"
)

var (
	// ErrContactNotFound is returned when a contact message id does not resolve.
	ErrContactNotFound = apperrors.NotFound("contact message not found")
	errAdminOnly       = apperrors.Forbidden("not authorized as an administrator")
)

// ContactService stores contact form submissions and exposes them to administrators.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) (*model.ContactMessage, error)
	List(ctx context.Context, actor *model.User) ([]model.ContactMessage, error)
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.ContactMessage, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type contactService struct {
	repo      repository.ContactRepository
	notifier  mail.Notifier
	sanitizer *sanitize.Sanitizer
	log       zerolog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(repo repository.ContactRepository, notifier mail.Notifier, sanitizer *sanitize.Sanitizer, log zerolog.Logger) ContactService {
	return &contactService{
		repo:      repo,
		notifier:  notifier,
		sanitizer: sanitizer,
		log:       log.With().Str("component", "contact_service").Logger(),
	}
}

// Submit persists the message, then queues the admin notification. A queueing failure
// is logged; the submission itself still succeeds.
func (s *contactService) Submit(ctx context.Context, name, email, message string) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		Name:    s.sanitizer.Text(name),
		Email:   normalizeEmail(email),
		Message: s.sanitizer.Comment(message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, apperrors.Invalid("name, email and message are required")
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	if err := s.notifier.NotifyContact(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("message_id", msg.ID.String()).Msg("contact notification not queued")
	}
	return msg, nil
}

func (s *contactService) List(ctx context.Context, actor *model.User) ([]model.ContactMessage, error) {
	if !policy.CanAdminister(actor) {
		return nil, errAdminOnly
	}
	msgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

func (s *contactService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.ContactMessage, error) {
	if !policy.CanAdminister(actor) {
		return nil, errAdminOnly
	}
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact message: %w", err)
	}
	return msg, nil
}

func (s *contactService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if !policy.CanAdminister(actor) {
		return errAdminOnly
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrContactNotFound
		}
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}
