package service

import (
	"context"
	"fmt"

	apperrors "eagle/internal/errors"
	"eagle/internal/model"
	"eagle/internal/repository"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = apperrors.Conflict("email is already subscribed")

// NewsletterService manages newsletter subscriptions.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*model.Subscriber, error)
}

type newsletterService struct {
	repo repository.SubscriberRepository
}

// NewNewsletterService creates a NewsletterService.
func NewNewsletterService(repo repository.SubscriberRepository) NewsletterService {
	return &newsletterService{repo: repo}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string) (*model.Subscriber, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.Invalid("email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrAlreadySubscribed
	}
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("check subscriber: %w", err)
	}

	sub := &model.Subscriber{Email: email}
	if err := s.repo.Create(ctx, sub); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return sub, nil
}
