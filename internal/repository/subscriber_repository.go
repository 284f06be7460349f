package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"eagle/internal/model"
)

// SubscriberRepository defines newsletter subscription persistence operations.
type SubscriberRepository interface {
	Create(ctx context.Context, sub *model.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*model.Subscriber, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository.
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(ctx context.Context, sub *model.Subscriber) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("gorm: create subscriber: %w", err)
	}
	return nil
}

func (r *subscriberRepository) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	var sub model.Subscriber
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, fmt.Errorf("gorm: find subscriber by email: %w", err)
	}
	return &sub, nil
}
