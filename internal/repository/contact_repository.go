package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eagle/internal/model"
)

// ContactRepository defines contact message persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContactMessage, error)
	List(ctx context.Context) ([]model.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("gorm: create contact message: %w", err)
	}
	return nil
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ContactMessage, error) {
	var msg model.ContactMessage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, fmt.Errorf("gorm: find contact message %s: %w", id, err)
	}
	return &msg, nil
}

func (r *contactRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	msgs := []model.ContactMessage{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("gorm: list contact messages: %w", err)
	}
	return msgs, nil
}

// Delete removes a message, returning gorm.ErrRecordNotFound (wrapped) when nothing matched.
func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.ContactMessage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("gorm: delete contact message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gorm: delete contact message %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
