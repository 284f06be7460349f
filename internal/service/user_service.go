package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eagle/internal/auth"
	apperrors "eagle/internal/errors"
	"eagle/internal/model"
	"eagle/internal/policy"
	"eagle/internal/repository"
)

// ErrUserNotFound is returned when a user id does not resolve.
var ErrUserNotFound = apperrors.NotFound("user not found")

// ProfileUpdate is a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// UserService exposes profile and role management.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*model.User, error)
	AssignRole(ctx context.Context, actor *model.User, targetID uuid.UUID, role model.Role) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	tokens auth.TokenStoreInterface
}

// NewUserService builds a UserService. Password changes revoke the user's refresh
// tokens through tokens.
func NewUserService(repo repository.UserRepository, tokens auth.TokenStoreInterface) UserService {
	return &userService{repo: repo, tokens: tokens}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, apperrors.Invalid("username cannot be empty")
		}
		user.Username = username
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, apperrors.Invalid("email cannot be empty")
		}
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err == nil && existing != nil {
				return nil, apperrors.Conflict("email already in use")
			}
			if err != nil && !isNotFound(err) {
				return nil, fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}

	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if in.Password != nil {
		if err := s.tokens.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("revoke sessions: %w", err)
		}
	}
	return user, nil
}

func (s *userService) AssignRole(ctx context.Context, actor *model.User, targetID uuid.UUID, role model.Role) (*model.User, error) {
	if !policy.CanAdminister(actor) {
		return nil, apperrors.Forbidden("only administrators can assign roles")
	}
	if !role.Valid() {
		return nil, apperrors.Invalid(fmt.Sprintf("unknown role %q", role))
	}

	user, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return user, nil
}
