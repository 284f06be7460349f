package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eagle/internal/auth"
	apperrors "eagle/internal/errors"
	"eagle/internal/model"
)

func newTestAuthService(repo *MockUserRepository, store *MockTokenStore, notifier *MockNotifier) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(repo, jwtService, store, notifier, zerolog.Nop()), jwtService
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "Jane",
			email:    "Jane@Example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "email already registered",
			username: "Jane",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{Email: "jane@example.com"}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
		{
			name:     "duplicate key on insert",
			username: "Jane",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrUserAlreadyExists,
		},
		{
			name:          "password too short",
			username:      "Jane",
			email:         "jane@example.com",
			password:      "123",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			service, _ := newTestAuthService(mockRepo, new(MockTokenStore), new(MockNotifier))

			user, err := service.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "jane@example.com", user.Email)
				assert.Equal(t, model.RoleReader, user.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_ConflictMapsTo409Kind(t *testing.T) {
	assert.ErrorIs(t, ErrUserAlreadyExists, apperrors.ErrConflict)
}

func TestAuthService_Login(t *testing.T) {
	userID := uuid.New()
	hashed := hashPassword(t, "password123")

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{
					ID: userID, Email: "jane@example.com", PasswordHash: hashed, Role: model.RoleContributor,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "user not found",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "jane@example.com",
			password: "wrong-password",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{
					ID: userID, Email: "jane@example.com", PasswordHash: hashed,
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)
			service, jwtService := newTestAuthService(mockRepo, mockTokenStore, new(MockNotifier))

			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateAccessToken(accessToken)
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				assert.Equal(t, "contributor", claims.Role)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	userID := uuid.New()
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "jane@example.com", "reader")
	require.NoError(t, err)

	t.Run("issues access token with current role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, nil)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "jane@example.com", Role: model.RoleAdmin}, nil)
		service := NewAuthService(mockRepo, jwtService, mockTokenStore, new(MockNotifier), zerolog.Nop())

		accessToken, err := service.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("unknown token id", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, auth.ErrTokenNotFound)
		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, new(MockNotifier), zerolog.Nop())

		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})

	t.Run("store failure is not reported as invalid token", func(t *testing.T) {
		redisDown := errors.New("dial tcp: connection refused")
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, redisDown)
		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, new(MockNotifier), zerolog.Nop())

		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, redisDown)
		assert.NotErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("access token rejected", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(userID, "jane@example.com", "reader")
		require.NoError(t, err)
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), new(MockNotifier), zerolog.Nop())

		_, err = service.RefreshToken(context.Background(), accessToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	userID := uuid.New()
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "jane@example.com", "reader")
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(userID, "jane@example.com", "reader")
	require.NoError(t, err)
	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
	mockTokenStore.On("BlacklistAccessToken", mock.Anything, accessClaims.ID, mock.AnythingOfType("time.Duration")).Return(nil)
	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, new(MockNotifier), zerolog.Nop())

	require.NoError(t, service.Logout(context.Background(), refreshToken, accessClaims))
	mockTokenStore.AssertExpectations(t)

	assert.Equal(t, ErrInvalidRefreshToken, service.Logout(context.Background(), "garbage", nil))
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("unknown email queues nothing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockNotifier := new(MockNotifier)
		mockTokenStore := new(MockTokenStore)
		mockRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
		service, _ := newTestAuthService(mockRepo, mockTokenStore, mockNotifier)

		require.NoError(t, service.ForgotPassword(context.Background(), "Ghost@example.com"))
		mockTokenStore.AssertNotCalled(t, "IssueResetToken", mock.Anything, mock.Anything)
		mockNotifier.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known email queues reset link", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), Email: "jane@example.com"}
		mockRepo := new(MockUserRepository)
		mockNotifier := new(MockNotifier)
		mockTokenStore := new(MockTokenStore)
		mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
		mockTokenStore.On("IssueResetToken", mock.Anything, user.ID).Return("reset-token", nil)
		mockNotifier.On("SendPasswordReset", mock.Anything, user, "reset-token").Return(nil)
		service, _ := newTestAuthService(mockRepo, mockTokenStore, mockNotifier)

		require.NoError(t, service.ForgotPassword(context.Background(), "jane@example.com"))
		mockNotifier.AssertExpectations(t)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	userID := uuid.New()

	t.Run("sets new password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("ConsumeResetToken", mock.Anything, "reset-token").Return(userID, nil)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, PasswordHash: "old"}, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-secret")) == nil
		})).Return(nil)
		mockTokenStore.On("RevokeUserRefreshTokens", mock.Anything, userID).Return(nil)
		service, _ := newTestAuthService(mockRepo, mockTokenStore, new(MockNotifier))

		require.NoError(t, service.ResetPassword(context.Background(), "reset-token", "new-secret"))
		mockRepo.AssertExpectations(t)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("revocation failure is reported", func(t *testing.T) {
		redisDown := errors.New("dial tcp: connection refused")
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("ConsumeResetToken", mock.Anything, "reset-token").Return(userID, nil)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		mockTokenStore.On("RevokeUserRefreshTokens", mock.Anything, userID).Return(redisDown)
		service, _ := newTestAuthService(mockRepo, mockTokenStore, new(MockNotifier))

		assert.ErrorIs(t, service.ResetPassword(context.Background(), "reset-token", "new-secret"), redisDown)
	})

	t.Run("used or unknown token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("ConsumeResetToken", mock.Anything, "stale").Return(uuid.Nil, auth.ErrTokenNotFound)
		service, _ := newTestAuthService(new(MockUserRepository), mockTokenStore, new(MockNotifier))

		assert.Equal(t, ErrInvalidResetToken, service.ResetPassword(context.Background(), "stale", "new-secret"))
	})

	t.Run("short password", func(t *testing.T) {
		service, _ := newTestAuthService(new(MockUserRepository), new(MockTokenStore), new(MockNotifier))
		assert.Equal(t, ErrPasswordTooShort, service.ResetPassword(context.Background(), "tok", "abc"))
	})
}
