package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eagle/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
	resetTokenKeyPrefix   = "password_reset:"
	userRefreshKeyPrefix  = "user_refresh_tokens:"

	// ResetTokenExpiry is how long a password reset link stays usable.
	ResetTokenExpiry = 30 * time.Minute
)

// ErrTokenNotFound is returned when a stored token is missing or expired.
var ErrTokenNotFound = fmt.Errorf("token not found")

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
	IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error)
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

type storedToken struct {
	UserID uuid.UUID `json:"user_id"`
}

// StoreRefreshToken stores a refresh token in Redis with TTL and indexes it under its
// user so that all of a user's sessions can be revoked together.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	payload, err := json.Marshal(storedToken{UserID: userID})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	if err := s.cache.SetStrict(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if err := s.cache.SetAdd(ctx, userRefreshKeyPrefix+userID.String(), tokenID, ttl); err != nil {
		return fmt.Errorf("index refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken returns the user a refresh token was issued to.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error) {
	data, err := s.cache.GetStrict(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get refresh token: %w", err)
	}
	if data == nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return decodeStoredToken(data)
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	if err := s.cache.DeleteStrict(ctx, refreshTokenKeyPrefix+tokenID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens deletes every refresh token issued to the user.
func (s *TokenStore) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	setKey := userRefreshKeyPrefix + userID.String()
	tokenIDs, err := s.cache.SetMembers(ctx, setKey)
	if err != nil {
		return fmt.Errorf("list refresh tokens: %w", err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, refreshTokenKeyPrefix+id)
	}
	keys = append(keys, setKey)
	if err := s.cache.DeleteStrict(ctx, keys...); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.SetStrict(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}
	return nil
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted. Redis errors are
// reported so that callers reject the request rather than accept a revoked token.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.GetStrict(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("check access token blacklist: %w", err)
	}
	return data != nil, nil
}

// IssueResetToken creates a random single-use password reset token for the user.
func (s *TokenStore) IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	payload, err := json.Marshal(storedToken{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("marshal token data: %w", err)
	}
	if err := s.cache.SetStrict(ctx, resetTokenKeyPrefix+token, payload, ResetTokenExpiry); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ConsumeResetToken resolves and invalidates a reset token in one step.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	data, err := s.cache.Take(ctx, resetTokenKeyPrefix+token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume reset token: %w", err)
	}
	if data == nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return decodeStoredToken(data)
}

func decodeStoredToken(data []byte) (uuid.UUID, error) {
	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return uuid.Nil, fmt.Errorf("unmarshal token data: %w", err)
	}
	if stored.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid user_id in token data")
	}
	return stored.UserID, nil
}
