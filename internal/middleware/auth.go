// Package middleware holds the Echo middleware that resolves who is calling and
// whether they may proceed.
package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"eagle/internal/auth"
	apperrors "eagle/internal/errors"
	"eagle/internal/model"
	"eagle/internal/policy"
	"eagle/internal/repository"
)

const (
	contextKeyClaims = "auth_claims"
	contextKeyUser   = "auth_user"
)

// JWT validates a Bearer access token and stores its claims on the context.
// In optional mode a request without a token passes through anonymously; a token
// that is present but invalid is still rejected.
func JWT(jwtService *auth.JWTService, optional bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             contextKeyClaims,
		TokenLookup:            "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContinueOnIgnoredError: optional,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateAccessToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if optional && errors.Is(err, echojwt.ErrJWTMissing) {
				return nil
			}
			return unauthorized("invalid or missing access token")
		},
	})
}

// Identity loads the user named by the token claims and rejects revoked tokens.
// Requests without claims pass through untouched.
func Identity(users repository.UserRepository, tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return next(c)
			}
			ctx := c.Request().Context()

			revoked, err := tokens.IsAccessTokenBlacklisted(ctx, claims.ID)
			if err != nil {
				return err
			}
			if revoked {
				return unauthorized("token has been revoked")
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				return unauthorized("not authorized, user not found")
			}
			SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// RequireUser rejects requests that did not resolve to a user.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return unauthorized("not authorized, no token")
			}
			return next(c)
		}
	}
}

// RequireArticleManager allows contributors and administrators.
func RequireArticleManager() echo.MiddlewareFunc {
	return requireRole(policy.CanManageArticles, "not authorized to publish or modify articles")
}

// RequireAdmin allows administrators only.
func RequireAdmin() echo.MiddlewareFunc {
	return requireRole(policy.CanAdminister, "not authorized as an administrator")
}

func requireRole(allowed func(*model.User) bool, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthorized("not authorized, no token")
			}
			if !allowed(user) {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Message: message,
					Code:    "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(contextKeyUser).(*model.User)
	return user
}

// SetCurrentUser attaches an authenticated user to the request context.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(contextKeyUser, user)
}

// CurrentClaims returns the validated access token claims, or nil.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(contextKeyClaims).(*auth.Claims)
	return claims
}

func unauthorized(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Message: message,
		Code:    "UNAUTHENTICATED",
	})
}
