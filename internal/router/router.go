package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"eagle/internal/auth"
	"eagle/internal/cache"
	"eagle/internal/config"
	"eagle/internal/handler"
	"eagle/internal/metrics"
	"eagle/internal/middleware"
	"eagle/internal/model"
	"eagle/internal/repository"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Article    *handler.ArticleHandler
	Comment    *handler.CommentHandler
	Newsletter *handler.NewsletterHandler
	Contact    *handler.ContactHandler
}

// Deps are the collaborators the auth and rate limit middleware need.
type Deps struct {
	JWT     *auth.JWTService
	Tokens  auth.TokenStoreInterface
	Users   repository.UserRepository
	Limiter *cache.Client
	Log     zerolog.Logger
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, d Deps) {
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	requireAuth := []echo.MiddlewareFunc{middleware.JWT(d.JWT, false), middleware.Identity(d.Users, d.Tokens)}
	optionalAuth := []echo.MiddlewareFunc{middleware.JWT(d.JWT, true), middleware.Identity(d.Users, d.Tokens)}
	limited := middleware.RateLimit(d.Limiter, cfg.RateLimitRequests, cfg.RateLimitWindow, d.Log)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register, limited)
	authGroup.POST("/login", h.Auth.Login, limited)
	authGroup.POST("/refresh", h.Auth.Refresh, limited)
	authGroup.POST("/forgot-password", h.Auth.ForgotPassword, limited)
	authGroup.POST("/reset-password", h.Auth.ResetPassword, limited)
	// The access token is optional here; when sent it is revoked together with the refresh token.
	authGroup.POST("/logout", h.Auth.Logout, middleware.JWT(d.JWT, true))

	// Users
	users := api.Group("/users", requireAuth...)
	users.GET("/me", h.User.Me, middleware.RequireUser())
	users.PATCH("/me", h.User.UpdateMe, middleware.RequireUser())
	users.PATCH("/:id/role", h.User.AssignRole, middleware.RequireAdmin())

	// Articles
	articles := api.Group("/articles")
	articles.GET("", h.Article.List)
	articles.GET("/:id", h.Article.Get)

	manage := append(append([]echo.MiddlewareFunc{}, requireAuth...),
		middleware.RequireArticleManager(),
		echomw.BodyLimit(articleBodyLimit(cfg)),
	)
	articles.POST("", h.Article.Create, manage...)
	articles.PUT("/:id", h.Article.Update, manage...)
	articles.PATCH("/:id", h.Article.Update, manage...)
	articles.DELETE("/:id", h.Article.Delete, manage...)

	// Comments
	comments := articles.Group("/:articleId/comments", optionalAuth...)
	comments.GET("", h.Comment.List)
	comments.POST("", h.Comment.Create, limited)
	comments.PUT("/:id", h.Comment.Update)
	comments.PATCH("/:id", h.Comment.Update)
	comments.DELETE("/:id", h.Comment.Delete)

	// Newsletter and contact
	api.POST("/newsletter", h.Newsletter.Subscribe, limited)
	api.POST("/contact", h.Contact.Submit, limited)

	inbox := api.Group("/contact", append(requireAuth, middleware.RequireAdmin())...)
	inbox.GET("", h.Contact.List)
	inbox.GET("/:id", h.Contact.Get)
	inbox.DELETE("/:id", h.Contact.Delete)
}

// articleBodyLimit allows a full set of images plus one video and some form overhead.
func articleBodyLimit(cfg *config.Config) string {
	total := int64(model.MaxArticleImages)*cfg.MaxImageSize + cfg.MaxVideoSize + 1<<20
	return fmt.Sprintf("%dK", total/1024+1)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
