package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "eagle/docs" // swagger docs

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"eagle/internal/auth"
	"eagle/internal/cache"
	"eagle/internal/config"
	"eagle/internal/db"
	"eagle/internal/handler"
	"eagle/internal/logger"
	"eagle/internal/mail"
	"eagle/internal/media"
	"eagle/internal/repository"
	"eagle/internal/router"
	"eagle/internal/sanitize"
	"eagle/internal/service"
	"eagle/internal/worker"
)

// @title Eagle News API
// @version 1.0
// @description News and blog API with articles, comments, newsletter and contact form.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal().Err(err).Msg("database migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	articleRepo := repository.NewArticleRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	subscriberRepo := repository.NewSubscriberRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)
	reconcileRepo := repository.NewReconcileRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	notifier := mail.NewQueue(queueClient, cfg.ResetURLBase, log)
	sanitizer := sanitize.New()
	store := media.NewLocalStore(cfg.UploadDir, uploadsBaseURL(cfg.PublicBaseURL), cfg.MaxImageSize, cfg.MaxVideoSize)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, notifier, log)
	userService := service.NewUserService(userRepo, tokenStore)
	articleService := service.NewArticleService(articleRepo, commentRepo, store, sanitizer, cfg.PlaceholderImageURL, log)
	commentService := service.NewCommentService(articleRepo, commentRepo, sanitizer)
	newsletterService := service.NewNewsletterService(subscriberRepo)
	contactService := service.NewContactService(contactRepo, notifier, sanitizer, log)

	e := echo.New()
	router.Register(e, cfg, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Article:    handler.NewArticleHandler(articleService),
		Comment:    handler.NewCommentHandler(commentService),
		Newsletter: handler.NewNewsletterHandler(newsletterService),
		Contact:    handler.NewContactHandler(contactService),
	}, router.Deps{
		JWT:     jwtService,
		Tokens:  tokenStore,
		Users:   userRepo,
		Limiter: cacheClient,
		Log:     log,
	})

	// Background work
	var sender mail.Sender
	if cfg.SMTPHost != "" {
		smtpSender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("smtp sender")
		}
		sender = smtpSender
	} else {
		log.Warn().Msg("SMTP_HOST not set, emails will be logged instead of sent")
		sender = mail.NewLogSender(log)
	}
	workerServer := worker.NewServer(redisOpt, cfg.WorkerConcurrency, worker.NewMailHandler(sender, cfg.AdminEmail, log), log)
	go workerServer.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := worker.NewReconciler(reconcileRepo, cfg.ReconcileInterval, log)
	go reconciler.Run(ctx)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Str("swagger", "http://localhost:"+cfg.ServerPort+"/swagger/index.html").Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	workerServer.Shutdown()

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

func uploadsBaseURL(publicBase string) string {
	return strings.TrimRight(publicBase, "/") + "/uploads"
}
