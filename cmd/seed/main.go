package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eagle/internal/config"
	"eagle/internal/db"
	"eagle/internal/logger"
	"eagle/internal/model"
	"eagle/internal/repository"
	"eagle/internal/worker"
)

// AdminAccount is the bootstrap administrator described by ADMIN_* variables.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

func main() {
	reconcile := flag.Bool("reconcile", false, "run one article/comment reconciliation sweep after seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env).With().Str("component", "seed").Logger()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()

	admin := AdminAccount{
		Username: os.Getenv("ADMIN_USERNAME"),
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if admin.Email == "" {
		log.Warn().Msg("ADMIN_EMAIL not set, skipping admin bootstrap")
	} else {
		created, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), admin)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin")
		}
		log.Info().Str("email", admin.Email).Bool("created", created).Msg("admin account ready")
	}

	if *reconcile {
		report, err := worker.NewReconciler(repository.NewReconcileRepository(gormDB), 0, log).RunOnce(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("reconciliation failed")
		}
		log.Info().Int("articles_repaired", report.ArticlesRepaired).Msg("reconciliation completed")
	}
}

// seedAdmin creates the admin account, or promotes an existing account with the same
// email. A password is required only when the account has to be created.
func seedAdmin(ctx context.Context, repo repository.UserRepository, admin AdminAccount) (created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up %s: %w", email, err)
	}

	if existing != nil {
		existing.Role = model.RoleAdmin
		if admin.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
			if err != nil {
				return false, fmt.Errorf("hash password: %w", err)
			}
			existing.PasswordHash = string(hash)
		}
		if err := repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("promote %s: %w", email, err)
		}
		return false, nil
	}

	if admin.Password == "" {
		return false, errors.New("ADMIN_PASSWORD is required to create the admin account")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	username := strings.TrimSpace(admin.Username)
	if username == "" {
		username = "admin"
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create %s: %w", email, err)
	}
	return true, nil
}
