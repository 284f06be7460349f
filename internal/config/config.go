package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env             string
	ServerPort      string
	ShutdownTimeout time.Duration
	LogLevel        string

	MySQLDSN string
	ResetDB  bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret   string
	SwaggerHost string

	// Media
	UploadDir           string
	PublicBaseURL       string
	PlaceholderImageURL string
	MaxImageSize        int64
	MaxVideoSize        int64

	// Background work
	ReconcileInterval time.Duration
	WorkerConcurrency int

	// Public write endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Outbound mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	AdminEmail   string
	ResetURLBase string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		Env:             getEnv("ENV", "development"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		MySQLDSN: getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/eagle?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:  getEnvBool("RESET_DB", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:       os.Getenv("PUBLIC_BASE_URL"),
		PlaceholderImageURL: os.Getenv("PLACEHOLDER_IMAGE_URL"),
		MaxImageSize:        getEnvInt64("MAX_IMAGE_SIZE", 5*1024*1024),
		MaxVideoSize:        getEnvInt64("MAX_VIDEO_SIZE", 50*1024*1024),

		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 10*time.Minute),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 5),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@eagle.local"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		ResetURLBase: getEnv("RESET_URL_BASE", "http://localhost:3000/reset-password"),
	}
}

// Validate rejects configurations that are unsafe to run in production.
func (c *Config) Validate() error {
	if c.Env == "production" && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
