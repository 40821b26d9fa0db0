package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	BaseURL        string
	FrontendURL    string

	DatabaseURL string
	RedisURL    string

	JWTSecret     string
	JWTTTLMinutes int

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryUploadFolder string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	EmailName    string

	// AdminEmail is the moderation inbox that receives pending-approval
	// notifications. It carries no authorization meaning; admin access is
	// decided by the user's role.
	AdminEmail string

	CronSecret string

	RateLimitSubmission time.Duration
	GreetingInterval    time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "folklorika"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@folklorika.bg"),
		EmailName:    getEnv("EMAIL_FROM_NAME", "Фолклорика"),

		AdminEmail: getEnv("ADMIN_EMAIL", "admin@folklorika.bg"),

		CronSecret: os.Getenv("CRON_SECRET"),
	}

	var err error
	cfg.JWTTTLMinutes, err = parseInt(getEnv("JWT_TTL_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.SMTPPort, err = parseInt(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.RateLimitSubmission, err = time.ParseDuration(getEnv("RATE_LIMIT_SUBMISSION", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUBMISSION: %w", err)
	}
	cfg.GreetingInterval, err = time.ParseDuration(getEnv("GREETING_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GREETING_INTERVAL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
