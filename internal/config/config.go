package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the app reads from the environment. Values are
// resolved once at startup and injected; nothing else reads os.Getenv.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string

	// PublicBaseURL is the explicitly configured storefront origin. When set
	// it wins the redirect base-URL resolution chain outright.
	PublicBaseURL string
	// PlatformURL is the hosting platform's assigned URL, used as a fallback
	// when neither configuration nor the request reveal the real origin.
	PlatformURL string

	StripeKey           string
	StripeWebhookSecret string
	JWTSecret           string

	MigrationsDir string
}

func Load() *Config {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	return &Config{
		Port:                getenv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisAddr:           getenv("REDIS_ADDR", "localhost:6379"),
		PublicBaseURL:       os.Getenv("PUBLIC_BASE_URL"),
		PlatformURL:         os.Getenv("PLATFORM_URL"),
		StripeKey:           os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		JWTSecret:           getenv("JWT_SECRET", "dev-secret-please-change"),
		MigrationsDir:       getenv("MIGRATIONS_DIR", "internal/db/migrations"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
