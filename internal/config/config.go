package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment. It is built
// once in main and passed by reference; nothing reads os.Getenv after startup.
type Config struct {
	DatabaseURL string
	Port        string

	JWTSecret []byte

	SendGridAPIKey string
	EmailSender    string

	CORSOrigin string

	LogLevel  string
	LogFormat string

	LoginTokenTTL    time.Duration
	RegisterTokenTTL time.Duration
	TempCodeTTL      time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads the configuration from the environment. DATABASE_URL and
// JWT_SECRET are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		SendGridAPIKey:   strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		EmailSender:      getEnv("EMAIL_SENDER", "noreply@covidguard.app"),
		CORSOrigin:       getEnv("CORS_ORIGIN", "*"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		LoginTokenTTL:    time.Hour,
		RegisterTokenTTL: 24 * time.Hour,
		TempCodeTTL:      time.Hour,
		RateLimitMax:     getEnvInt("RATE_LIMIT_AUTH_MAX", 60),
		RateLimitWindow:  time.Duration(getEnvInt("RATE_LIMIT_AUTH_WINDOW_SECONDS", 60)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
