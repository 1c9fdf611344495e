// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole application configuration.
// It is loaded once at startup and treated as immutable.
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	SetupSecret        string
	AdminEmail         string
	AdminPassword      string

	// Import worker
	ImportInterval time.Duration
	UploadDir      string

	// Job providers
	RapidAPIKey  string
	RapidAPIHost string
	RAVBaseURL   string
	RAVToken     string

	// CV suggestions
	OpenAIAPIKey string
	OpenAIModel  string

	// Billing
	BillingAPIKey       string
	BillingPriceMonthly string
	BillingPriceYearly  string
	TrialDays           int

	// Rate limit
	RateLimitGeneral int
	RateLimitImport  int

	// Retention
	EventRetentionDays int

	// Server
	ServerPort string
	BaseURL    string

	// CORS
	CORSAllowedOrigin string
}

// Load reads the configuration from environment variables.
// Missing required variables are reported together in one error.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.AccessTokenExpiry = getEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	cfg.RefreshTokenExpiry = getEnvDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)
	cfg.SetupSecret = getEnvString("SETUP_SECRET", "")
	cfg.AdminEmail = getEnvString("ADMIN_EMAIL", "")
	cfg.AdminPassword = getEnvString("ADMIN_PASSWORD", "")

	cfg.ImportInterval = getEnvDuration("IMPORT_INTERVAL", 30*time.Minute)
	cfg.UploadDir = getEnvString("UPLOAD_DIR", "uploads")

	// Provider configuration is optional; an absent key disables the provider.
	cfg.RapidAPIKey = firstEnv("RAPIDAPI_KEY", "RAPID_API_KEY", "INDEED_RAPIDAPI_KEY")
	cfg.RapidAPIHost = getEnvString("RAPIDAPI_HOST", "indeed-api.p.rapidapi.com")
	cfg.RAVBaseURL = getEnvString("RAV_API_URL", "")
	cfg.RAVToken = getEnvString("RAV_API_KEY", "")

	cfg.OpenAIAPIKey = getEnvString("OPENAI_API_KEY", "")
	cfg.OpenAIModel = getEnvString("OPENAI_MODEL", "gpt-4o-mini")

	cfg.BillingAPIKey = getEnvString("BILLING_API_KEY", "")
	cfg.BillingPriceMonthly = getEnvString("BILLING_PRICE_MONTHLY", "")
	cfg.BillingPriceYearly = getEnvString("BILLING_PRICE_YEARLY", "")
	cfg.TrialDays = getEnvInt("TRIAL_DAYS", 7)

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitImport = getEnvInt("RATE_LIMIT_IMPORT", 10)

	cfg.EventRetentionDays = getEnvInt("EVENT_RETENTION_DAYS", 90)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// firstEnv returns the first non-empty value among the given variable names.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
