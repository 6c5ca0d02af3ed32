package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Notifier NotifierConfig
	Job      JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// CatalogConfig configures the Google Books volumes client.
type CatalogConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration // per-request timeout, fail-fast
	RateLimit float64       // requests per second against the provider
	RateBurst int
}

// NotifierConfig configures best-effort delivery to the chat gateway.
type NotifierConfig struct {
	Provider   string // mock, webhook
	WebhookURL string
	Timeout    time.Duration
}

// JobConfig configures scheduled background jobs.
type JobConfig struct {
	DailyDigestCron string // cron spec, UTC
	DigestBatchSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	catalogTimeout, err := time.ParseDuration(getEnv("CATALOG_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TIMEOUT: %w", err)
	}

	notifierTimeout, err := time.ParseDuration(getEnv("NOTIFIER_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFIER_TIMEOUT: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BookBuddy API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bookbuddy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Catalog: CatalogConfig{
			BaseURL:   getEnv("GOOGLE_BOOKS_BASE_URL", "https://www.googleapis.com/books/v1"),
			APIKey:    getEnv("GOOGLE_BOOKS_API_KEY", ""),
			Timeout:   catalogTimeout,
			RateLimit: getEnvFloat("CATALOG_RATE_LIMIT", 5),
			RateBurst: getEnvInt("CATALOG_RATE_BURST", 5),
		},
		Notifier: NotifierConfig{
			Provider:   getEnv("NOTIFIER_PROVIDER", "mock"),
			WebhookURL: getEnv("NOTIFIER_WEBHOOK_URL", ""),
			Timeout:    notifierTimeout,
		},
		Job: JobConfig{
			DailyDigestCron: getEnv("JOB_DAILY_DIGEST_CRON", "0 9 * * *"),
			DigestBatchSize: getEnvInt("JOB_DIGEST_BATCH_SIZE", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Catalog.APIKey == "" {
			return fmt.Errorf("GOOGLE_BOOKS_API_KEY must be set in production")
		}
		if c.Notifier.Provider == "webhook" && c.Notifier.WebhookURL == "" {
			return fmt.Errorf("NOTIFIER_WEBHOOK_URL must be set when NOTIFIER_PROVIDER=webhook")
		}
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
