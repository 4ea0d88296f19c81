/**
 * Configuration for Document Intelligence Worker
 *
 * Loads configuration from environment variables, with .env support
 * handled by the entry point.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds worker configuration
type Config struct {
	// Queue backend: "memory" or "redis"
	QueueBackend string
	RedisURL     string
	QueueName    string

	// Result sink backend: "postgres", "sqlite" or "memory"
	ResultBackend string
	DatabaseURL   string
	SQLitePath    string

	// Worker configuration
	WorkerConcurrency int
	PollInterval      time.Duration
	MaxAttempts       int

	// OCR configuration
	OCRTimeout   time.Duration
	DefaultLangs string

	// Suspicion evaluation
	MinConfidence float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		QueueBackend:      getEnvOrDefault("QUEUE_BACKEND", "memory"),
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		QueueName:         getEnvOrDefault("QUEUE_NAME", "docintel:jobs"),
		ResultBackend:     getEnvOrDefault("RESULT_BACKEND", "memory"),
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", ""),
		SQLitePath:        getEnvOrDefault("SQLITE_PATH", "docintel.db"),
		WorkerConcurrency: getEnvAsIntOrDefault("WORKER_CONCURRENCY", 4),
		PollInterval:      getEnvAsDurationOrDefault("POLL_INTERVAL_MS", 250*time.Millisecond),
		MaxAttempts:       getEnvAsIntOrDefault("MAX_ATTEMPTS", 3),
		OCRTimeout:        getEnvAsDurationOrDefault("OCR_TIMEOUT_MS", 30*time.Second),
		DefaultLangs:      getEnvOrDefault("OCR_LANGUAGES", "eng"),
		MinConfidence:     getEnvAsFloatOrDefault("MIN_CONFIDENCE", 0.6),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	switch c.QueueBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("QUEUE_BACKEND must be memory or redis, got %q", c.QueueBackend)
	}

	switch c.ResultBackend {
	case "memory", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when RESULT_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("RESULT_BACKEND must be postgres, sqlite or memory, got %q", c.ResultBackend)
	}

	if c.QueueBackend == "redis" && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when QUEUE_BACKEND=redis")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 100 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 100, got %d", c.WorkerConcurrency)
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}

	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MIN_CONFIDENCE must be in [0,1], got %f", c.MinConfidence)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
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

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
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

// getEnvAsDurationOrDefault reads a millisecond count or returns default
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	ms, err := strconv.Atoi(valueStr)
	if err != nil || ms <= 0 {
		return defaultValue
	}

	return time.Duration(ms) * time.Millisecond
}
