// Package config provides environment-driven configuration for the service
// commands. Values come from the process environment (a .env file is loaded
// by main before this runs); defaults cover everything except credentials.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the serve and worker commands need.
type Config struct {
	// HTTP
	Port string

	// Database
	DatabaseURL string

	// Queue broker. Empty means no broker: every dispatch runs inline.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QueueKey      string

	// Generation backend
	LLMProvider     string // "anthropic" or "gemini"
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Delivery
	SendGridAPIKey string
	FromEmail      string
	FromName       string

	// Workers
	WorkerConcurrency int
	StuckThreshold    time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		QueueKey:          os.Getenv("QUEUE_KEY"),
		LLMProvider:       getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		FromEmail:         os.Getenv("SENDGRID_FROM_EMAIL"),
		FromName:          getEnv("SENDGRID_FROM_NAME", "MediaWatch"),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		StuckThreshold:    getEnvDuration("STUCK_THRESHOLD", 30*time.Minute),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.AnthropicAPIKey
}

// Validate checks that required settings are present for a service command.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.LLMProvider {
	case "anthropic", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be anthropic or gemini, got %q", c.LLMProvider)
	}
	if c.APIKey() == "" {
		return fmt.Errorf("no API key configured for provider %s", c.LLMProvider)
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
