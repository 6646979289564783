package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, expected default 8080", cfg.Port)
	}
	if cfg.WorkerConcurrency != 4 {
		t.Errorf("WorkerConcurrency = %d, expected 4", cfg.WorkerConcurrency)
	}
	if cfg.StuckThreshold != 30*time.Minute {
		t.Errorf("StuckThreshold = %v, expected 30m", cfg.StuckThreshold)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("STUCK_THRESHOLD", "1h")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.APIKey() != "g-key" {
		t.Errorf("APIKey() = %q, expected gemini key for gemini provider", cfg.APIKey())
	}
	if cfg.WorkerConcurrency != 8 {
		t.Errorf("WorkerConcurrency = %d", cfg.WorkerConcurrency)
	}
	if cfg.StuckThreshold != time.Hour {
		t.Errorf("StuckThreshold = %v", cfg.StuckThreshold)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "many")
	t.Setenv("STUCK_THRESHOLD", "soon")

	cfg := Load()
	if cfg.WorkerConcurrency != 4 {
		t.Errorf("WorkerConcurrency = %d, expected fallback 4", cfg.WorkerConcurrency)
	}
	if cfg.StuckThreshold != 30*time.Minute {
		t.Errorf("StuckThreshold = %v, expected fallback", cfg.StuckThreshold)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid anthropic", func(c *Config) {}, false},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"unknown provider", func(c *Config) { c.LLMProvider = "openai" }, true},
		{"missing key", func(c *Config) { c.AnthropicAPIKey = "" }, true},
		{"bad concurrency", func(c *Config) { c.WorkerConcurrency = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabaseURL:       "postgres://localhost/mediawatch",
				LLMProvider:       "anthropic",
				AnthropicAPIKey:   "key",
				WorkerConcurrency: 4,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
