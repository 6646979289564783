// Package llm provides centralized model configuration and client abstractions
// over the supported generation providers.
package llm

import (
	"context"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: outlet research, short extractions
	TierLite ModelTier = "lite"
	// TierStandard is for structured document generation
	TierStandard ModelTier = "standard"
)

// Provider represents a generation backend provider
type Provider string

// Provider constants define supported providers
const (
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration injected into clients at construction
// time. There is no ambient global: every consumer receives its own Config.
type Config struct {
	Provider  Provider
	Models    map[ModelTier]string
	MaxTokens int
	// Timeout bounds each generation call end to end.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (Anthropic)
func DefaultConfig() *Config {
	return DefaultAnthropicConfig()
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-20250514",
		},
		MaxTokens: 4000,
		Timeout:   120 * time.Second,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		MaxTokens: 4000,
		Timeout:   120 * time.Second,
	}
}

// GetModel returns the model name for a given tier, falling back to the
// standard tier when the requested tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return ""
}

// CallContext derives the context for one generation call, bounded by the
// configured timeout. A hung provider must not hold a worker goroutine past
// the deadline: the cancellation surfaces as context.DeadlineExceeded, which
// callers classify as transient.
func (c *Config) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:  c.Provider,
		Models:    make(map[ModelTier]string),
		MaxTokens: c.MaxTokens,
		Timeout:   c.Timeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
