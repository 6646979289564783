package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/mediawatch/internal/config"
	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/llm"
	"github.com/jonathan/mediawatch/internal/queue"
)

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// connectDB opens the connection pool from configuration.
func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.Connect(ctx, cfg.DatabaseURL)
}

// newLLMClient builds the generation backend client for the configured
// provider.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	var llmCfg *llm.Config
	if cfg.LLMProvider == "gemini" {
		llmCfg = llm.DefaultGeminiConfig()
	} else {
		llmCfg = llm.DefaultAnthropicConfig()
	}
	return llm.NewClient(ctx, llmCfg, cfg.APIKey())
}

// newQueue connects to the Redis broker when one is configured. A nil queue
// with a nil error means no broker is configured and dispatch runs inline.
func newQueue(cfg *config.Config, logger *zap.Logger) (queue.Queue, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	return queue.NewRedisQueue(queue.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Key:      cfg.QueueKey,
	}, logger)
}
