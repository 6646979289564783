package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/config"
	"github.com/jonathan/mediawatch/internal/generation"
	"github.com/jonathan/mediawatch/internal/notify"
	"github.com/jonathan/mediawatch/internal/queue"
	"github.com/jonathan/mediawatch/internal/runner"
)

var workerConcurrency int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume the generation queue",
	Long:  `Run a pool of consumers that pull pending submissions off the Redis queue and drive them through generation. Requires REDIS_ADDR.`,
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of consumers (overrides WORKER_CONCURRENCY)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if workerConcurrency > 0 {
		cfg.WorkerConcurrency = workerConcurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR environment variable is required for the worker")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer llmClient.Close()

	q, err := newQueue(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to queue broker: %w", err)
	}
	defer q.Close()

	notifier := notify.NewStatsNotifier(database, logger)
	adapter := generation.NewAdapter(llmClient, logger)
	proc := runner.New(database, adapter, notifier, logger)

	w := queue.NewWorker(q, proc.Process, cfg.WorkerConcurrency, logger)

	logger.Info("worker starting",
		zap.Int("concurrency", cfg.WorkerConcurrency),
		zap.String("queue", cfg.RedisAddr))

	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	logger.Info("worker stopped")
	return nil
}
