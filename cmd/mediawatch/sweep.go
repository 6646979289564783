package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/config"
	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/dispatch"
	"github.com/jonathan/mediawatch/internal/generation"
	"github.com/jonathan/mediawatch/internal/notify"
	"github.com/jonathan/mediawatch/internal/runner"
)

var (
	sweepOlderThan time.Duration
	sweepLimit     int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recover submissions stuck in processing",
	Long:  `Find submissions that have sat in processing longer than the threshold (a crashed worker, usually), reset them to pending, and dispatch them again. Run this from cron.`,
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepOlderThan, "older-than", 0, "Processing age threshold (overrides STUCK_THRESHOLD)")
	sweepCmd.Flags().IntVar(&sweepLimit, "limit", 100, "Maximum submissions to recover per run")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if sweepOlderThan > 0 {
		cfg.StuckThreshold = sweepOlderThan
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	stuck, err := database.ListStuck(ctx, cfg.StuckThreshold, sweepLimit)
	if err != nil {
		return fmt.Errorf("failed to list stuck submissions: %w", err)
	}
	if len(stuck) == 0 {
		fmt.Println("No stuck submissions")
		return nil
	}

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer llmClient.Close()

	q, err := newQueue(cfg, logger)
	if err != nil {
		logger.Warn("queue broker unavailable, recovered submissions run inline", zap.Error(err))
		q = nil
	}
	if q != nil {
		defer q.Close()
	}

	notifier := notify.NewStatsNotifier(database, logger)
	proc := runner.New(database, generation.NewAdapter(llmClient, logger), notifier, logger)
	dispatcher := dispatch.New(q, proc, logger)

	recovered := 0
	for _, sub := range stuck {
		// Stuck pending means a lost enqueue; dispatching again is enough.
		// Stuck processing means a dead worker; reset to pending first.
		if sub.Status == db.StatusProcessing {
			reset, err := database.ResetStuckProcessing(ctx, sub.ID)
			if err != nil {
				logger.Error("failed to reset stuck submission",
					zap.String("submission_id", sub.ID.String()),
					zap.Error(err))
				continue
			}
			if !reset {
				// Finished between the listing and the reset; nothing to do.
				continue
			}
		}
		if err := dispatcher.Dispatch(ctx, sub.ID); err != nil {
			logger.Error("failed to redispatch recovered submission",
				zap.String("submission_id", sub.ID.String()),
				zap.Error(err))
			continue
		}
		recovered++
	}

	fmt.Printf("Recovered %d of %d stuck submissions\n", recovered, len(stuck))
	return nil
}
