package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/config"
	"github.com/jonathan/mediawatch/internal/delivery"
	"github.com/jonathan/mediawatch/internal/dispatch"
	"github.com/jonathan/mediawatch/internal/generation"
	"github.com/jonathan/mediawatch/internal/notify"
	"github.com/jonathan/mediawatch/internal/research"
	"github.com/jonathan/mediawatch/internal/runner"
	"github.com/jonathan/mediawatch/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes submission intake, outlet management, delivery, and user stats endpoints. Without a Redis broker configured, generation runs inline on the request path.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
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

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer llmClient.Close()

	q, err := newQueue(cfg, logger)
	if err != nil {
		// A down broker at startup is not fatal: the dispatcher probes per
		// call and falls back to inline processing.
		logger.Warn("queue broker unavailable, dispatch will run inline", zap.Error(err))
		q = nil
	}
	if q != nil {
		defer q.Close()
	}

	notifier := notify.NewStatsNotifier(database, logger)
	adapter := generation.NewAdapter(llmClient, logger)
	proc := runner.New(database, adapter, notifier, logger)
	dispatcher := dispatch.New(q, proc, logger)

	var letters server.LetterService
	if cfg.SendGridAPIKey != "" {
		sender, err := delivery.NewSendGridSender(delivery.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create delivery sender: %w", err)
		}
		letters = delivery.NewService(database, sender, notifier, logger)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, letter delivery disabled")
	}

	deps := server.Deps{
		DB:         database,
		Dispatcher: dispatcher,
		Letters:    letters,
		Researcher: research.NewResearcher(llmClient, logger),
		Notifier:   notifier,
		Logger:     logger,
	}
	if q != nil {
		deps.Queue = q
	}

	srv := server.New(server.Config{Port: cfg.Port}, deps)

	return srv.Start()
}
