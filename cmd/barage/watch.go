package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rexlunae/employment-barage/internal/ingest"
	"github.com/rexlunae/employment-barage/internal/scheduler"
	"github.com/rexlunae/employment-barage/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll sources on an interval and notify about new jobs",
	Long:  "Starts the ingest daemon; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
		"sources", len(cfg.EnabledSources()),
		"keywords", cfg.Search.Keywords,
		"location", cfg.Search.Location,
		"retention", cfg.Retention.String(),
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	agg, err := buildAggregator(cfg, logger)
	if err != nil {
		return err
	}
	pipeline := ingest.NewPipeline(agg, sqlStore, setupNotifier(cfg, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(pipeline, sqlStore, defaultQuery(cfg), cfg.PollingInterval, cfg.Retention, logger)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	logger.Info("goodbye")
	return nil
}
