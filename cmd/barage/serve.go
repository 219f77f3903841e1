package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rexlunae/employment-barage/internal/httpapi"
	"github.com/rexlunae/employment-barage/internal/ingest"
	"github.com/rexlunae/employment-barage/internal/scheduler"
	"github.com/rexlunae/employment-barage/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveFlags struct {
	addr  string
	watch bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored jobs over a JSON HTTP API",
	Long:  "Starts the HTTP API and, with --watch, the ingest scheduler alongside it; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (default: server.addr from config)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "also poll sources on the configured interval")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	addr := cfg.Server.Addr
	if serveFlags.addr != "" {
		addr = serveFlags.addr
	}

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
	api := httpapi.NewServer(sqlStore, pipeline, agg.Sources(), defaultQuery(cfg), logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if serveFlags.watch {
		sched := scheduler.NewScheduler(pipeline, sqlStore, defaultQuery(cfg), cfg.PollingInterval, cfg.Retention, logger)
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("goodbye")
	return nil
}
