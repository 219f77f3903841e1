package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rexlunae/employment-barage/internal/adapter"
	"github.com/rexlunae/employment-barage/internal/aggregator"
	"github.com/rexlunae/employment-barage/internal/config"
	"github.com/rexlunae/employment-barage/internal/model"
	"github.com/rexlunae/employment-barage/internal/notifier"
	"github.com/rexlunae/employment-barage/internal/ratelimit"
	"github.com/rexlunae/employment-barage/internal/retry"
)

const (
	configEnv         = "BARAGE_CONFIG"
	defaultConfigPath = "config.yaml"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "barage",
	Short:        "Job postings aggregator",
	Long:         "barage pulls job postings from Remotive, the Hacker News \"Who is hiring?\" thread and Arbeitnow into one normalized list.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+configEnv+" env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > BARAGE_CONFIG env var > "./config.yaml".
// A missing ./config.yaml falls back to built-in defaults; a missing
// explicit file is an error.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		cfg, err := config.Load(defaultConfigPath)
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return cfg, err
	}
	return config.Load(path)
}

// setupLogger logs to stderr so stdout stays clean for --json output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func newAdapter(name string, httpClient *http.Client) (model.Source, error) {
	switch name {
	case config.SourceRemotive:
		return adapter.NewRemotiveAdapter(httpClient), nil
	case config.SourceHN:
		return adapter.NewHNHiringAdapter(httpClient), nil
	case config.SourceArbeitnow:
		return adapter.NewArbeitnowAdapter(httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported source %q", name)
	}
}

// buildSources creates one decorated source per enabled config entry. Every
// source gets its own HTTP client timeout, the shared per-source rate limiter
// and, when configured, the retry decorator.
func buildSources(cfg *config.Config, logger *slog.Logger) ([]model.Source, error) {
	limiter := ratelimit.NewSourceRateLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.SourceOverrides)

	var sources []model.Source
	for _, sc := range cfg.EnabledSources() {
		src, err := newAdapter(sc.Name, &http.Client{Timeout: sc.Timeout})
		if err != nil {
			return nil, err
		}
		src = ratelimit.NewRateLimitedSource(src, limiter)
		if cfg.Retry.MaxRetries > 0 {
			src = retry.NewRetrySource(src, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
		}
		sources = append(sources, src)
		logger.Debug("registered source", "name", src.Name(), "timeout", sc.Timeout.String())
	}
	if len(sources) == 0 {
		return nil, errors.New("no sources enabled")
	}
	return sources, nil
}

func buildAggregator(cfg *config.Config, logger *slog.Logger) (*aggregator.Aggregator, error) {
	sources, err := buildSources(cfg, logger)
	if err != nil {
		return nil, err
	}
	return aggregator.New(sources, logger), nil
}

// defaultQuery is the configured search used when flags leave fields unset.
func defaultQuery(cfg *config.Config) model.Query {
	return model.Query{
		Keywords: cfg.Search.Keywords,
		Location: cfg.Search.Location,
		Limit:    cfg.Search.LimitPerSource,
	}
}
