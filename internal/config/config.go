package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source names accepted under sources[].name.
const (
	SourceRemotive  = "remotive"
	SourceHN        = "hn"
	SourceArbeitnow = "arbeitnow"
)

const (
	defaultDatabase       = "jobs.db"
	defaultInterval       = 30 * time.Minute
	defaultLimitPerSource = 50
	defaultSourceTimeout  = 30 * time.Second
	maxSourceTimeout      = 2 * time.Minute
	defaultMinDelay       = 2 * time.Second
	defaultBaseDelay      = 5 * time.Second
	defaultServerAddr     = ":8080"
	slackWebhookPrefix    = "https://hooks.slack.com/"
)

// Config is the root configuration for the aggregator.
type Config struct {
	Database        string
	PollingInterval time.Duration
	Retention       time.Duration // zero disables cleanup
	Search          SearchConfig
	Sources         []SourceConfig
	RateLimit       RateLimitConfig
	Retry           RetryConfig
	Notification    NotificationConfig
	Server          ServerConfig
}

// SearchConfig is the default query used by watch, serve and fetch.
type SearchConfig struct {
	Keywords       string
	Location       string
	LimitPerSource int
}

// SourceConfig enables one upstream and bounds its HTTP calls.
type SourceConfig struct {
	Name    string
	Enabled bool
	Timeout time.Duration
}

// RateLimitConfig controls per-source request spacing.
type RateLimitConfig struct {
	MinDelay        time.Duration            // minimum gap between requests to the same source
	SourceOverrides map[string]time.Duration // keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.SourceOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls the retry decorator. MaxRetries 0 disables retries.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EnabledSources returns the enabled entries in config order.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Default returns the configuration used when no config file exists: every
// source enabled, log notifications and a local SQLite database.
func Default() *Config {
	return &Config{
		Database:        defaultDatabase,
		PollingInterval: defaultInterval,
		Search:          SearchConfig{LimitPerSource: defaultLimitPerSource},
		Sources: []SourceConfig{
			{Name: SourceRemotive, Enabled: true, Timeout: defaultSourceTimeout},
			{Name: SourceHN, Enabled: true, Timeout: defaultSourceTimeout},
			{Name: SourceArbeitnow, Enabled: true, Timeout: defaultSourceTimeout},
		},
		RateLimit: RateLimitConfig{
			MinDelay:        defaultMinDelay,
			SourceOverrides: map[string]time.Duration{},
		},
		Retry:        RetryConfig{BaseDelay: defaultBaseDelay},
		Notification: NotificationConfig{Type: "log"},
		Server:       ServerConfig{Addr: defaultServerAddr},
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Database        string             `yaml:"database"`
	PollingInterval string             `yaml:"polling_interval"`
	Retention       string             `yaml:"retention"`
	Search          rawSearchConfig    `yaml:"search"`
	Sources         []rawSourceConfig  `yaml:"sources"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Retry           rawRetryConfig     `yaml:"retry"`
	Notification    NotificationConfig `yaml:"notification"`
	Server          ServerConfig       `yaml:"server"`
}

type rawSearchConfig struct {
	Keywords       string `yaml:"keywords"`
	Location       string `yaml:"location"`
	LimitPerSource int    `yaml:"limit_per_source"`
}

type rawSourceConfig struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"`
}

type rawRateLimitConfig struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

type rawRetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	var err error

	if raw.Database != "" {
		cfg.Database = raw.Database
	}
	if cfg.PollingInterval, err = durationOr(raw.PollingInterval, cfg.PollingInterval, "polling_interval"); err != nil {
		return nil, err
	}
	if cfg.Retention, err = durationOr(raw.Retention, 0, "retention"); err != nil {
		return nil, err
	}

	cfg.Search.Keywords = raw.Search.Keywords
	cfg.Search.Location = raw.Search.Location
	if raw.Search.LimitPerSource != 0 {
		cfg.Search.LimitPerSource = raw.Search.LimitPerSource
	}

	if len(raw.Sources) > 0 {
		cfg.Sources = make([]SourceConfig, 0, len(raw.Sources))
		for i, s := range raw.Sources {
			timeout, err := durationOr(s.Timeout, defaultSourceTimeout, fmt.Sprintf("sources[%d].timeout", i))
			if err != nil {
				return nil, err
			}
			cfg.Sources = append(cfg.Sources, SourceConfig{
				Name:    strings.ToLower(strings.TrimSpace(s.Name)),
				Enabled: s.Enabled,
				Timeout: timeout,
			})
		}
	}

	if cfg.RateLimit.MinDelay, err = durationOr(raw.RateLimit.MinDelay, cfg.RateLimit.MinDelay, "rate_limit.min_delay"); err != nil {
		return nil, err
	}
	for name, raw := range raw.RateLimit.SourceOverrides {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", name, err)
		}
		cfg.RateLimit.SourceOverrides[name] = d
	}

	cfg.Retry.MaxRetries = raw.Retry.MaxRetries
	if cfg.Retry.BaseDelay, err = durationOr(raw.Retry.BaseDelay, cfg.Retry.BaseDelay, "retry.base_delay"); err != nil {
		return nil, err
	}

	if raw.Notification.Type != "" {
		cfg.Notification = raw.Notification
	}
	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func durationOr(s string, def time.Duration, key string) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, s, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.Database == "" {
		return fmt.Errorf("database must not be empty")
	}
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.Retention < 0 {
		return fmt.Errorf("retention must not be negative, got %v", cfg.Retention)
	}
	if cfg.Search.LimitPerSource < 0 {
		return fmt.Errorf("search.limit_per_source must not be negative, got %d", cfg.Search.LimitPerSource)
	}

	seen := make(map[string]bool)
	for _, s := range cfg.Sources {
		switch s.Name {
		case SourceRemotive, SourceHN, SourceArbeitnow:
		default:
			return fmt.Errorf("unknown source %q (want remotive, hn or arbeitnow)", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q listed twice", s.Name)
		}
		seen[s.Name] = true
		if s.Timeout <= 0 || s.Timeout > maxSourceTimeout {
			return fmt.Errorf("sources.%s.timeout must be between 0 and %v, got %v", s.Name, maxSourceTimeout, s.Timeout)
		}
	}
	if len(cfg.EnabledSources()) == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.MaxRetries > 0 && cfg.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base_delay must be positive when retries are enabled")
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
