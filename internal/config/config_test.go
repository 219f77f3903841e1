package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
database: /var/lib/barage/jobs.db
polling_interval: 15m
retention: 168h
search:
  keywords: golang
  location: remote
  limit_per_source: 20
sources:
  - name: remotive
    enabled: true
    timeout: 10s
  - name: HN
    enabled: false
rate_limit:
  min_delay: 1s
  source_overrides:
    Remotive: 1m
retry:
  max_retries: 2
  base_delay: 3s
server:
  addr: 127.0.0.1:9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database != "/var/lib/barage/jobs.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.PollingInterval != 15*time.Minute {
		t.Errorf("PollingInterval = %v, want 15m", cfg.PollingInterval)
	}
	if cfg.Retention != 168*time.Hour {
		t.Errorf("Retention = %v, want 168h", cfg.Retention)
	}
	if cfg.Search != (SearchConfig{Keywords: "golang", Location: "remote", LimitPerSource: 20}) {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("Sources = %+v", cfg.Sources)
	}
	if cfg.Sources[0] != (SourceConfig{Name: SourceRemotive, Enabled: true, Timeout: 10 * time.Second}) {
		t.Errorf("Sources[0] = %+v", cfg.Sources[0])
	}
	if cfg.Sources[1].Name != SourceHN || cfg.Sources[1].Timeout != defaultSourceTimeout {
		t.Errorf("Sources[1] = %+v, want name normalized and default timeout", cfg.Sources[1])
	}
	if got := cfg.EnabledSources(); len(got) != 1 || got[0].Name != SourceRemotive {
		t.Errorf("EnabledSources = %+v", got)
	}
	if cfg.RateLimit.MinDelayFor("Remotive") != time.Minute {
		t.Errorf("MinDelayFor(Remotive) = %v, want 1m", cfg.RateLimit.MinDelayFor("Remotive"))
	}
	if cfg.RateLimit.MinDelayFor("Arbeitnow") != time.Second {
		t.Errorf("MinDelayFor(Arbeitnow) = %v, want 1s", cfg.RateLimit.MinDelayFor("Arbeitnow"))
	}
	if cfg.Retry != (RetryConfig{MaxRetries: 2, BaseDelay: 3 * time.Second}) {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log default", cfg.Notification.Type)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Database != def.Database || cfg.PollingInterval != def.PollingInterval {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if len(cfg.EnabledSources()) != 3 {
		t.Errorf("expected all three sources enabled, got %+v", cfg.Sources)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("expected retries disabled by default, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retention != 0 {
		t.Errorf("expected cleanup disabled by default, got %v", cfg.Retention)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("BARAGE_TEST_WEBHOOK", "https://hooks.slack.com/services/T/B/X")
	cfg, err := Load(writeConfig(t, `
notification:
  type: slack
  webhook_url: ${BARAGE_TEST_WEBHOOK}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("WebhookURL = %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "polling_interval: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero polling interval", "polling_interval: 0s", "polling_interval"},
		{"bad duration", "polling_interval: soon", "polling_interval"},
		{"negative retention", "retention: -1h", "retention"},
		{"unknown source", "sources:\n  - name: monster\n    enabled: true", "unknown source"},
		{"duplicate source", "sources:\n  - name: hn\n    enabled: true\n  - name: hn\n    enabled: true", "twice"},
		{"no enabled sources", "sources:\n  - name: hn\n    enabled: false", "at least one source"},
		{"timeout too long", "sources:\n  - name: hn\n    enabled: true\n    timeout: 5m", "timeout"},
		{"bad override", "rate_limit:\n  source_overrides:\n    Remotive: often", "source_overrides"},
		{"negative retries", "retry:\n  max_retries: -1", "max_retries"},
		{"slack without webhook", "notification:\n  type: slack", "webhook_url is required"},
		{"slack wrong host", "notification:\n  type: slack\n  webhook_url: https://example.com/hook", "must start with"},
		{"unknown notifier", "notification:\n  type: email", "notification.type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}
