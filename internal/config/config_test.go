package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"AlphaScanner/internal/strategy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataSource.Kind != "yahoo" || cfg.DataSource.Days != 120 || cfg.DataSource.Retries != 3 {
		t.Errorf("data_source defaults = %+v", cfg.DataSource)
	}
	if cfg.Schedule.ScanCron != "0 30 15 * * 1-5" {
		t.Errorf("scan_cron = %q", cfg.Schedule.ScanCron)
	}
	if cfg.Scan.FetchTimeout != 20*time.Second || cfg.Telegram.TopN != 10 {
		t.Errorf("scan = %+v, top_n = %d", cfg.Scan, cfg.Telegram.TopN)
	}
	if cfg.Scoring.PublishThreshold != 60 || cfg.Universe.Filter.MinPrice != 3 {
		t.Errorf("policy and filter should start from defaults")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: file-token
  chat_id: "42"
data_source:
  kind: file
  dir: /data/bars
universe:
  symbols:
    - {code: "600519", name: 贵州茅台}
  filter:
    min_price: 5
scan:
  workers: 4
  fetch_timeout: 5s
scoring:
  publish_threshold: 70
  severity:
    bearish_pattern: veto
redis:
  seen_ttl: 48h
export:
  format: parquet
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("CRON_SCAN", "0 0 16 * * 1-5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "42" {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Schedule.ScanCron != "0 0 16 * * 1-5" {
		t.Errorf("scan_cron = %q", cfg.Schedule.ScanCron)
	}
	if len(cfg.Universe.Symbols) != 1 || cfg.Universe.Symbols[0].Name != "贵州茅台" {
		t.Errorf("symbols = %+v", cfg.Universe.Symbols)
	}
	if cfg.Universe.Filter.MinPrice != 5 || cfg.Universe.Filter.MinMarketCap != 40e8 {
		t.Errorf("filter = %+v", cfg.Universe.Filter)
	}
	if cfg.Scan.Workers != 4 || cfg.Scan.FetchTimeout != 5*time.Second || cfg.Redis.SeenTTL != 48*time.Hour {
		t.Errorf("durations not parsed: scan=%+v redis=%+v", cfg.Scan, cfg.Redis)
	}
	if cfg.Scoring.PublishThreshold != 70 || cfg.Scoring.Severity.BearishPattern != strategy.SeverityVeto {
		t.Errorf("scoring overrides = %+v", cfg.Scoring.Severity)
	}
	if cfg.Scoring.Severity.BearishTrend != strategy.SeverityVeto || cfg.Scoring.TrendBonus != 20 {
		t.Errorf("untouched scoring keys should keep defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, "chat_id"},
		{"unknown source", func(c *Config) { c.DataSource.Kind = "ftp" }, "data_source.kind"},
		{"rest without url", func(c *Config) { c.DataSource.Kind = "rest" }, "base_url"},
		{"file without dir", func(c *Config) { c.DataSource.Kind = "file" }, "data_source.dir"},
		{"short history", func(c *Config) { c.DataSource.Days = 30 }, "days"},
		{"no universe", func(c *Config) { c.Universe.Symbols = nil }, "universe"},
		{"bad export", func(c *Config) { c.Export.Format = "xlsx" }, "export.format"},
		{"bad severity", func(c *Config) { c.Scoring.Severity.BearishTrend = "maybe" }, "scoring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			cfg.Universe.File = "universe.yaml"
			if tt.name == "no universe" {
				cfg.Universe.File = ""
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
