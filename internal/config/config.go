package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AlphaScanner/internal/calculator"
	"AlphaScanner/internal/exporter"
	"AlphaScanner/internal/model"
	"AlphaScanner/internal/scanner"
	"AlphaScanner/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		TopN     int    `yaml:"top_n"`
	} `yaml:"telegram"`
	DataSource struct {
		// Kind is one of yahoo, rest, file or mock.
		Kind    string `yaml:"kind"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Dir     string `yaml:"dir"`
		Days    int    `yaml:"days"`
		Retries int    `yaml:"retries"`
	} `yaml:"data_source"`
	Universe struct {
		File             string                 `yaml:"file"`
		Symbols          []model.Symbol         `yaml:"symbols"`
		FundamentalsFile string                 `yaml:"fundamentals_file"`
		SentimentFile    string                 `yaml:"sentiment_file"`
		Filter           scanner.UniverseFilter `yaml:"filter"`
	} `yaml:"universe"`
	Scan struct {
		Workers      int           `yaml:"workers"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"scan"`
	Scoring  strategy.Policy `yaml:"scoring"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		SeenTTL  time.Duration `yaml:"seen_ttl"`
	} `yaml:"redis"`
	Export struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"`
	} `yaml:"export"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if any) into the environment, then the YAML file, then applies
// environment variable overrides and defaults. Scoring and universe filter start
// from their defaults so a file only needs to name what it changes.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	cfg.Scoring = strategy.DefaultPolicy()
	cfg.Universe.Filter = scanner.DefaultUniverseFilter()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Kind = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("UNIVERSE_FILE"); v != "" {
		cfg.Universe.File = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}
	if v := os.Getenv("PUBLISH_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.PublishThreshold = n
		}
	}

	// Defaults
	if cfg.Telegram.TopN == 0 {
		cfg.Telegram.TopN = 10
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = "yahoo"
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 120
	}
	if cfg.DataSource.Retries == 0 {
		cfg.DataSource.Retries = 3
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = scanner.DefaultWorkers
	}
	if cfg.Scan.FetchTimeout == 0 {
		cfg.Scan.FetchTimeout = scanner.DefaultFetchTimeout
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 15 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/alpha_scanner.db"
	}
	if cfg.Redis.SeenTTL == 0 {
		cfg.Redis.SeenTTL = 30 * 24 * time.Hour
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/export"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	switch c.DataSource.Kind {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for rest")
		}
	case "file":
		if c.DataSource.Dir == "" {
			return fmt.Errorf("data_source.dir is required for file")
		}
	default:
		return fmt.Errorf("data_source.kind %q is not one of yahoo, rest, file, mock", c.DataSource.Kind)
	}
	if c.DataSource.Days < calculator.MinBars {
		return fmt.Errorf("data_source.days must be at least %d", calculator.MinBars)
	}
	if c.Universe.File == "" && len(c.Universe.Symbols) == 0 {
		return fmt.Errorf("universe.file or universe.symbols is required")
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must not be negative")
	}
	if c.Export.Format != "" && exporter.NewSaver(c.Export.Format) == nil {
		return fmt.Errorf("export.format %q is not supported", c.Export.Format)
	}
	return c.Scoring.Validate()
}
