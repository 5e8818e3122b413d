package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"AlphaScanner/internal/collector"
	"AlphaScanner/internal/config"
	"AlphaScanner/internal/exporter"
	"AlphaScanner/internal/model"
	"AlphaScanner/internal/notifier"
	"AlphaScanner/internal/recorder"
	"AlphaScanner/internal/scanner"
	"AlphaScanner/internal/scheduler"
	"AlphaScanner/internal/strategy"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single scan and exit")
	flag.Parse()
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Log.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	log.Info().Str("config", *cfgPath).Msg("AlphaScanner starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Market data
	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")
	col := collector.NewCollector(fetcher, cfg.DataSource.Days)

	// External inputs
	var fundamentals collector.FundamentalsProvider
	if cfg.Universe.FundamentalsFile != "" {
		ff, err := collector.LoadFundamentalsFile(cfg.Universe.FundamentalsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load fundamentals")
		}
		fundamentals = ff
	}
	var sentiment collector.SentimentProvider
	if cfg.Universe.SentimentFile != "" {
		sf, err := collector.LoadSentimentFile(cfg.Universe.SentimentFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load sentiment")
		}
		sentiment = sf
	}

	// Persistence
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}
	history := recorder.NewRedisHistory(rdb, cfg.Redis.SeenTTL)

	sc := scanner.New(scanner.Options{
		Collector:    col,
		Scorer:       strategy.NewScorer(cfg.Scoring),
		Fundamentals: fundamentals,
		Sentiment:    sentiment,
		History:      history,
		Filter:       cfg.Universe.Filter,
		Workers:      cfg.Scan.Workers,
		FetchTimeout: cfg.Scan.FetchTimeout,
	})

	universe := func() ([]model.Symbol, error) {
		if cfg.Universe.File != "" {
			return collector.LoadUniverse(cfg.Universe.File)
		}
		return cfg.Universe.Symbols, nil
	}

	sched := scheduler.NewScheduler(ctx, sc, universe, rec)
	sched.TopN = cfg.Telegram.TopN
	if cfg.Export.Format != "" {
		sched.Saver = exporter.NewSaver(cfg.Export.Format)
		sched.ExportDir = cfg.Export.Dir
	}

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched.Notifier = tn
	}

	if *once {
		if _, err := sched.RunNow(); err != nil {
			log.Fatal().Err(err).Msg("scan failed")
		}
		return
	}

	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, scanning now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Error().Err(err).Msg("startup scan failed")
			}
		}()
	}

	log.Info().Str("cron", cfg.Schedule.ScanCron).Msg("AlphaScanner is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.DataSource.Kind {
	case "rest":
		f = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "file":
		return &collector.FileFetcher{Dir: cfg.DataSource.Dir}
	case "mock":
		return &collector.MockFetcher{Price: 10, Drift: 0.002}
	default:
		f = collector.NewYahooFetcher(cfg.Proxy)
	}
	rf := collector.NewRetryFetcher(f)
	rf.MaxRetries = uint64(cfg.DataSource.Retries)
	return rf
}
