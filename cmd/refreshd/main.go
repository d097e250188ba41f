package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stockdata/internal/collector"
	"stockdata/internal/config"
	"stockdata/internal/live"
	"stockdata/internal/logger"
	"stockdata/internal/manifest"
	"stockdata/internal/reader"
	"stockdata/internal/recorder"
	"stockdata/internal/scheduler"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Error("load config failed")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("config validation failed")
		os.Exit(1)
	}
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("configure logger failed")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"source":  cfg.Source,
		"tickers": len(cfg.Refresh.Tickers),
		"cron":    cfg.Refresh.Cron,
	}).Info("refreshd starting")

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
		} else {
			rec = sr
			defer sr.Close()
		}
	}

	// Init reader
	fetchers := collector.NewRegistry(
		collector.NewYahooFetcher(cfg.Fetcher.Proxy, cfg.Fetcher.RateLimitRPS, cfg.Fetcher.RateLimitBurst),
		collector.NewTiingoFetcher(cfg.Fetcher.TiingoBaseURL, cfg.Fetcher.TiingoAPIKey, cfg.Fetcher.Proxy, cfg.Fetcher.RateLimitRPS, cfg.Fetcher.RateLimitBurst),
		&collector.MockFetcher{},
	)
	rd, err := reader.New(reader.Options{
		CacheDir:    cfg.Cache.Dir,
		NoCache:     cfg.Cache.Disabled,
		NoReference: cfg.Reference.Disabled,
		Source:      cfg.Source,
		Fetchers:    fetchers,
		Quotes:      live.NewYahooQuoteClient("", cfg.Fetcher.Proxy),
		Recorder:    rec,
	})
	if err != nil {
		log.WithError(err).Error("build reader failed")
		os.Exit(1)
	}

	// Init refresh manifest
	man, err := manifest.NewManager(cfg.Refresh.StateFile)
	if err != nil {
		log.WithError(err).Error("load refresh manifest failed")
		os.Exit(1)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, rd, man, rec, cfg.Source, cfg.Refresh.Tickers)
	if err := sched.Register(cfg.Refresh.Cron); err != nil {
		log.WithError(err).Error("register refresh task failed")
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: refresh immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing refresh now")
		go sched.RunRefreshNow()
	}

	log.Info("refreshd is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
	log.Info("refreshd stopped")
}
