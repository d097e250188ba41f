package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stockdata/internal/collector"
	"stockdata/internal/config"
	"stockdata/internal/live"
	"stockdata/internal/logger"
	"stockdata/internal/model"
	"stockdata/internal/reader"
	"stockdata/internal/recorder"
	"stockdata/internal/store"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	var (
		ticker      = flag.String("ticker", "", "ticker symbol to read (required)")
		source      = flag.String("source", "", "data source: yahoo, tiingo or mock (default from config)")
		endFlag     = flag.String("end", "", "last day to include, YYYY-MM-DD (default today)")
		cfgPath     = flag.String("config", "configs/config.yaml", "path to configuration file")
		cacheDir    = flag.String("cache-dir", "", "cache directory (default from config)")
		noCache     = flag.Bool("no-cache", false, "bypass the per-source cache")
		noReference = flag.Bool("no-reference", false, "skip the reference overlay")
		out         = flag.String("out", "-", "write the result CSV here, - for stdout")
		tail        = flag.Int("tail", 0, "keep only the last N rows of the output")
	)
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: fetch -ticker SYMBOL [-source yahoo|tiingo|mock] [-end YYYY-MM-DD]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var end time.Time
	if *endFlag != "" {
		var err error
		end, err = model.ParseDay(*endFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -end %q, want YYYY-MM-DD\n", *endFlag)
			os.Exit(2)
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	// Keep stdout clean for the CSV stream.
	logOutput := cfg.Logging.Output
	if logOutput == "stdout" && *out == "-" {
		logOutput = "stderr"
	}
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, logOutput, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

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

	dir := *cacheDir
	if dir == "" {
		dir = cfg.Cache.Dir
	}

	rd, err := reader.New(reader.Options{
		CacheDir:    dir,
		NoCache:     *noCache || cfg.Cache.Disabled,
		NoReference: *noReference || cfg.Reference.Disabled,
		Source:      cfg.Source,
		Fetchers:    newRegistry(cfg),
		Quotes:      live.NewYahooQuoteClient("", cfg.Fetcher.Proxy),
		Recorder:    rec,
	})
	if err != nil {
		log.WithError(err).Error("Failed to build reader")
		os.Exit(1)
	}

	result, err := rd.Read(*ticker, *source, end)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{"ticker": *ticker}).Error("read failed")
		os.Exit(1)
	}

	if *tail > 0 && result.Len() > *tail {
		result = result[result.Len()-*tail:]
	}

	if err := writeResult(*out, result); err != nil {
		log.WithError(err).Error("write output failed")
		os.Exit(1)
	}

	if !result.Empty() {
		fmt.Fprintf(os.Stderr, "%s: %d rows, %s through %s\n",
			*ticker, result.Len(), model.FormatDay(result.Start()), model.FormatDay(result.End()))
	} else {
		fmt.Fprintf(os.Stderr, "%s: no rows\n", *ticker)
	}
}

func newRegistry(cfg *config.Config) collector.Registry {
	return collector.NewRegistry(
		collector.NewYahooFetcher(cfg.Fetcher.Proxy, cfg.Fetcher.RateLimitRPS, cfg.Fetcher.RateLimitBurst),
		collector.NewTiingoFetcher(cfg.Fetcher.TiingoBaseURL, cfg.Fetcher.TiingoAPIKey, cfg.Fetcher.Proxy, cfg.Fetcher.RateLimitRPS, cfg.Fetcher.RateLimitBurst),
		&collector.MockFetcher{},
	)
}

func writeResult(out string, result model.Series) error {
	if out == "-" {
		return store.Encode(os.Stdout, result)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := store.Encode(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
