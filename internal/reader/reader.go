// Package reader implements the cache-reconciling read path: it serves a
// price series from the local cache where possible, fetches only the
// missing tail from the vendor, overlays the curated reference series and
// the live intraday quote, and writes both layers back to disk.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stockdata/internal/collector"
	"stockdata/internal/live"
	"stockdata/internal/logger"
	"stockdata/internal/model"
	"stockdata/internal/recorder"
	"stockdata/internal/series"
	"stockdata/internal/store"
)

// origin is the fixed lower bound for full-history fetches, safely before
// any series a vendor can deliver.
var origin = time.Date(1926, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultSource is the vendor used when a read names no source.
const DefaultSource = "yahoo"

// Options configures a DataReader. The zero value enables caching and
// reference use with Yahoo bar and quote fetchers against
// $HOME/stock-data, matching the defaults of the one-shot Read wrapper.
type Options struct {
	CacheDir    string
	NoCache     bool // serve nothing from per-source cache files
	NoReference bool // skip the reference overlay on reads
	Source      string
	Fetchers    collector.Registry
	Quotes      live.QuoteFetcher
	Recorder    recorder.Recorder
	Now         func() time.Time
}

// DataReader reconciles cached, fetched, reference and live data into one
// series per read.
type DataReader struct {
	store        *store.Store
	fetchers     collector.Registry
	quotes       live.QuoteFetcher
	rec          recorder.Recorder
	enableCache  bool
	useReference bool
	source       string
	now          func() time.Time
	log          *logger.Entry
}

// New builds a DataReader, creating the cache directory if needed.
func New(opts Options) (*DataReader, error) {
	dir := opts.CacheDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, "stock-data")
	}
	st, err := store.New(dir)
	if err != nil {
		return nil, err
	}

	fetchers := opts.Fetchers
	if fetchers == nil {
		fetchers = collector.NewRegistry(collector.NewYahooFetcher("", 0, 0))
	}
	quotes := opts.Quotes
	if quotes == nil {
		quotes = live.NewYahooQuoteClient("", "")
	}
	rec := opts.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	source := opts.Source
	if source == "" {
		source = DefaultSource
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &DataReader{
		store:        st,
		fetchers:     fetchers,
		quotes:       quotes,
		rec:          rec,
		enableCache:  !opts.NoCache,
		useReference: !opts.NoReference,
		source:       source,
		now:          now,
		log:          logger.GetLogger().WithComponent("reader"),
	}, nil
}

// Store exposes the underlying cache store, mainly for tooling.
func (r *DataReader) Store() *store.Store { return r.store }

// Read returns the daily series for ticker up to and including end. An
// empty source uses the reader's default; a zero end means today. The raw
// series is always written back under (ticker, source) and the final
// result under (ticker, "reference"), whether or not those layers were
// consulted.
func (r *DataReader) Read(ticker, source string, end time.Time) (model.Series, error) {
	began := time.Now()
	today := model.Day(r.now())
	if source == "" {
		source = r.source
	}
	if end.IsZero() {
		end = today
	} else {
		end = model.Day(end)
	}

	evt := &recorder.ReadEvent{Ticker: ticker, Source: source, End: end}

	raw, err := r.readRaw(ticker, source, end, evt)
	if err != nil {
		return nil, err
	}
	if err := r.store.Write(ticker, source, raw.persist); err != nil {
		return nil, fmt.Errorf("persist raw series: %w", err)
	}

	result := raw.serve
	if r.useReference {
		ref, found, err := r.store.Read(ticker, store.Reference)
		if err != nil {
			return nil, fmt.Errorf("read reference: %w", err)
		}
		if found {
			result = series.Merge(ref, series.Since(raw.serve, ref.End()))
		}
	}

	if end.Equal(today) {
		evt.LiveApplied = r.overlayLiveQuote(ticker, result)
	}

	if err := r.store.Write(ticker, store.Reference, result); err != nil {
		return nil, fmt.Errorf("persist reference series: %w", err)
	}

	evt.RowsReturned = len(result)
	evt.Duration = time.Since(began)
	if err := r.rec.RecordRead(evt); err != nil {
		r.log.WithError(err).Warn("record read failed")
	}

	r.log.WithFields(logger.Fields{
		"ticker": ticker,
		"source": source,
		"end":    model.FormatDay(end),
		"cache":  evt.CacheState,
		"rows":   len(result),
	}).Info("read complete")
	return result, nil
}

type rawResult struct {
	serve   model.Series
	persist model.Series
}

// readRaw assembles the single-source series for [origin, end], fetching
// only what the cache does not already cover. serve is what the caller
// asked for; persist is what goes back to disk, which on a truncated
// serve keeps the longer cached history.
func (r *DataReader) readRaw(ticker, source string, end time.Time, evt *recorder.ReadEvent) (rawResult, error) {
	if !r.enableCache {
		evt.CacheState = recorder.CacheDisabled
		fetched, err := r.fetch(ticker, source, origin, end, evt)
		if err != nil {
			return rawResult{}, err
		}
		return rawResult{serve: fetched, persist: fetched}, nil
	}

	cached, found, err := r.store.Read(ticker, source)
	if err != nil {
		return rawResult{}, fmt.Errorf("read cache: %w", err)
	}
	if !found {
		evt.CacheState = recorder.CacheMiss
		fetched, err := r.fetch(ticker, source, origin, end, evt)
		if err != nil {
			return rawResult{}, err
		}
		return rawResult{serve: fetched, persist: fetched}, nil
	}

	cacheEnd := cached.End()
	if !cacheEnd.Before(end) {
		evt.CacheState = recorder.CacheFresh
		return rawResult{serve: series.Through(cached, end), persist: cached}, nil
	}

	// Refetch the cache-end day along with the missing tail; the vendor
	// row wins over the cached one on that overlap day.
	evt.CacheState = recorder.CacheStale
	fetched, err := r.fetch(ticker, source, cacheEnd, end, evt)
	if err != nil {
		return rawResult{}, err
	}
	merged := series.Merge(fetched, cached)
	return rawResult{serve: merged, persist: merged}, nil
}

func (r *DataReader) fetch(ticker, source string, start, end time.Time, evt *recorder.ReadEvent) (model.Series, error) {
	f, err := r.fetchers.ForSource(source)
	if err != nil {
		return nil, err
	}
	evt.FetchStart, evt.FetchEnd = start, end
	bars, err := f.Fetch(ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", ticker, source, err)
	}
	evt.RowsFetched = len(bars)
	r.log.WithFields(logger.Fields{
		"ticker": ticker,
		"source": source,
		"start":  model.FormatDay(start),
		"end":    model.FormatDay(end),
		"rows":   len(bars),
	}).Debug("fetched bars")
	return bars, nil
}

// overlayLiveQuote replaces the adjusted close of the newest bar with the
// current market price when the quote falls on that bar's day. Quote
// problems never fail the read.
func (r *DataReader) overlayLiveQuote(ticker string, result model.Series) bool {
	if r.quotes == nil || result.Empty() {
		return false
	}
	quote, err := r.quotes.FetchLiveQuote(ticker)
	if err != nil {
		r.log.WithError(err).WithFields(logger.Fields{"ticker": ticker}).Warn("live quote unavailable")
		return false
	}
	if quote == nil {
		return false
	}
	last := result.Last()
	if !model.SameDay(quote.Time, last.Date) {
		return false
	}
	last.AdjClose = quote.Price
	return true
}

// Read performs a one-shot read with a throwaway DataReader built from
// opts.
func Read(ticker, source string, end time.Time, opts Options) (model.Series, error) {
	r, err := New(opts)
	if err != nil {
		return nil, err
	}
	return r.Read(ticker, source, end)
}
