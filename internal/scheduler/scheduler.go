package scheduler

import (
	"context"
	"fmt"
	"time"

	"stockdata/internal/logger"
	"stockdata/internal/manifest"
	"stockdata/internal/model"
	"stockdata/internal/reader"
	"stockdata/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler keeps a fixed set of tickers refreshed on a cron cadence. Each
// cycle reads every ticker through today, which rolls the on-disk cache
// forward, and notes the progress in the manifest so a restarted daemon
// does not refetch what it already covered.
type Scheduler struct {
	Cron     *cron.Cron
	Reader   *reader.DataReader
	Manifest *manifest.Manager
	Recorder recorder.Recorder
	Source   string
	Tickers  []string
	Ctx      context.Context

	log *logger.Entry
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, rd *reader.DataReader, man *manifest.Manager, rec recorder.Recorder, source string, tickers []string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Reader:   rd,
		Manifest: man,
		Recorder: rec,
		Source:   source,
		Tickers:  tickers,
		Ctx:      ctx,
		log:      logger.GetLogger().WithComponent("scheduler"),
	}
}

// Register schedules the refresh task on the given cron spec (six fields,
// seconds first).
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	today := model.Day(time.Now())
	s.log.WithFields(logger.Fields{
		"tickers": len(s.Tickers),
		"day":     model.FormatDay(today),
	}).Info("refresh cycle started")

	for _, ticker := range s.Tickers {
		if s.Ctx.Err() != nil {
			s.log.Warn("refresh cycle interrupted by shutdown")
			return
		}
		s.refreshTicker(ticker, today)
	}
	s.log.Info("refresh cycle finished")
}

func (s *Scheduler) refreshTicker(ticker string, today time.Time) {
	if s.Manifest.UpToDate(ticker, today) {
		s.log.WithFields(logger.Fields{"ticker": ticker}).Debug("already refreshed today, skipping")
		return
	}

	began := time.Now()
	evt := &recorder.RefreshEvent{Ticker: ticker, Source: s.Source}

	result, err := s.Reader.Read(ticker, s.Source, time.Time{})
	evt.Duration = time.Since(began)
	if err != nil {
		evt.Err = err.Error()
		s.log.WithError(err).WithFields(logger.Fields{"ticker": ticker}).Error("refresh failed")
	} else {
		evt.Rows = result.Len()
		if err := s.Manifest.MarkRefreshed(ticker, today, result.Len()); err != nil {
			s.log.WithError(err).WithFields(logger.Fields{"ticker": ticker}).Warn("manifest update failed")
		}
	}

	if err := s.Recorder.RecordRefresh(evt); err != nil {
		s.log.WithError(err).Warn("record refresh failed")
	}
}
