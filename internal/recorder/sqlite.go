package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"stockdata/internal/logger"
	"stockdata/internal/model"
)

// SQLiteRecorder persists read and refresh events to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc queries can run while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.GetLogger().WithComponent("recorder").WithFields(logger.Fields{"path": dbPath}).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reads (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			ticker        TEXT NOT NULL,
			source        TEXT NOT NULL,
			end_date      TEXT,
			cache_state   TEXT,
			fetch_start   TEXT,
			fetch_end     TEXT,
			rows_fetched  INTEGER,
			rows_returned INTEGER,
			live_applied  INTEGER,
			duration_ms   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reads_ts ON reads(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_reads_ticker ON reads(ticker)`,

		`CREATE TABLE IF NOT EXISTS refreshes (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			source      TEXT NOT NULL,
			rows        INTEGER,
			error       TEXT,
			duration_ms REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_ts ON refreshes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRead inserts one read event, assigning evt.ID when unset.
func (r *SQLiteRecorder) RecordRead(evt *ReadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO reads
		(id, timestamp, ticker, source, end_date, cache_state,
		 fetch_start, fetch_end, rows_fetched, rows_returned, live_applied, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, time.Now().Unix(), evt.Ticker, evt.Source,
		dayOrEmpty(evt.End), evt.CacheState,
		dayOrEmpty(evt.FetchStart), dayOrEmpty(evt.FetchEnd),
		evt.RowsFetched, evt.RowsReturned, boolToInt(evt.LiveApplied),
		float64(evt.Duration.Nanoseconds())/1e6,
	)
	return err
}

// RecordRefresh inserts one refresh event, assigning evt.ID when unset.
func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO refreshes
		(id, timestamp, ticker, source, rows, error, duration_ms)
		VALUES (?,?,?,?,?,?,?)`,
		evt.ID, time.Now().Unix(), evt.Ticker, evt.Source,
		evt.Rows, evt.Err, float64(evt.Duration.Nanoseconds())/1e6,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	logger.GetLogger().WithComponent("recorder").Info("closing sqlite recorder")
	return r.db.Close()
}

func dayOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return model.FormatDay(t)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
