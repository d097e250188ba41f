package recorder

import "time"

// Cache states recorded on a read.
const (
	CacheDisabled = "disabled"
	CacheMiss     = "miss"
	CacheFresh    = "fresh"
	CacheStale    = "stale"
)

// ReadEvent describes one completed read: what the cache held, what was
// fetched to serve it, and what was returned.
type ReadEvent struct {
	ID           string
	Ticker       string
	Source       string
	End          time.Time
	CacheState   string
	FetchStart   time.Time // zero when nothing was fetched
	FetchEnd     time.Time
	RowsFetched  int
	RowsReturned int
	LiveApplied  bool
	Duration     time.Duration
}

// RefreshEvent describes one scheduled refresh pass over a ticker.
type RefreshEvent struct {
	ID       string
	Ticker   string
	Source   string
	Rows     int
	Err      string
	Duration time.Duration
}

// Recorder persists read activity for later analysis.
type Recorder interface {
	RecordRead(evt *ReadEvent) error
	RecordRefresh(evt *RefreshEvent) error
	Close() error
}
