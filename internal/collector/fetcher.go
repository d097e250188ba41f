package collector

import (
	"fmt"
	"time"

	"stockdata/internal/model"
)

//go:generate mockgen -package=reader_test -destination=../reader/mock_fetcher_test.go -source=fetcher.go Fetcher

// Fetcher defines the interface for pulling daily bars from a vendor.
// Both bounds are inclusive calendar days; implementations return bars
// ordered by date with one bar per trading day.
type Fetcher interface {
	Fetch(ticker string, start, end time.Time) (model.Series, error)
	Name() string
}

// Registry maps source names to the fetcher serving them.
type Registry map[string]Fetcher

// NewRegistry builds a registry keyed by each fetcher's Name.
func NewRegistry(fetchers ...Fetcher) Registry {
	r := make(Registry, len(fetchers))
	for _, f := range fetchers {
		r[f.Name()] = f
	}
	return r
}

// ForSource returns the fetcher registered under source.
func (r Registry) ForSource(source string) (Fetcher, error) {
	f, ok := r[source]
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for source %q", source)
	}
	return f, nil
}
