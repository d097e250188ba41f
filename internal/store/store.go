// Package store persists daily price series as CSV files under a single
// cache directory, one file per ticker and source, shaped like the
// vendor's own export so the files stay usable outside this program.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"stockdata/internal/model"
)

// Reference is the pseudo source holding the merged, authoritative series
// for a ticker.
const Reference = "reference"

var header = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// Store reads and writes cached price series rooted at one directory.
type Store struct {
	dir string
}

// New ensures dir exists and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache root directory.
func (s *Store) Dir() string { return s.dir }

// Filename returns the cache file name for a ticker and source. The
// reference series lives at TICKER.csv, per vendor series at
// TICKER.SOURCE.csv.
func Filename(ticker, source string) string {
	if source == Reference {
		return ticker + ".csv"
	}
	return ticker + "." + source + ".csv"
}

func (s *Store) path(ticker, source string) string {
	return filepath.Join(s.dir, Filename(ticker, source))
}

// Read loads the cached series for a ticker and source. A missing file or
// a file with no data rows reports found=false with a nil error.
func (s *Store) Read(ticker, source string) (model.Series, bool, error) {
	f, err := os.Open(s.path(ticker, source))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", Filename(ticker, source), err)
	}
	if len(records) <= 1 {
		return nil, false, nil
	}
	out := make(model.Series, 0, len(records)-1)
	for i, rec := range records[1:] {
		bar, err := parseRow(rec)
		if err != nil {
			return nil, false, fmt.Errorf("%s row %d: %w", Filename(ticker, source), i+2, err)
		}
		out = append(out, bar)
	}
	return out, true, nil
}

// Write replaces the cached series for a ticker and source.
func (s *Store) Write(ticker, source string, data model.Series) error {
	name := Filename(ticker, source)
	f, err := os.Create(s.path(ticker, source))
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	if err := Encode(f, data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// Encode writes a series to w in the cache file shape, header included.
func Encode(w io.Writer, data model.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, bar := range data {
		rec := []string{
			model.FormatDay(bar.Date),
			formatValue(bar.Open),
			formatValue(bar.High),
			formatValue(bar.Low),
			formatValue(bar.Close),
			formatValue(bar.AdjClose),
			formatValue(bar.Volume),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseRow(rec []string) (model.Bar, error) {
	if len(rec) != len(header) {
		return model.Bar{}, fmt.Errorf("expected %d columns, got %d", len(header), len(rec))
	}
	date, err := model.ParseDay(rec[0])
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse date %q: %w", rec[0], err)
	}
	vals := make([]float64, 6)
	for i, raw := range rec[1:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("parse %s %q: %w", header[i+1], raw, err)
		}
		vals[i] = v
	}
	return model.Bar{
		Date:     date,
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		AdjClose: vals[4],
		Volume:   vals[5],
	}, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
