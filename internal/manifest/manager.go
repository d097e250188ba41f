package manifest

import (
	"sync"
	"time"

	"stockdata/internal/model"
)

// Manager guards the refresh manifest for concurrent use and persists every
// update back to disk.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading existing state from disk when present.
func NewManager(filePath string) (*Manager, error) {
	state, err := Load(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// GetState returns a copy of the current manifest.
func (m *Manager) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := State{
		Entries:   make(map[string]Entry, len(m.state.Entries)),
		UpdatedAt: m.state.UpdatedAt,
	}
	for ticker, e := range m.state.Entries {
		cp.Entries[ticker] = e
	}
	return cp
}

// Lookup returns the entry for a ticker, if one exists.
func (m *Manager) Lookup(ticker string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.state.Entries[ticker]
	return e, ok
}

// UpToDate reports whether the ticker has already been refreshed through the
// given day.
func (m *Manager) UpToDate(ticker string, day time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.state.Entries[ticker]
	return ok && !e.LastEnd.Before(model.Day(day))
}

// MarkRefreshed records a completed refresh and saves the manifest.
func (m *Manager) MarkRefreshed(ticker string, end time.Time, rows int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Entries[ticker] = Entry{
		LastEnd: model.Day(end),
		LastRun: time.Now(),
		Rows:    rows,
	}
	return m.save()
}

func (m *Manager) save() error {
	return Save(m.filePath, m.state)
}
