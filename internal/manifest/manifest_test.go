package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stockdata/internal/model"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := model.ParseDay(value)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", value, err)
	}
	return d
}

func TestLoad_MissingFile(t *testing.T) {
	state, err := Load(filepath.Join(t.TempDir(), "refresh_state.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Entries == nil {
		t.Fatal("expected initialized entries map")
	}
	if len(state.Entries) != 0 {
		t.Errorf("expected empty manifest, got %d entries", len(state.Entries))
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh_state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt manifest")
	}
}

func TestSave_RoundTripAndParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "refresh_state.json")
	state := &State{Entries: map[string]Entry{
		"SPY": {LastEnd: day(t, "2017-11-02"), LastRun: time.Now(), Rows: 7},
	}}
	if err := Save(path, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if state.UpdatedAt.IsZero() {
		t.Error("Save should stamp UpdatedAt")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, ok := loaded.Entries["SPY"]
	if !ok {
		t.Fatal("SPY entry missing after round trip")
	}
	if !e.LastEnd.Equal(day(t, "2017-11-02")) {
		t.Errorf("LastEnd = %v, want 2017-11-02", e.LastEnd)
	}
	if e.Rows != 7 {
		t.Errorf("Rows = %d, want 7", e.Rows)
	}
}

func TestManager_MarkRefreshedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh_state.json")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.MarkRefreshed("GOOG", day(t, "2017-11-02"), 120); err != nil {
		t.Fatalf("MarkRefreshed: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	e, ok := reloaded.Lookup("GOOG")
	if !ok {
		t.Fatal("GOOG entry missing after reload")
	}
	if !e.LastEnd.Equal(day(t, "2017-11-02")) {
		t.Errorf("LastEnd = %v, want 2017-11-02", e.LastEnd)
	}
	if e.LastRun.IsZero() {
		t.Error("LastRun should be stamped")
	}
	if e.Rows != 120 {
		t.Errorf("Rows = %d, want 120", e.Rows)
	}
}

func TestManager_UpToDate(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "refresh_state.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.MarkRefreshed("SPY", day(t, "2017-11-02"), 5); err != nil {
		t.Fatalf("MarkRefreshed: %v", err)
	}

	tests := []struct {
		name   string
		ticker string
		day    time.Time
		want   bool
	}{
		{"unknown ticker", "MSFT", day(t, "2017-11-02"), false},
		{"covered day", "SPY", day(t, "2017-11-02"), true},
		{"earlier day", "SPY", day(t, "2017-11-01"), true},
		{"later day", "SPY", day(t, "2017-11-03"), false},
		{"intraday timestamp same day", "SPY", time.Date(2017, 11, 2, 15, 4, 5, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.UpToDate(tt.ticker, tt.day); got != tt.want {
				t.Errorf("UpToDate(%q, %v) = %v, want %v", tt.ticker, tt.day, got, tt.want)
			}
		})
	}
}

func TestManager_GetStateCopies(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "refresh_state.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.MarkRefreshed("SPY", day(t, "2017-11-02"), 5); err != nil {
		t.Fatalf("MarkRefreshed: %v", err)
	}

	snap := m.GetState()
	snap.Entries["SPY"] = Entry{Rows: 999}
	snap.Entries["HACK"] = Entry{}

	e, ok := m.Lookup("SPY")
	if !ok || e.Rows != 5 {
		t.Errorf("manager state mutated through snapshot: %+v ok=%v", e, ok)
	}
	if _, ok := m.Lookup("HACK"); ok {
		t.Error("snapshot map should not be shared with manager")
	}
}
