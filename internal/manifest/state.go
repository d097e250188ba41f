package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is the on-disk refresh manifest: one entry per ticker the daemon
// keeps current.
type State struct {
	Entries   map[string]Entry `json:"entries"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Entry records the outcome of the most recent refresh of one ticker.
type Entry struct {
	LastEnd time.Time `json:"last_end"` // end day the refresh covered
	LastRun time.Time `json:"last_run"`
	Rows    int       `json:"rows"`
}

// Load reads the manifest from a JSON file. Returns an empty manifest if the
// file doesn't exist.
func Load(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Entries: map[string]Entry{}}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Entries == nil {
		state.Entries = map[string]Entry{}
	}
	return &state, nil
}

// Save writes the manifest to a JSON file, creating the parent directory if
// needed.
func Save(filePath string, state *State) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0o644)
}
