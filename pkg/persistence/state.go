package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the view-state file format.
const StateVersion = 1

// ViewState contains the persisted state of one tree view.
type ViewState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// ExpandedIDs holds the ids of expanded nodes.
	ExpandedIDs []string `json:"expanded_ids,omitempty"`

	// SelectedID is the last selected node id.
	SelectedID string `json:"selected_id,omitempty"`
}

// ViewStateStore manages persistence of view state to a JSON file.
type ViewStateStore struct {
	mu   sync.Mutex
	path string
}

// NewViewStateStore creates a new view state store.
func NewViewStateStore(path string) *ViewStateStore {
	return &ViewStateStore{path: path}
}

// Path returns the backing file path.
func (s *ViewStateStore) Path() string {
	return s.path
}

// Save persists the view state to disk.
func (s *ViewStateStore) Save(state *ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}

	// Write to a temp file and rename for atomic replacement
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write view state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace view state: %w", err)
	}
	return nil
}

// Load reads the view state from disk.
// Returns (nil, nil) if no state file exists yet.
func (s *ViewStateStore) Load() (*ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read view state: %w", err)
	}

	var state ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode view state: %w", err)
	}

	if state.Version > StateVersion {
		return nil, fmt.Errorf("unsupported view state version %d", state.Version)
	}
	return &state, nil
}

// Reset deletes the state file. Missing files are not an error.
func (s *ViewStateStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove view state: %w", err)
	}
	return nil
}
