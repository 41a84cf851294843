package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no state file exists for a workflow id.
var ErrNotFound = errors.New("workflow not found")

// Store persists one JSON file per workflow run in a state directory.
type Store struct {
	dir string
}

// NewStore creates the state directory if needed and returns a store for it.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the state directory.
func (st *Store) Dir() string {
	return st.dir
}

// Path returns the state file location for a workflow id.
func (st *Store) Path(id string) string {
	return filepath.Join(st.dir, id+".json")
}

// Save validates the state and writes it atomically (temp file + rename),
// so a crash mid-write never corrupts a resumable run.
func (st *Store) Save(s *State) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid state: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	path := st.Path(s.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Load reads and validates the state for a workflow id.
func (st *Store) Load(id string) (*State, error) {
	data, err := os.ReadFile(st.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", id, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("state %s is invalid: %w", id, err)
	}
	return &s, nil
}

// List returns every readable workflow state, newest first. Unreadable or
// invalid files are skipped rather than failing the whole listing.
func (st *Store) List() ([]*State, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	var states []*State
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		s, err := st.Load(id)
		if err != nil {
			continue
		}
		states = append(states, s)
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].CreatedAt.After(states[j].CreatedAt)
	})
	return states, nil
}

// Latest returns the most recently created run, or ErrNotFound.
func (st *Store) Latest() (*State, error) {
	states, err := st.List()
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, ErrNotFound
	}
	return states[0], nil
}

// LatestIncomplete returns the most recent resumable run, or ErrNotFound.
func (st *Store) LatestIncomplete() (*State, error) {
	states, err := st.List()
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if !s.IsComplete() {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the state file for a workflow id.
func (st *Store) Delete(id string) error {
	if err := os.Remove(st.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}
