package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const StateFileName = "state.json"

// State is runtime data the client persists between launches.
type State struct {
	// BaseURL is the last backend address that answered a health check.
	BaseURL string `json:"base_url"`
	// LastUpdated is when BaseURL was adopted.
	LastUpdated time.Time `json:"last_updated"`
}

// StateStore reads and writes state.json. It satisfies discovery.URLStore.
type StateStore struct {
	mu   sync.Mutex
	path string
}

// NewStateStore returns a store rooted at dir. An empty dir resolves to the
// configuration directory.
func NewStateStore(dir string) (*StateStore, error) {
	if dir == "" {
		d, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &StateStore{path: filepath.Join(dir, StateFileName)}, nil
}

// Path returns the location of the state file.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the persisted state. A missing file yields a zero State.
func (s *StateStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *StateStore) load() (State, error) {
	var st State
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("failed to read state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to parse state: %w", err)
	}
	return st, nil
}

// LoadBaseURL returns the persisted base URL, or "" when none was saved.
func (s *StateStore) LoadBaseURL() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	return st.BaseURL, nil
}

// SaveBaseURL records url as the current backend address.
func (s *StateStore) SaveBaseURL(url string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		// A corrupt state file is replaced rather than blocking persistence.
		st = State{}
	}
	st.BaseURL = url
	st.LastUpdated = at.UTC()

	return WriteJSON(s.path, "state", st)
}
