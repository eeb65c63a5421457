package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/homefix/homefix/config"
	"github.com/homefix/homefix/log"
)

const FileName = "prefs.json"

// FileStore keeps Settings in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store for dir/prefs.json. An empty dir resolves to
// the configuration directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := config.GetConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &FileStore{path: filepath.Join(dir, FileName)}, nil
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load() (Settings, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, false, nil
		}
		return Settings{}, false, fmt.Errorf("failed to read preferences: %w", err)
	}
	return decodeSettings(data, f.path)
}

// decodeSettings reads font_scale on its own so an unsupported scale leaves
// FontScale at zero without losing dark_mode.
func decodeSettings(data []byte, path string) (Settings, bool, error) {
	var raw struct {
		DarkMode  bool            `json:"dark_mode"`
		FontScale json.RawMessage `json:"font_scale"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	s := Settings{DarkMode: raw.DarkMode}
	if len(raw.FontScale) > 0 {
		if err := json.Unmarshal(raw.FontScale, &s.FontScale); err != nil {
			log.WarningLog.Printf("unsupported font_scale %s in %s", raw.FontScale, path)
			s.FontScale = 0
		}
	}
	return s, true, nil
}

func (f *FileStore) Save(s Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return config.WriteJSON(f.path, "preferences", s)
}

// MemoryStore keeps Settings in memory. It is used when persistence is
// disabled.
type MemoryStore struct {
	mu    sync.Mutex
	saved *Settings
}

func (m *MemoryStore) Load() (Settings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return Settings{}, false, nil
	}
	return *m.saved, true, nil
}

func (m *MemoryStore) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &s
	return nil
}
