// Package prefs holds the user's display preferences: dark mode and font
// scale. Values are loaded once at startup, written back on every change, and
// pushed to observers so the UI can re-theme in place.
package prefs

import (
	"fmt"
	"sync"

	"github.com/homefix/homefix/log"
)

// Settings is the persisted form of the preferences.
type Settings struct {
	DarkMode  bool      `json:"dark_mode"`
	FontScale FontScale `json:"font_scale"`
}

// DefaultSettings returns medium text with the given dark mode.
func DefaultSettings(dark bool) Settings {
	return Settings{DarkMode: dark, FontScale: DefaultFontScale}
}

// Store persists Settings. Load reports ok=false when nothing was saved yet.
type Store interface {
	Load() (s Settings, ok bool, err error)
	Save(Settings) error
}

// Preferences is the live, observable preference state.
type Preferences struct {
	mu        sync.RWMutex
	store     Store
	settings  Settings
	observers []func(Settings)
}

// Load reads preferences from store. Missing or unreadable data falls back to
// defaults, which are not written until the first change.
func Load(store Store, defaults Settings) *Preferences {
	if !defaults.FontScale.Valid() {
		defaults.FontScale = DefaultFontScale
	}
	p := &Preferences{store: store, settings: defaults}
	if store == nil {
		return p
	}

	s, ok, err := store.Load()
	switch {
	case err != nil:
		log.WarningLog.Printf("failed to load preferences, using defaults: %v", err)
	case !ok:
	case !s.FontScale.Valid():
		log.WarningLog.Printf("ignoring saved font scale, keeping dark mode")
		p.settings.DarkMode = s.DarkMode
	default:
		p.settings = s
	}
	return p
}

// Settings returns a snapshot of the current values.
func (p *Preferences) Settings() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

func (p *Preferences) DarkMode() bool {
	return p.Settings().DarkMode
}

func (p *Preferences) FontScale() FontScale {
	return p.Settings().FontScale
}

// Subscribe registers fn to receive the new settings after every change.
func (p *Preferences) Subscribe(fn func(Settings)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// SetDarkMode switches the theme.
func (p *Preferences) SetDarkMode(dark bool) error {
	return p.update(func(s *Settings) error {
		s.DarkMode = dark
		return nil
	})
}

// ToggleDarkMode flips the theme and returns the new value.
func (p *Preferences) ToggleDarkMode() (bool, error) {
	var dark bool
	err := p.update(func(s *Settings) error {
		s.DarkMode = !s.DarkMode
		dark = s.DarkMode
		return nil
	})
	return dark, err
}

// SetFontScale changes the text size. Values outside the supported set are
// rejected with ErrUnsupportedFontScale and the current scale is kept.
func (p *Preferences) SetFontScale(fs FontScale) error {
	return p.update(func(s *Settings) error {
		if !fs.Valid() {
			return fmt.Errorf("%w: %d", ErrUnsupportedFontScale, int(fs))
		}
		s.FontScale = fs
		return nil
	})
}

// SetFontScaleMultiplier is SetFontScale for a raw multiplier such as 1.1.
func (p *Preferences) SetFontScaleMultiplier(m float64) error {
	fs, err := FontScaleFromMultiplier(m)
	if err != nil {
		return err
	}
	return p.SetFontScale(fs)
}

// update applies fn, persists the result and notifies observers. A failed
// save keeps the in-memory change and is returned to the caller.
func (p *Preferences) update(fn func(*Settings) error) error {
	p.mu.Lock()
	next := p.settings
	if err := fn(&next); err != nil {
		p.mu.Unlock()
		return err
	}
	changed := next != p.settings
	p.settings = next
	observers := make([]func(Settings), len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	var saveErr error
	if p.store != nil {
		if err := p.store.Save(next); err != nil {
			log.ErrorLog.Printf("failed to save preferences: %v", err)
			saveErr = fmt.Errorf("failed to save preferences: %w", err)
		}
	}
	if changed {
		for _, obs := range observers {
			obs(next)
		}
	}
	return saveErr
}
