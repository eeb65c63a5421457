package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/homefix/homefix/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Initialize(false)
	defer log.Close()

	os.Exit(m.Run())
}

func TestParseFontScale(t *testing.T) {
	tests := []struct {
		in   string
		want FontScale
	}{
		{"xs", FontScaleXS},
		{" XL ", FontScaleXL},
		{"medium", FontScaleM},
		{"extra-small", FontScaleXS},
		{"Extra large", FontScaleXL},
		{"0.9", FontScaleS},
		{"1.1", FontScaleL},
		{"1", FontScaleM},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFontScale(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "xxl", "1.5", "0.85", "huge"} {
		_, err := ParseFontScale(bad)
		assert.ErrorIs(t, err, ErrUnsupportedFontScale, bad)
	}
}

func TestFontScaleMultipliers(t *testing.T) {
	want := []float64{0.8, 0.9, 1.0, 1.1, 1.2}
	scales := FontScales()
	require.Len(t, scales, len(want))
	for i, fs := range scales {
		assert.InDelta(t, want[i], fs.Multiplier(), 1e-9, fs.String())
	}
	assert.Equal(t, 1.0, FontScale(0).Multiplier())
	assert.False(t, FontScale(0).Valid())
	assert.False(t, FontScale(6).Valid())
}

// recordingStore counts saves and can be made to fail.
type recordingStore struct {
	MemoryStore
	saves   int
	saveErr error
}

func (r *recordingStore) Save(s Settings) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	return r.MemoryStore.Save(s)
}

func TestSetFontScaleRejectsUnsupported(t *testing.T) {
	store := &recordingStore{}
	p := Load(store, DefaultSettings(false))
	require.NoError(t, p.SetFontScale(FontScaleL))

	var notified int
	p.Subscribe(func(Settings) { notified++ })

	for _, bad := range []FontScale{0, -1, 6, 42} {
		err := p.SetFontScale(bad)
		assert.ErrorIs(t, err, ErrUnsupportedFontScale)
		assert.Equal(t, FontScaleL, p.FontScale(), "previous value must be kept")
	}
	for _, bad := range []float64{0.5, 1.05, 2} {
		assert.ErrorIs(t, p.SetFontScaleMultiplier(bad), ErrUnsupportedFontScale)
	}
	assert.Equal(t, FontScaleL, p.FontScale())
	assert.Zero(t, notified)
	assert.Equal(t, 1, store.saves, "rejected values are not persisted")

	require.NoError(t, p.SetFontScaleMultiplier(0.8))
	assert.Equal(t, FontScaleXS, p.FontScale())
	assert.Equal(t, 1, notified)
}

func TestToggleDarkMode(t *testing.T) {
	store := &recordingStore{}
	p := Load(store, DefaultSettings(false))

	var seen []bool
	p.Subscribe(func(s Settings) { seen = append(seen, s.DarkMode) })

	dark, err := p.ToggleDarkMode()
	require.NoError(t, err)
	assert.True(t, dark)
	assert.True(t, p.DarkMode())

	dark, err = p.ToggleDarkMode()
	require.NoError(t, err)
	assert.False(t, dark)
	assert.Equal(t, []bool{true, false}, seen)

	saved, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, saved.DarkMode)
}

func TestSaveFailureKeepsChange(t *testing.T) {
	store := &recordingStore{saveErr: errors.New("disk full")}
	p := Load(store, DefaultSettings(false))

	err := p.SetDarkMode(true)
	assert.Error(t, err)
	assert.True(t, p.DarkMode())
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		p := Load(&MemoryStore{}, DefaultSettings(true))
		assert.Equal(t, Settings{DarkMode: true, FontScale: FontScaleM}, p.Settings())
	})

	t.Run("nil store", func(t *testing.T) {
		p := Load(nil, Settings{})
		assert.Equal(t, FontScaleM, p.FontScale())
		require.NoError(t, p.SetFontScale(FontScaleXL))
	})

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644))
		store, err := NewFileStore(dir)
		require.NoError(t, err)

		p := Load(store, DefaultSettings(false))
		assert.Equal(t, DefaultSettings(false), p.Settings())

		// The next change overwrites the corrupt file.
		require.NoError(t, p.SetFontScale(FontScaleS))
		s, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, FontScaleS, s.FontScale)
	})

	t.Run("unsupported saved scale", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"dark_mode":true,"font_scale":1.5}`), 0644))
		store, err := NewFileStore(dir)
		require.NoError(t, err)

		p := Load(store, DefaultSettings(false))
		assert.Equal(t, FontScaleM, p.FontScale())
		assert.True(t, p.DarkMode(), "dark mode survives a bad scale")
	})

	for _, scale := range []string{`"huge"`, `7`, `1.7`, `null`, `{}`} {
		t.Run("saved scale "+scale, func(t *testing.T) {
			dir := t.TempDir()
			body := `{"dark_mode":true,"font_scale":` + scale + `}`
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
			store, err := NewFileStore(dir)
			require.NoError(t, err)

			s, ok, err := store.Load()
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, s.DarkMode)

			p := Load(store, DefaultSettings(false))
			assert.Equal(t, Settings{DarkMode: true, FontScale: FontScaleM}, p.Settings())
		})
	}

	t.Run("missing scale", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"dark_mode":true}`), 0644))
		store, err := NewFileStore(dir)
		require.NoError(t, err)

		p := Load(store, DefaultSettings(false))
		assert.Equal(t, Settings{DarkMode: true, FontScale: FontScaleM}, p.Settings())
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), store.Path())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	p := Load(store, DefaultSettings(false))
	require.NoError(t, p.SetFontScale(FontScaleXL))
	require.NoError(t, p.SetDarkMode(true))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"dark_mode":true,"font_scale":"xl"}`, string(data))

	reloaded := Load(store, DefaultSettings(false))
	assert.Equal(t, Settings{DarkMode: true, FontScale: FontScaleXL}, reloaded.Settings())
}
