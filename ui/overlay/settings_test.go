package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefix/homefix/prefs"
	"github.com/homefix/homefix/theme"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSettingsOverlay(t *testing.T) {
	p := prefs.Load(&prefs.MemoryStore{}, prefs.DefaultSettings(false))
	o := NewSettingsOverlay(p.Settings(), "http://172.30.1.6:8000")
	o.OnToggleDark = func() {
		_, _ = p.ToggleDarkMode()
		o.SetSettings(p.Settings())
	}
	o.OnFontScale = func(fs prefs.FontScale) {
		_ = p.SetFontScale(fs)
		o.SetSettings(p.Settings())
	}
	closed := false
	o.OnClose = func() { closed = true }

	assert.False(t, o.HandleKeyPress(keyMsg("enter")))
	assert.True(t, p.DarkMode())
	assert.Equal(t, theme.Dark, o.palette)

	// Arrows only change the font scale on its own row.
	assert.False(t, o.HandleKeyPress(keyMsg("right")))
	assert.Equal(t, prefs.FontScaleM, p.FontScale())

	o.HandleKeyPress(keyMsg("down"))
	o.HandleKeyPress(keyMsg("right"))
	o.HandleKeyPress(keyMsg("right"))
	o.HandleKeyPress(keyMsg("right"))
	assert.Equal(t, prefs.FontScaleXL, p.FontScale(), "stepping stops at the largest scale")
	o.HandleKeyPress(keyMsg("left"))
	assert.Equal(t, prefs.FontScaleL, p.FontScale())

	view := o.Render()
	assert.Contains(t, view, "[L]")
	assert.Contains(t, view, "http://172.30.1.6:8000")

	assert.True(t, o.HandleKeyPress(keyMsg("esc")))
	assert.True(t, closed)
}

func TestSettingsOverlayPickerAndRedetect(t *testing.T) {
	o := NewSettingsOverlay(prefs.DefaultSettings(true), "")
	picked, redetect := false, false
	o.OnPickFontScale = func() { picked = true }
	o.OnRedetect = func() { redetect = true }

	o.HandleKeyPress(keyMsg("down"))
	assert.True(t, o.HandleKeyPress(keyMsg("enter")), "opening the picker closes settings")
	assert.True(t, picked)

	o.HandleKeyPress(keyMsg("down"))
	o.HandleKeyPress(keyMsg("down"))
	assert.False(t, o.HandleKeyPress(keyMsg("enter")))
	assert.True(t, redetect)
}

func TestSettingsOverlayEditServer(t *testing.T) {
	o := NewSettingsOverlay(prefs.DefaultSettings(false), "http://172.30.1.6:8000")
	edited := false
	o.OnEditServer = func() { edited = true }

	// Only the server row reacts to e.
	assert.False(t, o.HandleKeyPress(keyMsg("e")))
	assert.False(t, edited)
	assert.NotContains(t, o.Render(), "e edit address")

	o.HandleKeyPress(keyMsg("down"))
	o.HandleKeyPress(keyMsg("down"))
	assert.Contains(t, o.Render(), "e edit address")
	assert.True(t, o.HandleKeyPress(keyMsg("e")))
	assert.True(t, edited)
}

func TestInputOverlay(t *testing.T) {
	in := NewInputOverlay("Server address", "http://host:8000", "http://10.0.0.1:8000")
	in.SetPalette(theme.Light)
	var got string
	in.OnSubmit = func(v string) { got = v }

	assert.Contains(t, in.Render(), "Server address")
	assert.False(t, in.HandleKeyPress(tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.False(t, in.HandleKeyPress(keyMsg("2 ")))
	assert.True(t, in.HandleKeyPress(keyMsg("enter")))
	assert.True(t, in.IsSubmitted())
	assert.Equal(t, "http://10.0.0.1:8002", got)

	in = NewInputOverlay("Server address", "", "x")
	assert.True(t, in.HandleKeyPress(keyMsg("esc")))
	assert.True(t, in.IsCanceled())
	assert.False(t, in.IsSubmitted())
}

func TestSelectionOverlay(t *testing.T) {
	var got Choice
	sizes := []Choice{{Label: "XS"}, {Label: "S"}, {Label: "M", Hint: "x1"}, {Label: "L"}, {Label: "XL"}}
	s := NewSelectionOverlay("Text size", sizes, 2)
	s.OnSelect = func(_ int, c Choice) { got = c }

	c, ok := s.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "M", c.Label)
	assert.Contains(t, s.Render(), "●")
	assert.Contains(t, s.Render(), "x1")

	assert.False(t, s.HandleKeyPress(keyMsg("down")))
	assert.True(t, s.HandleKeyPress(keyMsg("enter")))
	assert.Equal(t, "L", got.Label)

	assert.True(t, s.HandleKeyPress(keyMsg("5")))
	assert.Equal(t, "XL", got.Label)

	assert.True(t, s.HandleKeyPress(keyMsg("esc")))
	assert.Equal(t, -1, s.Cursor())
	_, ok = s.Highlighted()
	assert.False(t, ok)
}

func TestSelectionOverlayWraps(t *testing.T) {
	s := NewSelectionOverlay("Text size", []Choice{{Label: "a"}, {Label: "b"}, {Label: "c"}}, 9)
	assert.Equal(t, 0, s.Cursor())
	assert.NotContains(t, s.Render(), "●")

	s.HandleKeyPress(keyMsg("up"))
	assert.Equal(t, 2, s.Cursor())
	s.HandleKeyPress(keyMsg("down"))
	assert.Equal(t, 0, s.Cursor())
	s.HandleKeyPress(keyMsg("end"))
	assert.Equal(t, 2, s.Cursor())
	s.HandleKeyPress(keyMsg("home"))
	assert.Equal(t, 0, s.Cursor())
}

func TestAlertOverlay(t *testing.T) {
	a := NewAlertOverlay("오류", "메시지를 전송할 수 없습니다.")
	dismissed := false
	a.OnDismiss = func() { dismissed = true }

	view := a.Render()
	assert.Contains(t, view, "오류")
	assert.Contains(t, view, "메시지를 전송할 수 없습니다.")

	assert.True(t, a.HandleKeyPress(keyMsg("x")))
	assert.True(t, a.Dismissed)
	assert.True(t, dismissed)
}
