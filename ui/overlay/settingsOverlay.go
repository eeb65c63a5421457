package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/prefs"
	"github.com/homefix/homefix/theme"
)

type settingsRow int

const (
	rowDarkMode settingsRow = iota
	rowFontScale
	rowServer
	rowCount
)

// SettingsOverlay shows the display preferences and the backend address.
// Changes go straight to the callbacks; the overlay re-reads its values from
// SetSettings so it always mirrors the stored preferences.
type SettingsOverlay struct {
	settings prefs.Settings
	server   string
	cursor   settingsRow
	palette  theme.Palette
	width    int

	OnToggleDark func()
	OnFontScale  func(prefs.FontScale)
	// OnPickFontScale opens the full font scale picker.
	OnPickFontScale func()
	OnRedetect      func()
	// OnEditServer opens a prompt for typing the address.
	OnEditServer func()
	OnClose      func()
}

func NewSettingsOverlay(s prefs.Settings, server string) *SettingsOverlay {
	return &SettingsOverlay{
		settings: s,
		server:   server,
		palette:  theme.For(s.DarkMode),
		width:    52,
	}
}

// SetSettings refreshes the displayed preferences.
func (o *SettingsOverlay) SetSettings(s prefs.Settings) {
	o.settings = s
	o.palette = theme.For(s.DarkMode)
}

// SetServer refreshes the displayed backend address.
func (o *SettingsOverlay) SetServer(url string) {
	o.server = url
}

func (o *SettingsOverlay) SetWidth(width int) {
	o.width = width
}

// HandleKeyPress returns true when the overlay should close.
func (o *SettingsOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		if o.cursor > 0 {
			o.cursor--
		}
	case "down", "j":
		if o.cursor < rowCount-1 {
			o.cursor++
		}
	case "left", "h":
		o.stepFont(-1)
	case "right", "l":
		o.stepFont(1)
	case "enter", " ":
		switch o.cursor {
		case rowDarkMode:
			if o.OnToggleDark != nil {
				o.OnToggleDark()
			}
		case rowFontScale:
			if o.OnPickFontScale != nil {
				o.OnPickFontScale()
				return true
			}
		case rowServer:
			if o.OnRedetect != nil {
				o.OnRedetect()
			}
		}
	case "e":
		if o.cursor == rowServer && o.OnEditServer != nil {
			o.OnEditServer()
			return true
		}
	case "esc", "q", "s":
		if o.OnClose != nil {
			o.OnClose()
		}
		return true
	}
	return false
}

func (o *SettingsOverlay) stepFont(delta int) {
	if o.cursor != rowFontScale || o.OnFontScale == nil {
		return
	}
	next := o.settings.FontScale + prefs.FontScale(delta)
	if !next.Valid() {
		return
	}
	o.OnFontScale(next)
}

func (o *SettingsOverlay) Render(opts ...WhitespaceOption) string {
	p := o.palette
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Tint).
		Foreground(p.Text).
		Padding(1, 2).
		Width(o.width)

	label := lipgloss.NewStyle().Foreground(p.Icon).Width(14)
	selected := lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	muted := lipgloss.NewStyle().Foreground(p.Muted)

	dark := "off"
	if o.settings.DarkMode {
		dark = "on"
	}

	var scales []string
	for _, fs := range prefs.FontScales() {
		name := strings.ToUpper(fs.String())
		if fs == o.settings.FontScale {
			scales = append(scales, selected.Render("["+name+"]"))
		} else {
			scales = append(scales, muted.Render(" "+name+" "))
		}
	}

	rows := []string{
		label.Render("Dark mode") + dark,
		label.Render("Text size") + strings.Join(scales, ""),
		label.Render("Server") + o.server,
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Settings"))
	b.WriteString("\n\n")
	for i, r := range rows {
		prefix := "  "
		if settingsRow(i) == o.cursor {
			prefix = selected.Render("> ")
		}
		b.WriteString(prefix + r + "\n")
	}
	b.WriteString("\n")
	b.WriteString(muted.Render("enter toggle/pick, ←/→ text size, esc close"))
	if o.cursor == rowServer {
		b.WriteString("\n")
		b.WriteString(muted.Render("enter redetect, e edit address"))
	}
	return box.Render(b.String())
}
