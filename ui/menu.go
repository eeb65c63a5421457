package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/keys"
	"github.com/homefix/homefix/theme"
)

// MenuState selects which hotkeys the footer offers.
type MenuState int

const (
	StateDefault MenuState = iota
	// StateInput is active while a text field has focus.
	StateInput
	// StateBusy is active while a request is in flight.
	StateBusy
)

// tabActions are the highlighted hotkeys of each tab.
var tabActions = map[int][]keys.KeyName{
	ChatTab:   {keys.KeyFocus, keys.KeyCopy, keys.KeyClear},
	PhotoTab:  {keys.KeyOpen, keys.KeyBrowse, keys.KeyNote, keys.KeyAnalyze},
	ResultTab: {keys.KeyUp, keys.KeyDown, keys.KeyAnalyze},
}

var (
	navKeys     = []keys.KeyName{keys.KeyNextTab, keys.KeyChatTab, keys.KeyPhotoTab, keys.KeyResultTab}
	displayKeys = []keys.KeyName{keys.KeyToggleDark, keys.KeyFontUp, keys.KeyFontDown}
	systemKeys  = []keys.KeyName{keys.KeyRedetect, keys.KeySettings, keys.KeyHelp, keys.KeyQuit}
)

// hotkeyGroup is a run of hotkeys drawn between vertical bars.
type hotkeyGroup struct {
	keys   []keys.KeyName
	accent bool
}

// Menu is the two-line hotkey footer.
type Menu struct {
	lines         [][]hotkeyGroup
	width, height int
	state         MenuState
	tab           int
	styles        theme.Styles

	// pressed is underlined until ClearKeydown; -1 when nothing is.
	pressed keys.KeyName
}

func NewMenu(styles theme.Styles) *Menu {
	m := &Menu{tab: ChatTab, styles: styles, pressed: -1}
	m.rebuild()
	return m
}

// Keydown underlines name until ClearKeydown is called.
func (m *Menu) Keydown(name keys.KeyName) { m.pressed = name }

func (m *Menu) ClearKeydown() { m.pressed = -1 }

func (m *Menu) SetState(state MenuState) {
	m.state = state
	m.rebuild()
}

func (m *Menu) State() MenuState { return m.state }

// SetTab swaps the action group for the tab's hotkeys.
func (m *Menu) SetTab(tab int) {
	m.tab = tab
	m.rebuild()
}

func (m *Menu) SetStyles(st theme.Styles) { m.styles = st }

func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) rebuild() {
	switch m.state {
	case StateInput:
		m.lines = [][]hotkeyGroup{{{keys: []keys.KeyName{keys.KeySubmit, keys.KeyBlur}, accent: true}}}
		return
	case StateBusy:
		// Nothing can be sent until the pending request finishes.
		m.lines = [][]hotkeyGroup{
			{{keys: []keys.KeyName{keys.KeyUp, keys.KeyDown}, accent: true}, {keys: navKeys}},
			{{keys: displayKeys}, {keys: systemKeys}},
		}
		return
	}
	m.lines = [][]hotkeyGroup{
		{{keys: tabActions[m.tab], accent: true}, {keys: navKeys}},
		{{keys: displayKeys}, {keys: systemKeys}},
	}
}

func (m *Menu) hotkey(k keys.KeyName, accent bool) string {
	p := m.styles.Palette
	key := lipgloss.NewStyle().Foreground(p.Icon)
	desc := lipgloss.NewStyle().Foreground(p.Muted)
	if accent {
		key = lipgloss.NewStyle().Foreground(p.Tint).Bold(true)
		desc = key
	}
	if k == m.pressed {
		key, desc = key.Underline(true), desc.Underline(true)
	}
	help := keys.GlobalkeyBindings[k].Help()
	return key.Render(help.Key) + " " + desc.Render(help.Desc)
}

// line joins groups with a bar. Plain groups are dropped from the right
// while the line is wider than the footer.
func (m *Menu) line(groups []hotkeyGroup) string {
	sep := lipgloss.NewStyle().Foreground(m.styles.Palette.Border)
	render := func(gs []hotkeyGroup) string {
		parts := make([]string, 0, len(gs))
		for _, g := range gs {
			hk := make([]string, 0, len(g.keys))
			for _, k := range g.keys {
				hk = append(hk, m.hotkey(k, g.accent))
			}
			parts = append(parts, strings.Join(hk, sep.Render(" • ")))
		}
		return strings.Join(parts, sep.Render(" │ "))
	}

	out := render(groups)
	for m.width > 0 && lipgloss.Width(out) > m.width && len(groups) > 1 && !groups[len(groups)-1].accent {
		groups = groups[:len(groups)-1]
		out = render(groups)
	}
	return out
}

func (m *Menu) String() string {
	rendered := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		rendered = append(rendered, m.line(l))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, rendered...))
}
