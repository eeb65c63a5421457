package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/keys"
	"github.com/homefix/homefix/theme"
	"github.com/homefix/homefix/ui"
	"github.com/homefix/homefix/ui/overlay"
)

type helpSection struct {
	title string
	keys  []keys.KeyName
}

var helpSections = []helpSection{
	{"Chat:", []keys.KeyName{keys.KeyFocus, keys.KeySubmit, keys.KeyBlur, keys.KeyCopy, keys.KeyClear}},
	{"Photo:", []keys.KeyName{keys.KeyOpen, keys.KeyBrowse, keys.KeyNote, keys.KeyAnalyze}},
	{"Navigation:", []keys.KeyName{keys.KeyNextTab, keys.KeyChatTab, keys.KeyPhotoTab, keys.KeyResultTab, keys.KeyUp}},
	{"Display:", []keys.KeyName{keys.KeySettings, keys.KeyToggleDark, keys.KeyFontUp, keys.KeyFontDown}},
	{"Other:", []keys.KeyName{keys.KeyRedetect, keys.KeyHelp, keys.KeyQuit}},
}

// helpContent lists the current key bindings, so remapped keys show up.
func helpContent(st theme.Styles) string {
	p := st.Palette
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Tint)
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Badge).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(p.Text)

	lines := []string{
		ui.GradientText("homefix", string(p.Tint), string(p.Badge)),
		"",
		descStyle.Render("Ask about a repair or send a photo for a diagnosis."),
	}
	for _, sec := range helpSections {
		lines = append(lines, "", headerStyle.Render(sec.title))
		for _, k := range sec.keys {
			h := keys.GlobalkeyBindings[k].Help()
			lines = append(lines, keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// showHelpScreen displays the help screen overlay
func (m *home) showHelpScreen() (tea.Model, tea.Cmd) {
	m.textOverlay = overlay.NewTextOverlay(helpContent(m.styles))
	m.textOverlay.SetPalette(m.styles.Palette)
	m.textOverlay.SetWidth(m.overlayWidth())
	m.state = stateHelp
	return m, nil
}
