package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/prefs"
)

// Terminals cannot resize glyphs, so the font scale stretches layout metrics
// instead.
const (
	basePadding      = 1
	baseBubbleMargin = 2
	baseBubbleWidth  = 0.75
	maxBubbleWidth   = 0.95
)

// Styles is a palette rendered at a font scale.
type Styles struct {
	Palette    Palette
	Dark       bool
	Multiplier float64

	Text            lipgloss.Style
	Muted           lipgloss.Style
	Title           lipgloss.Style
	Tint            lipgloss.Style
	Error           lipgloss.Style
	Success         lipgloss.Style
	Badge           lipgloss.Style
	Link            lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Window          lipgloss.Style
	ActiveTab       lipgloss.Style
	InactiveTab     lipgloss.Style
	Help            lipgloss.Style
}

// FromSettings builds the styles for persisted preferences.
func FromSettings(s prefs.Settings) Styles {
	return New(s.DarkMode, s.FontScale)
}

// New builds styles for the dark or light palette at the given scale.
func New(dark bool, fs prefs.FontScale) Styles {
	st := Styles{
		Palette:    For(dark),
		Dark:       dark,
		Multiplier: fs.Multiplier(),
	}
	p := st.Palette
	pad := st.Scale(basePadding)

	st.Text = lipgloss.NewStyle().Foreground(p.Text)
	st.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	st.Title = lipgloss.NewStyle().Bold(true).Foreground(p.Tint)
	st.Tint = lipgloss.NewStyle().Foreground(p.Tint)
	st.Error = lipgloss.NewStyle().Foreground(p.Error)
	st.Success = lipgloss.NewStyle().Foreground(p.Success)
	st.Badge = lipgloss.NewStyle().Foreground(p.Background).Background(p.Badge).Padding(0, 1)
	st.Link = lipgloss.NewStyle().Foreground(p.Tint).Underline(true)

	st.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleText).
		Background(p.UserBubble).
		Padding(0, pad).
		MarginLeft(st.Scale(baseBubbleMargin))
	st.AssistantBubble = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.AssistantBubble).
		Padding(0, pad).
		MarginRight(st.Scale(baseBubbleMargin))

	st.Window = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, pad)
	st.ActiveTab = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Tint).
		Border(lipgloss.RoundedBorder(), true, true, false, true).
		BorderForeground(p.Tint).
		Padding(0, pad)
	st.InactiveTab = st.ActiveTab.
		Bold(false).
		Foreground(p.Icon).
		BorderForeground(p.Border)
	st.Help = lipgloss.NewStyle().Foreground(p.Icon)
	return st
}

// Scale stretches a base cell count by the font scale multiplier.
func (s Styles) Scale(base int) int {
	m := s.Multiplier
	if m <= 0 {
		m = 1
	}
	v := int(math.Round(float64(base) * m))
	if v < 0 {
		return 0
	}
	return v
}

// BubbleWidth is the widest a chat bubble may be inside a pane of the given
// width. Larger text gets a larger share of the row.
func (s Styles) BubbleWidth(paneWidth int) int {
	frac := baseBubbleWidth * s.Multiplier
	if frac > maxBubbleWidth {
		frac = maxBubbleWidth
	}
	w := int(math.Round(float64(paneWidth) * frac))
	if w < 10 {
		w = min(paneWidth, 10)
	}
	return w
}

// LineGap is the number of blank lines between chat messages.
func (s Styles) LineGap() int {
	if s.Multiplier >= 1.1 {
		return 2
	}
	if s.Multiplier < 0.9 {
		return 0
	}
	return 1
}
