package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/theme"
)

// Choice is one row of a SelectionOverlay. Hint is drawn dimmed after the
// label.
type Choice struct {
	Label string
	Hint  string
}

// SelectionOverlay is a short vertical list picker. The row holding the
// saved value is marked separately from the cursor.
type SelectionOverlay struct {
	title   string
	choices []Choice
	cursor  int
	current int
	width   int
	palette theme.Palette

	// OnSelect runs when a row is confirmed.
	OnSelect func(index int, choice Choice)
}

// NewSelectionOverlay opens with the cursor on current. An out-of-range
// current leaves nothing marked.
func NewSelectionOverlay(title string, choices []Choice, current int) *SelectionOverlay {
	s := &SelectionOverlay{
		title:   title,
		choices: choices,
		current: -1,
		width:   50,
		palette: theme.Dark,
	}
	if current >= 0 && current < len(choices) {
		s.current = current
		s.cursor = current
	}
	return s
}

func (s *SelectionOverlay) SetWidth(width int) {
	s.width = width
}

func (s *SelectionOverlay) SetPalette(p theme.Palette) {
	s.palette = p
}

// Cursor returns the highlighted row, or -1 once the overlay was cancelled.
func (s *SelectionOverlay) Cursor() int {
	return s.cursor
}

// Highlighted returns the choice under the cursor.
func (s *SelectionOverlay) Highlighted() (Choice, bool) {
	if s.cursor < 0 || s.cursor >= len(s.choices) {
		return Choice{}, false
	}
	return s.choices[s.cursor], true
}

func (s *SelectionOverlay) move(delta int) {
	if n := len(s.choices); n > 0 {
		s.cursor = (s.cursor + delta + n) % n
	}
}

func (s *SelectionOverlay) confirm() bool {
	if c, ok := s.Highlighted(); ok && s.OnSelect != nil {
		s.OnSelect(s.cursor, c)
	}
	return true
}

// HandleKeyPress moves the cursor or closes the overlay. It returns true when
// the overlay is done. Digits 1-9 pick a row directly.
func (s *SelectionOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	key := msg.String()
	switch key {
	case "up", "k", "shift+tab":
		s.move(-1)
	case "down", "j", "tab":
		s.move(1)
	case "home", "g":
		s.cursor = 0
	case "end", "G":
		s.cursor = max(len(s.choices)-1, 0)
	case "enter", " ":
		return s.confirm()
	case "esc", "q":
		s.cursor = -1
		return true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(s.choices) {
				s.cursor = i
				return s.confirm()
			}
		}
	}
	return false
}

func (s *SelectionOverlay) Render(opts ...WhitespaceOption) string {
	p := s.palette
	dim := lipgloss.NewStyle().Foreground(p.Muted)
	text := lipgloss.NewStyle().Foreground(p.Text)
	active := lipgloss.NewStyle().Foreground(p.Tint).Bold(true)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(p.Text).Render(s.title))
	b.WriteString("\n\n")
	for i, c := range s.choices {
		pointer, label := "  ", text
		if i == s.cursor {
			pointer, label = active.Render("› "), active
		}
		mark := "  "
		if i == s.current {
			mark = lipgloss.NewStyle().Foreground(p.Success).Render("● ")
		}
		row := pointer + dim.Render(fmt.Sprintf("%d ", i+1)) + mark + label.Render(c.Label)
		if c.Hint != "" {
			row += " " + dim.Render(c.Hint)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n" + dim.Render("↑/↓ move, Enter choose, Esc close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Tint).
		Padding(1, 2).
		Width(s.width).
		Render(b.String())
}
