package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/theme"
)

// InputOverlay is a single-line text prompt, used for typing the backend
// address by hand.
type InputOverlay struct {
	textinput textinput.Model
	title     string
	submitted bool
	canceled  bool
	width     int
	palette   theme.Palette

	// OnSubmit receives the trimmed value when enter is pressed.
	OnSubmit func(value string)
}

// NewInputOverlay creates a focused prompt pre-filled with value.
func NewInputOverlay(title, placeholder, value string) *InputOverlay {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	ti.CharLimit = 256

	o := &InputOverlay{
		textinput: ti,
		title:     title,
		palette:   theme.Dark,
	}
	o.SetWidth(50)
	return o
}

func (o *InputOverlay) SetWidth(width int) {
	o.width = width
	// Border and padding take six columns, the prompt two more.
	o.textinput.Width = max(width-8, 10)
}

// SetPalette recolors the overlay.
func (o *InputOverlay) SetPalette(p theme.Palette) {
	o.palette = p
	o.textinput.PromptStyle = lipgloss.NewStyle().Foreground(p.Tint)
	o.textinput.TextStyle = lipgloss.NewStyle().Foreground(p.Text)
	o.textinput.PlaceholderStyle = lipgloss.NewStyle().Foreground(p.Muted)
}

// HandleKeyPress returns true when the overlay should close.
func (o *InputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		o.canceled = true
		return true
	case tea.KeyEnter:
		o.submitted = true
		if o.OnSubmit != nil {
			o.OnSubmit(o.Value())
		}
		return true
	default:
		o.textinput, _ = o.textinput.Update(msg)
		return false
	}
}

// Value returns the current text without surrounding whitespace.
func (o *InputOverlay) Value() string {
	return strings.TrimSpace(o.textinput.Value())
}

func (o *InputOverlay) IsSubmitted() bool {
	return o.submitted
}

func (o *InputOverlay) IsCanceled() bool {
	return o.canceled
}

func (o *InputOverlay) Render(opts ...WhitespaceOption) string {
	p := o.palette
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Tint).
		Padding(1, 2).
		Width(o.width)

	titleStyle := lipgloss.NewStyle().Foreground(p.Text).Bold(true)
	helpStyle := lipgloss.NewStyle().Foreground(p.Muted)

	content := titleStyle.Render(o.title) + "\n\n"
	content += o.textinput.View() + "\n\n"
	content += helpStyle.Render("Enter to save, Esc to cancel")
	return style.Render(content)
}
