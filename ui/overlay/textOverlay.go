package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/theme"
)

// TextOverlay is a modal text box dismissed by any key. It backs both the
// blocking alerts and the help screen.
type TextOverlay struct {
	// Whether the overlay has been dismissed
	Dismissed bool
	// Callback function to be called when the overlay is dismissed
	OnDismiss func()

	title   string
	content string
	// isError draws the box in the palette's error color.
	isError bool
	palette theme.Palette

	width int
}

// NewTextOverlay creates a new text screen overlay with the given content
func NewTextOverlay(content string) *TextOverlay {
	return &TextOverlay{
		content: content,
		palette: theme.Dark,
		width:   50,
	}
}

// NewAlertOverlay creates an error-styled overlay with a bold title line.
func NewAlertOverlay(title, message string) *TextOverlay {
	t := NewTextOverlay(message)
	t.title = title
	t.isError = true
	return t
}

// HandleKeyPress closes the overlay on any key.
func (t *TextOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	t.Dismissed = true
	if t.OnDismiss != nil {
		t.OnDismiss()
	}
	return true
}

// Render renders the text overlay
func (t *TextOverlay) Render(opts ...WhitespaceOption) string {
	borderColor := t.palette.Tint
	if t.isError {
		borderColor = t.palette.Error
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Foreground(t.palette.Text).
		Padding(1, 2).
		Width(t.width)

	body := t.content
	if t.title != "" {
		title := lipgloss.NewStyle().Bold(true).Foreground(borderColor).Render(t.title)
		body = title + "\n\n" + body
	}
	if t.isError {
		hint := lipgloss.NewStyle().Foreground(t.palette.Muted).Render("press any key to close")
		body += "\n\n" + hint
	}
	return style.Render(body)
}

func (t *TextOverlay) SetWidth(width int) {
	t.width = width
}

// SetPalette recolors the overlay.
func (t *TextOverlay) SetPalette(p theme.Palette) {
	t.palette = p
}

// Title returns the bold heading, empty for plain text overlays.
func (t *TextOverlay) Title() string {
	return t.title
}

// Content returns the body text.
func (t *TextOverlay) Content() string {
	return t.content
}
