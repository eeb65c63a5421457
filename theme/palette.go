// Package theme maps the dark mode and font scale preferences to concrete
// lipgloss colors and styles.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette names every color the client draws with.
type Palette struct {
	Text            lipgloss.Color
	Background      lipgloss.Color
	Tint            lipgloss.Color
	Icon            lipgloss.Color
	Muted           lipgloss.Color
	Border          lipgloss.Color
	UserBubble      lipgloss.Color
	UserBubbleText  lipgloss.Color
	AssistantBubble lipgloss.Color
	Error           lipgloss.Color
	Success         lipgloss.Color
	Badge           lipgloss.Color
}

var Light = Palette{
	Text:            lipgloss.Color("#11181C"),
	Background:      lipgloss.Color("#FFFFFF"),
	Tint:            lipgloss.Color("#0A7EA4"),
	Icon:            lipgloss.Color("#687076"),
	Muted:           lipgloss.Color("#A49FA5"),
	Border:          lipgloss.Color("#D0D7DE"),
	UserBubble:      lipgloss.Color("#0A7EA4"),
	UserBubbleText:  lipgloss.Color("#FFFFFF"),
	AssistantBubble: lipgloss.Color("#F1F3F5"),
	Error:           lipgloss.Color("#DE613E"),
	Success:         lipgloss.Color("#51BD73"),
	Badge:           lipgloss.Color("#F0A868"),
}

var Dark = Palette{
	Text:            lipgloss.Color("#ECEDEE"),
	Background:      lipgloss.Color("#151718"),
	Tint:            lipgloss.Color("#FFFFFF"),
	Icon:            lipgloss.Color("#9BA1A6"),
	Muted:           lipgloss.Color("#777777"),
	Border:          lipgloss.Color("#3A3F44"),
	UserBubble:      lipgloss.Color("#1E6F8C"),
	UserBubbleText:  lipgloss.Color("#ECEDEE"),
	AssistantBubble: lipgloss.Color("#23272A"),
	Error:           lipgloss.Color("#FF7B72"),
	Success:         lipgloss.Color("#56D364"),
	Badge:           lipgloss.Color("#F0A868"),
}

// For returns the palette for the given mode.
func For(dark bool) Palette {
	if dark {
		return Dark
	}
	return Light
}
