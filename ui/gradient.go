package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// gradientStops returns n colors blended from startHex to endHex. Invalid
// hex values fall back to a flat start color.
func gradientStops(startHex, endHex string, n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	start, err1 := colorful.Hex(startHex)
	end, err2 := colorful.Hex(endHex)
	stops := make([]lipgloss.Color, n)
	for i := range stops {
		if err1 != nil || err2 != nil {
			stops[i] = lipgloss.Color(startHex)
			continue
		}
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		stops[i] = lipgloss.Color(start.BlendLuv(end, t).Clamped().Hex())
	}
	return stops
}

// GradientText colors text left to right from startHex to endHex. Newlines
// are kept and do not advance the gradient.
func GradientText(text, startHex, endHex string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	visible := 0
	for _, r := range runes {
		if r != '\n' {
			visible++
		}
	}
	stops := gradientStops(startHex, endHex, visible)

	var sb strings.Builder
	idx := 0
	for _, r := range runes {
		if r == '\n' {
			sb.WriteRune('\n')
			continue
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(stops[idx]).Render(string(r)))
		idx++
	}
	return sb.String()
}

// GradientBar renders width cells with the first filled cells drawn as a
// gradient and the rest as dim blocks.
func GradientBar(width, filled int, startHex, endHex string) string {
	if width <= 0 {
		return ""
	}
	filled = min(max(filled, 0), width)

	var sb strings.Builder
	for _, c := range gradientStops(startHex, endHex, filled) {
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Render("█"))
	}
	if filled < width {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#3C3C3C"))
		sb.WriteString(dim.Render(strings.Repeat("░", width-filled)))
	}
	return sb.String()
}
