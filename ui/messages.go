package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/theme"
)

var pricePrinter = message.NewPrinter(language.Korean)

// wrapText word-wraps s to width cells and hard-wraps anything that still
// does not fit, such as long URLs.
func wrapText(s string, width int) string {
	if width < 1 {
		width = 1
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// RenderMessages draws the chat history as left (assistant) and right (user)
// aligned bubbles inside a pane of the given width.
func RenderMessages(msgs []conversation.Message, st theme.Styles, width int) string {
	if width <= 0 {
		return ""
	}
	bubbleWidth := st.BubbleWidth(width)
	gap := strings.Repeat("\n", st.LineGap())

	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		blocks = append(blocks, renderMessage(m, st, width, bubbleWidth))
	}
	return strings.Join(blocks, "\n"+gap)
}

func renderMessage(m conversation.Message, st theme.Styles, width, bubbleWidth int) string {
	style := st.AssistantBubble
	align := lipgloss.Left
	if m.IsUser() {
		style = st.UserBubble
		align = lipgloss.Right
	}

	textWidth := bubbleWidth - style.GetHorizontalFrameSize()
	text := wrapText(m.Text, textWidth)
	// Shrink short messages to their content.
	bubble := style.Width(min(lipgloss.Width(text), textWidth) + style.GetHorizontalPadding()).Render(text)

	var parts []string
	parts = append(parts, bubble)
	if len(m.Recommendations) > 0 {
		parts = append(parts, RenderRecommendations(m.Recommendations, st, bubbleWidth))
	}
	if !m.Timestamp.IsZero() {
		parts = append(parts, st.Muted.Render(m.Timestamp.Format("15:04")))
	}

	block := lipgloss.JoinVertical(align, parts...)
	return lipgloss.PlaceHorizontal(width, align, block)
}

// RenderRecommendations lists recommended supplies grouped as the backend
// returned them.
func RenderRecommendations(groups []api.RecoGroup, st theme.Styles, width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		title := st.Title.Render(g.Group)
		if g.Required {
			title += " " + st.Badge.Render("필수")
		}
		b.WriteString(title)
		b.WriteString("\n")
		for _, item := range g.Items {
			b.WriteString(renderItem(item, st, width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderItem(item api.RecoItem, st theme.Styles, width int) string {
	var meta []string
	if item.Price != nil {
		meta = append(meta, FormatPrice(*item.Price))
	}
	if item.Rating != nil {
		meta = append(meta, RatingBar(*item.Rating, st)+" "+fmt.Sprintf("%.1f", *item.Rating))
	}
	if item.Ad {
		meta = append(meta, st.Badge.Render("AD"))
	}

	line := "• " + runewidth.Truncate(item.Title, width-2, "…")
	out := st.Text.Render(line)
	if len(meta) > 0 {
		out += "\n  " + strings.Join(meta, "  ")
	}
	if item.Link != "" {
		out += "\n  " + st.Link.Render(runewidth.Truncate(item.Link, width-2, "…"))
	}
	return out
}

// FormatPrice renders a won amount with thousands separators.
func FormatPrice(p float64) string {
	return pricePrinter.Sprintf("%d원", int64(math.Round(p)))
}

// RatingBar draws a five-cell bar for a 0-5 rating.
func RatingBar(rating float64, st theme.Styles) string {
	filled := int(math.Round(rating))
	return GradientBar(5, filled, string(st.Palette.Badge), string(st.Palette.Success))
}
