package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/photo"
	"github.com/homefix/homefix/theme"
)

// ResultPane shows the latest photo diagnosis as plain wrapped text.
type ResultPane struct {
	viewport viewport.Model
	styles   theme.Styles
	result   photo.Result

	width, height int
}

func NewResultPane(styles theme.Styles) *ResultPane {
	return &ResultPane{viewport: viewport.New(0, 0), styles: styles}
}

func (r *ResultPane) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = height
	r.refresh()
}

func (r *ResultPane) SetStyles(st theme.Styles) {
	r.styles = st
	r.refresh()
}

// SetResult replaces the displayed diagnosis and scrolls to the top.
func (r *ResultPane) SetResult(res photo.Result) {
	r.result = res
	r.refresh()
	r.viewport.GotoTop()
}

func (r *ResultPane) refresh() {
	if r.width <= 0 {
		return
	}
	r.viewport.SetContent(RenderResult(r.result, r.styles, r.width))
}

// RenderResult lays out problem, location and solution, with placeholders
// for anything the backend left blank.
func RenderResult(res photo.Result, st theme.Styles, width int) string {
	d := res.Display()
	label := st.Title
	textWidth := max(width-st.Scale(2), 10)

	var b strings.Builder
	if res.ImagePath != "" {
		b.WriteString(st.Muted.Render(filepath.Base(res.ImagePath)))
		b.WriteString("\n\n")
	}
	section := func(title, body string) {
		b.WriteString(label.Render(title))
		b.WriteString("\n")
		b.WriteString(st.Text.Render(wrapText(body, textWidth)))
		b.WriteString("\n\n")
	}
	section("문제", d.Problem)
	section("위치", d.Location)
	if res.UserMessage != "" {
		section("설명", res.UserMessage)
	}
	section("해결 방법", d.Solution)
	return lipgloss.NewStyle().PaddingLeft(st.Scale(1)).Render(strings.TrimRight(b.String(), "\n"))
}

func (r *ResultPane) ScrollUp()   { r.viewport.LineUp(1) }
func (r *ResultPane) ScrollDown() { r.viewport.LineDown(1) }
func (r *ResultPane) PageUp()     { r.viewport.ViewUp() }
func (r *ResultPane) PageDown()   { r.viewport.ViewDown() }
func (r *ResultPane) GotoTop()    { r.viewport.GotoTop() }
func (r *ResultPane) GotoBottom() { r.viewport.GotoBottom() }

func (r *ResultPane) String() string {
	if r.width <= 0 || r.height <= 0 {
		return ""
	}
	return r.viewport.View()
}
