package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/homefix/homefix/photo"
	"github.com/homefix/homefix/theme"
)

// noteHint is drawn under the empty note input. textinput placeholders are
// sliced by display width, which breaks on double-width Hangul, so the hint
// is rendered outside the input.
const noteHint = "어떤 문제인지 설명해 주세요 (선택)"

// PhotoField identifies which input on the photo tab has focus.
type PhotoField int

const (
	PhotoFieldNone PhotoField = iota
	PhotoFieldPath
	PhotoFieldNote
)

// PhotoPane lets the user pick an image file and an optional note before
// uploading it for analysis.
type PhotoPane struct {
	path    textinput.Model
	note    textinput.Model
	spinner *spinner.Model
	styles  theme.Styles

	focus     PhotoField
	selected  *photo.Encoded
	analyzing bool

	width, height int
}

func NewPhotoPane(s *spinner.Model, styles theme.Styles) *PhotoPane {
	path := textinput.New()
	path.Placeholder = "~/Pictures/bathroom.jpg"
	path.Prompt = "사진 경로 > "
	path.CharLimit = 1024

	note := textinput.New()
	note.Prompt = "설명 > "
	note.CharLimit = 500

	return &PhotoPane{
		path:    path,
		note:    note,
		spinner: s,
		styles:  styles,
	}
}

func (p *PhotoPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.path.Width = max(width-lipgloss.Width(p.path.Prompt)-2, 10)
	p.note.Width = max(width-lipgloss.Width(p.note.Prompt)-2, 10)
}

func (p *PhotoPane) SetStyles(st theme.Styles) {
	p.styles = st
	for _, in := range []*textinput.Model{&p.path, &p.note} {
		in.PromptStyle = st.Tint
		in.TextStyle = st.Text
		in.PlaceholderStyle = st.Muted
	}
}

// FocusField focuses one input, or blurs both for PhotoFieldNone.
func (p *PhotoPane) FocusField(f PhotoField) tea.Cmd {
	p.focus = f
	p.path.Blur()
	p.note.Blur()
	switch f {
	case PhotoFieldPath:
		return p.path.Focus()
	case PhotoFieldNote:
		return p.note.Focus()
	}
	return nil
}

func (p *PhotoPane) Focused() PhotoField {
	return p.focus
}

// PathValue returns the typed path, trimmed.
func (p *PhotoPane) PathValue() string {
	return strings.TrimSpace(p.path.Value())
}

func (p *PhotoPane) NoteValue() string {
	return strings.TrimSpace(p.note.Value())
}

// SetSelected shows the loaded image.
func (p *PhotoPane) SetSelected(enc *photo.Encoded) {
	p.selected = enc
}

func (p *PhotoPane) SetAnalyzing(b bool) {
	p.analyzing = b
}

// ClearNote empties the note after a successful analysis.
func (p *PhotoPane) ClearNote() {
	p.note.Reset()
}

func (p *PhotoPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case PhotoFieldPath:
		p.path, cmd = p.path.Update(msg)
	case PhotoFieldNote:
		p.note, cmd = p.note.Update(msg)
	}
	return cmd
}

func (p *PhotoPane) String() string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}
	st := p.styles

	var selected string
	if p.selected == nil {
		selected = st.Muted.Render("선택된 사진이 없습니다. o 를 눌러 사진 경로를 입력하세요.")
	} else {
		kb := len(p.selected.Base64) * 3 / 4 / 1024
		selected = st.Success.Render("✓ "+filepath.Base(p.selected.Path)) + " " +
			st.Muted.Render(fmt.Sprintf("(%s, %dx%d, %dKB)", p.selected.Format, p.selected.Width, p.selected.Height, kb))
	}

	status := st.Muted.Render("a 를 눌러 분석을 시작합니다.")
	if p.analyzing {
		status = p.spinner.View() + " " + st.Muted.Render("사진을 분석하는 중...")
	}

	noteLines := []string{p.note.View()}
	if p.note.Value() == "" {
		indent := strings.Repeat(" ", lipgloss.Width(p.note.Prompt))
		noteLines = append(noteLines, truncate.StringWithTail(indent+st.Muted.Render(noteHint), uint(p.width), "…"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		st.Title.Render("사진으로 진단하기"),
		"",
		p.path.View(),
		lipgloss.JoinVertical(lipgloss.Left, noteLines...),
		"",
		selected,
		"",
		status,
	)
}
