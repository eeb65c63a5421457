package overlay

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

// whitespace fills the gaps PlaceOverlay opens in the background when a
// foreground line lands past the end of a shorter background line.
type whitespace struct {
	style termenv.Style
	chars string
}

// WhitespaceOption styles the fill used around an overlay.
type WhitespaceOption func(*whitespace)

// WithWhitespaceChars fills gaps with the given characters, repeated.
func WithWhitespaceChars(s string) WhitespaceOption {
	return func(w *whitespace) { w.chars = s }
}

// WithWhitespaceForeground colors the fill characters.
func WithWhitespaceForeground(c lipgloss.TerminalColor) WhitespaceOption {
	return func(w *whitespace) {
		w.style = w.style.Foreground(colorFor(c))
	}
}

// WithWhitespaceBackground colors behind the fill characters.
func WithWhitespaceBackground(c lipgloss.TerminalColor) WhitespaceOption {
	return func(w *whitespace) {
		w.style = w.style.Background(colorFor(c))
	}
}

func colorFor(c lipgloss.TerminalColor) termenv.Color {
	switch v := c.(type) {
	case lipgloss.Color:
		return termenv.ColorProfile().Color(string(v))
	case lipgloss.AdaptiveColor:
		if lipgloss.HasDarkBackground() {
			return termenv.ColorProfile().Color(v.Dark)
		}
		return termenv.ColorProfile().Color(v.Light)
	default:
		return nil
	}
}

func (w whitespace) render(width int) string {
	if width <= 0 {
		return ""
	}
	chars := w.chars
	if chars == "" {
		chars = " "
	}
	r := []rune(chars)

	var b strings.Builder
	for i, j := 0, 0; i < width; {
		b.WriteRune(r[j])
		i += runewidth.RuneWidth(r[j])
		j = (j + 1) % len(r)
	}
	s := b.String()
	if short := width - ansi.PrintableRuneWidth(s); short > 0 {
		s += strings.Repeat(" ", short)
	}
	return w.style.Styled(s)
}

// PlaceOverlay draws fg on top of bg at column x, row y. With center set the
// position is ignored and fg is centered. With shadow set a drop shadow is
// drawn below and to the right of fg.
func PlaceOverlay(x, y int, fg, bg string, shadow, center bool, opts ...WhitespaceOption) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)
	fgHeight := len(fgLines)

	if shadow {
		shadeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
		var sb strings.Builder
		for i := 0; i <= fgHeight; i++ {
			if i == 0 {
				sb.WriteString(" " + strings.Repeat(" ", fgWidth) + "\n")
				continue
			}
			sb.WriteString(" " + shadeStyle.Render(strings.Repeat("░", fgWidth)) + "\n")
		}
		fg = PlaceOverlay(0, 0, fg, strings.TrimSuffix(sb.String(), "\n"), false, false, opts...)
		fgLines, fgWidth = getLines(fg)
		fgHeight = len(fgLines)
	}

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return fg
	}

	if center {
		x = (bgWidth - fgWidth) / 2
		y = (bgHeight - fgHeight) / 2
	}
	x = clamp(x, 0, bgWidth-fgWidth)
	y = clamp(y, 0, bgHeight-fgHeight)

	ws := &whitespace{}
	for _, opt := range opts {
		opt(ws)
	}

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(ws.render(x - pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		right := cutLeft(bgLine, pos)
		bgLineWidth := ansi.PrintableRuneWidth(bgLine)
		rightWidth := ansi.PrintableRuneWidth(right)
		if rightWidth <= bgLineWidth-pos {
			b.WriteString(ws.render(bgLineWidth - rightWidth - pos))
		}
		b.WriteString(right)
	}
	return b.String()
}

// cutLeft drops the first cutWidth cells of s while keeping the ANSI state
// that was active at the cut.
func cutLeft(s string, cutWidth int) string {
	var (
		pos    int
		isAnsi bool
		ab     bytes.Buffer
		b      bytes.Buffer
	)
	for _, c := range s {
		var w int
		if c == ansi.Marker || isAnsi {
			isAnsi = true
			ab.WriteRune(c)
			if ansi.IsTerminator(c) {
				isAnsi = false
				if bytes.HasSuffix(ab.Bytes(), []byte("[0m")) {
					ab.Reset()
				}
			}
		} else {
			w = runewidth.RuneWidth(c)
		}

		if pos >= cutWidth {
			if b.Len() == 0 {
				if ab.Len() > 0 {
					b.Write(ab.Bytes())
				}
				// A wide rune straddled the cut; pad its visible half.
				if pos-cutWidth > 1 {
					b.WriteByte(' ')
					continue
				}
			}
			b.WriteRune(c)
		}
		pos += w
	}
	return b.String()
}

func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		if w := ansi.PrintableRuneWidth(l); w > widest {
			widest = w
		}
	}
	return lines, widest
}

func clamp(v, lower, upper int) int {
	if upper < lower {
		return lower
	}
	return min(max(v, lower), upper)
}
