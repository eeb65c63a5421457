package overlay

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/homefix/homefix/theme"
)

// ToastType identifies the kind of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastError
	ToastLoading
)

// ToastID refers to a toast returned by one of the ToastManager constructors.
type ToastID uint64

const (
	enterDuration = 250 * time.Millisecond
	leaveDuration = 200 * time.Millisecond

	// MaxToasts is the number of notices stacked at once.
	MaxToasts = 3
)

// lifetime is how long a toast of the given type stays before leaving. Zero
// keeps it until it is resolved or dismissed.
func lifetime(typ ToastType) time.Duration {
	switch typ {
	case ToastError:
		return 5 * time.Second
	case ToastLoading:
		return 0
	default:
		return 3 * time.Second
	}
}

type toast struct {
	id      ToastID
	typ     ToastType
	text    string
	shown   time.Time
	expires time.Time // zero while sticky
	leaving time.Time // zero until the slide-out starts
}

func (t *toast) gone(now time.Time) bool {
	return !t.leaving.IsZero() && now.Sub(t.leaving) >= leaveDuration
}

// offset is how many columns the toast is pushed off the right edge.
func (t *toast) offset(now time.Time, span int) int {
	if !t.leaving.IsZero() {
		p := min(float64(now.Sub(t.leaving))/float64(leaveDuration), 1)
		return int(float64(span) * p * p)
	}
	p := min(float64(now.Sub(t.shown))/float64(enterDuration), 1)
	return int(float64(span) * (1 - p) * (1 - p))
}

// ToastManager stacks short notices in the bottom-right corner above the
// menu. The app drives it with ToastTickMsg while HasActiveToasts is true.
type ToastManager struct {
	toasts  []*toast
	spinner *spinner.Model
	palette theme.Palette
	width   int
	height  int
	lastID  ToastID
	now     func() time.Time
}

func NewToastManager(s *spinner.Model) *ToastManager {
	return &ToastManager{spinner: s, palette: theme.Dark, now: time.Now}
}

func (tm *ToastManager) SetPalette(p theme.Palette) {
	tm.palette = p
}

func (tm *ToastManager) SetSize(width, height int) {
	tm.width = width
	tm.height = height
}

// boxWidth is a third of the screen, kept between 30 and 50 columns.
func (tm *ToastManager) boxWidth() int {
	return min(max(tm.width/3, 30), 50)
}

func (tm *ToastManager) Info(msg string) ToastID    { return tm.push(ToastInfo, msg) }
func (tm *ToastManager) Success(msg string) ToastID { return tm.push(ToastSuccess, msg) }
func (tm *ToastManager) Error(msg string) ToastID   { return tm.push(ToastError, msg) }

// Loading shows a spinner toast that stays until Resolve or Dismiss.
func (tm *ToastManager) Loading(msg string) ToastID { return tm.push(ToastLoading, msg) }

func (tm *ToastManager) push(typ ToastType, msg string) ToastID {
	tm.lastID++
	now := tm.now()
	t := &toast{id: tm.lastID, typ: typ, text: msg, shown: now}
	if d := lifetime(typ); d > 0 {
		t.expires = now.Add(d)
	}

	if len(tm.toasts) >= MaxToasts {
		tm.evict()
	}
	tm.toasts = append(tm.toasts, t)
	return t.id
}

// evict drops the oldest toast, preferring ones that are not loading.
func (tm *ToastManager) evict() {
	victim := 0
	for i, t := range tm.toasts {
		if t.typ != ToastLoading {
			victim = i
			break
		}
	}
	tm.toasts = append(tm.toasts[:victim], tm.toasts[victim+1:]...)
}

func (tm *ToastManager) find(id ToastID) *toast {
	for _, t := range tm.toasts {
		if t.id == id {
			return t
		}
	}
	return nil
}

// Resolve replaces the type and text of a toast, usually a loading one, and
// restarts its dismissal timer. Unknown ids are ignored.
func (tm *ToastManager) Resolve(id ToastID, typ ToastType, msg string) {
	t := tm.find(id)
	if t == nil {
		return
	}
	t.typ, t.text = typ, msg
	t.leaving = time.Time{}
	t.expires = time.Time{}
	if d := lifetime(typ); d > 0 {
		t.expires = tm.now().Add(d)
	}
}

// Dismiss starts sliding the toast out.
func (tm *ToastManager) Dismiss(id ToastID) {
	if t := tm.find(id); t != nil && t.leaving.IsZero() {
		t.leaving = tm.now()
	}
}

func (tm *ToastManager) HasActiveToasts() bool {
	return len(tm.toasts) > 0
}

// ToastTickMsg advances toast animations.
type ToastTickMsg struct{}

// Tick starts the slide-out of expired toasts and drops finished ones.
func (tm *ToastManager) Tick() {
	now := tm.now()
	kept := tm.toasts[:0]
	for _, t := range tm.toasts {
		if t.leaving.IsZero() && !t.expires.IsZero() && !now.Before(t.expires) {
			t.leaving = now
		}
		if !t.gone(now) {
			kept = append(kept, t)
		}
	}
	tm.toasts = kept
}

func (tm *ToastManager) accent(typ ToastType) lipgloss.Color {
	switch typ {
	case ToastSuccess:
		return tm.palette.Success
	case ToastError:
		return tm.palette.Error
	case ToastLoading:
		return tm.palette.Badge
	}
	return tm.palette.Tint
}

func (tm *ToastManager) icon(typ ToastType) string {
	glyph := "•"
	switch typ {
	case ToastSuccess:
		glyph = "✓"
	case ToastError:
		glyph = "!"
	case ToastLoading:
		if tm.spinner != nil {
			glyph = tm.spinner.View()
		}
	}
	return lipgloss.NewStyle().Foreground(tm.accent(typ)).Bold(true).Render(glyph)
}

func (tm *ToastManager) render(t *toast, width int) string {
	icon := tm.icon(t.typ)
	gutter := lipgloss.Width(icon) + 1
	// Two columns of border and two of padding.
	wrap := max(width-4-gutter, 10)

	lines := strings.Split(wordwrap.String(t.text, wrap), "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = icon + " " + lines[i]
		} else {
			lines[i] = strings.Repeat(" ", gutter) + lines[i]
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tm.accent(t.typ)).
		Foreground(tm.palette.Text).
		Background(tm.palette.Background).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// View renders the stack, newest at the bottom.
func (tm *ToastManager) View() string {
	if len(tm.toasts) == 0 {
		return ""
	}
	width := tm.boxWidth()
	boxes := make([]string, 0, len(tm.toasts))
	for _, t := range tm.toasts {
		boxes = append(boxes, tm.render(t, width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

// GetPosition returns the top-left corner for View. The stack sits two rows
// above the bottom edge and slides in from the right.
func (tm *ToastManager) GetPosition() (int, int) {
	width := tm.boxWidth()
	now := tm.now()
	slide := 0
	for _, t := range tm.toasts {
		slide = max(slide, t.offset(now, width+2))
	}
	x := max(tm.width-width-2, 0) + slide
	y := max(tm.height-lipgloss.Height(tm.View())-2, 0)
	return x, y
}
