package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/theme"
)

func tabBorderWithBottom(left, middle, right string) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	border.BottomLeft = left
	border.Bottom = middle
	border.BottomRight = right
	return border
}

var (
	inactiveTabBorder = tabBorderWithBottom("┴", "─", "┴")
	activeTabBorder   = tabBorderWithBottom("┘", " ", "└")
)

const (
	ChatTab int = iota
	PhotoTab
	ResultTab
)

// Pane is the content of one tab.
type Pane interface {
	SetSize(width, height int)
	String() string
}

// TabbedWindow has tabs at the top of a pane which can be selected. The tabs
// take up one rune of height.
type TabbedWindow struct {
	tabs   []string
	panes  []Pane
	unread []bool

	activeTab int
	height    int
	width     int

	styles    theme.Styles
	focusMode bool // true while the user is typing into the active pane
}

func NewTabbedWindow(styles theme.Styles, chat, photo, result Pane) *TabbedWindow {
	return &TabbedWindow{
		tabs:   []string{"Chat", "Photo", "Result"},
		panes:  []Pane{chat, photo, result},
		unread: make([]bool, 3),
		styles: styles,
	}
}

// SetFocusMode switches the border to the input color.
func (w *TabbedWindow) SetFocusMode(enabled bool) {
	w.focusMode = enabled
}

func (w *TabbedWindow) IsFocusMode() bool {
	return w.focusMode
}

func (w *TabbedWindow) SetStyles(st theme.Styles) {
	w.styles = st
}

func (w *TabbedWindow) tabStyles() (active, inactive, window lipgloss.Style) {
	color := w.styles.Palette.Border
	if w.focusMode {
		color = w.styles.Palette.Success
	}
	inactive = lipgloss.NewStyle().
		Border(inactiveTabBorder, true).
		BorderForeground(color).
		Foreground(w.styles.Palette.Icon).
		AlignHorizontal(lipgloss.Center)
	active = inactive.
		Border(activeTabBorder, true).
		Foreground(w.styles.Palette.Tint).
		Bold(true)
	window = lipgloss.NewStyle().
		BorderForeground(color).
		Border(lipgloss.RoundedBorder(), false, true, true, true)
	return active, inactive, window
}

func (w *TabbedWindow) SetSize(width, height int) {
	w.width = width
	w.height = height

	active, _, window := w.tabStyles()
	tabHeight := active.GetVerticalFrameSize() + 1
	contentHeight := height - tabHeight - window.GetVerticalFrameSize()
	contentWidth := width - window.GetHorizontalFrameSize()
	for _, p := range w.panes {
		p.SetSize(contentWidth, contentHeight)
	}
}

// MarkUnread puts a dot on a background tab until it is opened.
func (w *TabbedWindow) MarkUnread(tab int) {
	if tab >= 0 && tab < len(w.tabs) && tab != w.activeTab {
		w.unread[tab] = true
	}
}

func (w *TabbedWindow) Unread(tab int) bool {
	return tab >= 0 && tab < len(w.unread) && w.unread[tab]
}

func (w *TabbedWindow) activate(tab int) {
	w.activeTab = tab
	w.unread[tab] = false
}

// Next moves to the following tab, wrapping around.
func (w *TabbedWindow) Next() {
	w.activate((w.activeTab + 1) % len(w.tabs))
}

// Prev moves to the preceding tab, wrapping around.
func (w *TabbedWindow) Prev() {
	w.activate((w.activeTab - 1 + len(w.tabs)) % len(w.tabs))
}

// SetActiveTab sets the active tab by index.
func (w *TabbedWindow) SetActiveTab(tab int) {
	if tab >= 0 && tab < len(w.tabs) {
		w.activate(tab)
	}
}

// GetActiveTab returns the currently active tab index.
func (w *TabbedWindow) GetActiveTab() int {
	return w.activeTab
}

// HandleTabClick switches tabs when the click at local coordinates hits a
// tab header.
func (w *TabbedWindow) HandleTabClick(localX, localY int) bool {
	if localY < 0 || localY > 2 || w.width == 0 {
		return false
	}
	tabWidth := w.width / len(w.tabs)
	clicked := localX / tabWidth
	if clicked >= len(w.tabs) {
		clicked = len(w.tabs) - 1
	}
	if clicked < 0 {
		return false
	}
	w.activate(clicked)
	return true
}

func (w *TabbedWindow) String() string {
	if w.width == 0 || w.height == 0 {
		return ""
	}

	activeStyle, inactiveStyle, windowStyle := w.tabStyles()
	tabWidth := w.width / len(w.tabs)
	lastTabWidth := w.width - tabWidth*(len(w.tabs)-1)
	tabHeight := activeStyle.GetVerticalFrameSize() + 1

	var renderedTabs []string
	for i, t := range w.tabs {
		width := tabWidth
		if i == len(w.tabs)-1 {
			width = lastTabWidth
		}

		isFirst, isLast, isActive := i == 0, i == len(w.tabs)-1, i == w.activeTab
		style := inactiveStyle
		if isActive {
			style = activeStyle
		}
		border, _, _, _, _ := style.GetBorder()
		if isFirst && isActive {
			border.BottomLeft = "│"
		} else if isFirst {
			border.BottomLeft = "├"
		} else if isLast && isActive {
			border.BottomRight = "│"
		} else if isLast {
			border.BottomRight = "┤"
		}
		style = style.Border(border)
		style = style.Width(width - style.GetHorizontalFrameSize())
		if w.unread[i] {
			t += lipgloss.NewStyle().Foreground(w.styles.Palette.Badge).Render(" ●")
		}
		if isActive && !w.focusMode {
			renderedTabs = append(renderedTabs, style.Render(
				GradientText(t, string(w.styles.Palette.Tint), string(w.styles.Palette.Badge))))
		} else {
			renderedTabs = append(renderedTabs, style.Render(t))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
	content := w.panes[w.activeTab].String()
	innerWidth := w.width - windowStyle.GetHorizontalFrameSize()
	window := windowStyle.Render(
		lipgloss.Place(
			innerWidth, w.height-windowStyle.GetVerticalFrameSize()-tabHeight,
			lipgloss.Left, lipgloss.Top, content))

	return lipgloss.JoinVertical(lipgloss.Left, row, window)
}
