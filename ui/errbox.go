package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/homefix/homefix/theme"
)

// ErrBox is a one-line status bar for the most recent error.
type ErrBox struct {
	height, width int
	err           error
	styles        theme.Styles
}

func NewErrBox(styles theme.Styles) *ErrBox {
	return &ErrBox{styles: styles}
}

func (e *ErrBox) SetError(err error) {
	e.err = err
}

func (e *ErrBox) Clear() {
	e.err = nil
}

func (e *ErrBox) HasError() bool {
	return e.err != nil
}

func (e *ErrBox) SetSize(width, height int) {
	e.width = width
	e.height = height
}

func (e *ErrBox) SetStyles(st theme.Styles) {
	e.styles = st
}

func (e *ErrBox) String() string {
	var msg string
	if e.err != nil {
		msg = strings.ReplaceAll(e.err.Error(), "\n", " ")
		if e.width > 3 {
			msg = runewidth.Truncate(msg, e.width, "...")
		}
	}
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Center, e.styles.Error.Render(msg))
}
