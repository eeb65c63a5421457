// Package commands holds the non-interactive subcommands of the homefix CLI.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/homefix/homefix/backend"
	"github.com/homefix/homefix/theme"
)

const defaultWidth = 80

var (
	baseURLFlag     string
	noDiscoveryFlag bool
)

// AddGlobalFlags registers the backend flags every command understands.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&baseURLFlag, "base-url", "",
		"Use this backend address instead of the saved or discovered one")
	root.PersistentFlags().BoolVar(&noDiscoveryFlag, "no-discovery", false,
		"Do not probe the network for the backend")
}

// Options returns the backend options selected on the command line.
func Options() backend.Options {
	return backend.Options{
		BaseURL:     baseURLFlag,
		NoDiscovery: noDiscoveryFlag,
	}
}

// newWire is replaced in tests.
var newWire = backend.NewWire

// output renders styled text when w is a terminal and plain text otherwise.
type output struct {
	w      io.Writer
	styles theme.Styles
	width  int
	tty    bool
}

func newOutput(w io.Writer, wire *backend.Wire) *output {
	o := &output{w: w, width: defaultWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		o.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			o.width = width
		}
	}
	if !o.tty {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	o.styles = theme.FromSettings(wire.Prefs.Settings())
	return o
}

func (o *output) println(s string) {
	fmt.Fprintln(o.w, s)
}

func (o *output) printf(format string, args ...any) {
	fmt.Fprintf(o.w, format, args...)
}
