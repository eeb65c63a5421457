package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homefix/homefix/prefs"
)

// PrefsCommand shows and edits the saved display preferences.
func PrefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
	}
	cmd.AddCommand(prefsShowCommand())
	cmd.AddCommand(prefsFontScaleCommand())
	cmd.AddCommand(prefsDarkModeCommand())
	return cmd
}

func prefsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWire(Options())
			if err != nil {
				return err
			}
			defer w.Close()

			out := newOutput(cmd.OutOrStdout(), w)
			printSettings(out, w.Prefs.Settings())
			return nil
		},
	}
}

func prefsFontScaleCommand() *cobra.Command {
	names := make([]string, 0, len(prefs.FontScales()))
	for _, fs := range prefs.FontScales() {
		names = append(names, fs.String())
	}

	return &cobra.Command{
		Use:       "font-scale <" + strings.Join(names, "|") + "|multiplier>",
		Short:     "Set the text size",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := prefs.ParseFontScale(args[0])
			if err != nil {
				return err
			}
			w, err := newWire(Options())
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Prefs.SetFontScale(fs); err != nil {
				return err
			}
			printSettings(newOutput(cmd.OutOrStdout(), w), w.Prefs.Settings())
			return nil
		},
	}
}

func prefsDarkModeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "dark-mode <on|off|toggle>",
		Short:     "Switch between the light and dark theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWire(Options())
			if err != nil {
				return err
			}
			defer w.Close()

			switch strings.ToLower(args[0]) {
			case "on", "true", "dark":
				err = w.Prefs.SetDarkMode(true)
			case "off", "false", "light":
				err = w.Prefs.SetDarkMode(false)
			case "toggle":
				_, err = w.Prefs.ToggleDarkMode()
			default:
				return fmt.Errorf("invalid dark mode %q: want on, off or toggle", args[0])
			}
			if err != nil {
				return err
			}
			printSettings(newOutput(cmd.OutOrStdout(), w), w.Prefs.Settings())
			return nil
		},
	}
}

func printSettings(out *output, s prefs.Settings) {
	mode := "light"
	if s.DarkMode {
		mode = "dark"
	}
	label := func(text string) string { return out.styles.Title.Render(fmt.Sprintf("%-11s", text)) }
	out.printf("%s %s\n", label("dark mode:"), mode)
	out.printf("%s %s (%s, x%.1f)\n", label("font scale:"), s.FontScale, s.FontScale.Label(), s.FontScale.Multiplier())
}
