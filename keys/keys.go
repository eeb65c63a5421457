package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd

	KeyNextTab
	KeyPrevTab
	KeyChatTab
	KeyPhotoTab
	KeyResultTab

	KeyFocus   // Focus the input of the current tab.
	KeyOpen    // Enter an image path on the photo tab.
	KeyBrowse  // Pick an image with the OS file dialog.
	KeyNote    // Edit the note sent with the photo.
	KeyAnalyze // Upload the selected photo.
	KeyCopy
	KeyClear
	KeyRedetect

	KeySettings
	KeyToggleDark
	KeyFontUp
	KeyFontDown

	KeyHelp
	KeyQuit

	// Input-mode keybindings. These are not remappable.
	KeySubmit
	KeyBlur
)

// GlobalKeyStringsMap is a global map from key string to keybinding. It is
// rebuilt by UpdateKeyMappings.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":        KeyUp,
	"k":         KeyUp,
	"down":      KeyDown,
	"j":         KeyDown,
	"pgup":      KeyPageUp,
	"pgdown":    KeyPageDown,
	"home":      KeyHome,
	"end":       KeyEnd,
	"tab":       KeyNextTab,
	"shift+tab": KeyPrevTab,
	"1":         KeyChatTab,
	"2":         KeyPhotoTab,
	"3":         KeyResultTab,
	"i":         KeyFocus,
	"enter":     KeyFocus,
	"o":         KeyOpen,
	"b":         KeyBrowse,
	"n":         KeyNote,
	"a":         KeyAnalyze,
	"y":         KeyCopy,
	"ctrl+l":    KeyClear,
	"r":         KeyRedetect,
	"s":         KeySettings,
	"d":         KeyToggleDark,
	"+":         KeyFontUp,
	"=":         KeyFontUp,
	"-":         KeyFontDown,
	"?":         KeyHelp,
	"q":         KeyQuit,
}

// GlobalkeyBindings is a global map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	KeyPageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	KeyPageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	KeyHome: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "scroll to top"),
	),
	KeyEnd: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "scroll to bottom"),
	),
	KeyNextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	KeyPrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous tab"),
	),
	KeyChatTab: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "chat"),
	),
	KeyPhotoTab: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "photo"),
	),
	KeyResultTab: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "result"),
	),
	KeyFocus: key.NewBinding(
		key.WithKeys("i", "enter"),
		key.WithHelp("i/↵", "type"),
	),
	KeyOpen: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open image"),
	),
	KeyBrowse: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "browse"),
	),
	KeyNote: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "add note"),
	),
	KeyAnalyze: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "analyze"),
	),
	KeyCopy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy answer"),
	),
	KeyClear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear chat"),
	),
	KeyRedetect: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "find server"),
	),
	KeySettings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	KeyToggleDark: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dark mode"),
	),
	KeyFontUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "larger text"),
	),
	KeyFontDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "smaller text"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),

	// -- Special keybindings --

	KeySubmit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	KeyBlur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "done"),
	),
}

// actionNames maps config file action names to remappable keybindings.
var actionNames = map[string]KeyName{
	"up":          KeyUp,
	"down":        KeyDown,
	"page_up":     KeyPageUp,
	"page_down":   KeyPageDown,
	"home":        KeyHome,
	"end":         KeyEnd,
	"next_tab":    KeyNextTab,
	"prev_tab":    KeyPrevTab,
	"chat_tab":    KeyChatTab,
	"photo_tab":   KeyPhotoTab,
	"result_tab":  KeyResultTab,
	"focus":       KeyFocus,
	"open":        KeyOpen,
	"browse":      KeyBrowse,
	"note":        KeyNote,
	"analyze":     KeyAnalyze,
	"copy":        KeyCopy,
	"clear":       KeyClear,
	"redetect":    KeyRedetect,
	"settings":    KeySettings,
	"toggle_dark": KeyToggleDark,
	"font_up":     KeyFontUp,
	"font_down":   KeyFontDown,
	"help":        KeyHelp,
	"quit":        KeyQuit,
}

// UpdateKeyMappings applies user overrides keyed by action name. The keys
// given for an action replace its defaults entirely; unknown actions are
// ignored.
func UpdateKeyMappings(userMappings map[string][]string) {
	for action, userKeys := range userMappings {
		name, ok := actionNames[action]
		if !ok || len(userKeys) == 0 {
			continue
		}

		for k, v := range GlobalKeyStringsMap {
			if v == name {
				delete(GlobalKeyStringsMap, k)
			}
		}
		for _, k := range userKeys {
			GlobalKeyStringsMap[k] = name
		}

		desc := GlobalkeyBindings[name].Help().Desc
		GlobalkeyBindings[name] = key.NewBinding(
			key.WithKeys(userKeys...),
			key.WithHelp(getHelpKey(userKeys), desc),
		)
	}
}

func getHelpKey(keys []string) string {
	return strings.Join(keys, "/")
}
