package app

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homefix/homefix/log"
)

// photoPickedMsg is sent when the OS file picker returns. An empty path
// means the dialog was cancelled.
type photoPickedMsg struct {
	path string
	err  error
}

var errNoFilePicker = errors.New("no file picker available; press o and type the path")

// nativeFilePicker is replaced in tests.
var nativeFilePicker = openNativeFilePicker

// browsePhoto launches the native image picker asynchronously.
func (m *home) browsePhoto() tea.Cmd {
	return func() tea.Msg {
		path, err := nativeFilePicker()
		return photoPickedMsg{path: path, err: err}
	}
}

func (m *home) handlePhotoPicked(msg photoPickedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	if msg.path == "" {
		log.InfoLog.Printf("file picker cancelled")
		return nil
	}
	return m.selectPhoto(msg.path)
}

func openNativeFilePicker() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("osascript", "-e",
			`POSIX path of (choose file of type {"public.image"} with prompt "Select a photo")`).Output()
		if err != nil {
			// User cancelled the dialog
			return "", nil
		}
		return strings.TrimSpace(string(out)), nil
	case "linux":
		if _, err := exec.LookPath("zenity"); err != nil {
			return "", errNoFilePicker
		}
		out, err := exec.Command("zenity", "--file-selection",
			"--title=Select a photo",
			"--file-filter=Images | *.jpg *.jpeg *.png *.gif *.bmp *.webp").Output()
		if err != nil {
			// User cancelled
			return "", nil
		}
		return strings.TrimSpace(string(out)), nil
	default:
		return "", fmt.Errorf("file picker not supported on %s", runtime.GOOS)
	}
}
