package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/homefix/homefix/keys"
	"github.com/homefix/homefix/prefs"
	"github.com/homefix/homefix/ui"
)

func (m *home) handleKeyPress(msg tea.KeyMsg) (mod tea.Model, cmd tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	cmd, returnEarly := m.handleMenuHighlighting(msg)
	if returnEarly {
		return m, cmd
	}

	switch m.state {
	case stateAlert, stateHelp:
		return m.handleTextOverlayState(msg)
	case stateSettings:
		return m.handleSettingsState(msg)
	case statePicker:
		return m.handlePickerState(msg)
	case stateServerInput:
		return m.handleServerInputState(msg)
	case stateInput:
		return m.handleInputState(msg)
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyQuit:
		return m, tea.Quit
	case keys.KeyHelp:
		return m.showHelpScreen()
	case keys.KeyNextTab:
		m.tabbedWindow.Next()
	case keys.KeyPrevTab:
		m.tabbedWindow.Prev()
	case keys.KeyChatTab:
		m.tabbedWindow.SetActiveTab(ui.ChatTab)
	case keys.KeyPhotoTab:
		m.tabbedWindow.SetActiveTab(ui.PhotoTab)
	case keys.KeyResultTab:
		m.tabbedWindow.SetActiveTab(ui.ResultTab)
	case keys.KeyUp, keys.KeyDown, keys.KeyPageUp, keys.KeyPageDown, keys.KeyHome, keys.KeyEnd:
		m.scroll(name)
	case keys.KeyFocus:
		switch m.tabbedWindow.GetActiveTab() {
		case ui.ChatTab:
			return m, m.focusChat()
		case ui.PhotoTab:
			return m, m.focusPhotoField(ui.PhotoFieldPath)
		}
	case keys.KeyOpen:
		m.tabbedWindow.SetActiveTab(ui.PhotoTab)
		return m, m.focusPhotoField(ui.PhotoFieldPath)
	case keys.KeyBrowse:
		m.tabbedWindow.SetActiveTab(ui.PhotoTab)
		m.syncMenu()
		return m, m.browsePhoto()
	case keys.KeyNote:
		m.tabbedWindow.SetActiveTab(ui.PhotoTab)
		return m, m.focusPhotoField(ui.PhotoFieldNote)
	case keys.KeyAnalyze:
		return m, m.startAnalyze()
	case keys.KeyCopy:
		return m, m.copyToClipboard()
	case keys.KeyClear:
		if err := m.conv.Reset(); err != nil {
			return m, m.handleError(err)
		}
		m.refreshChat()
	case keys.KeyRedetect:
		return m, m.redetect()
	case keys.KeySettings:
		return m.showSettings()
	case keys.KeyToggleDark:
		return m, m.toggleDarkMode()
	case keys.KeyFontUp:
		return m, m.stepFontScale(1)
	case keys.KeyFontDown:
		return m, m.stepFontScale(-1)
	}
	m.syncMenu()
	return m, nil
}

// handleMenuHighlighting underlines the menu entry of a pressed key. We
// intercept the key and immediately return to update the ui while re-sending
// the keypress. Then, on the next call to this, we actually handle it.
func (m *home) handleMenuHighlighting(msg tea.KeyMsg) (cmd tea.Cmd, returnEarly bool) {
	if m.keySent {
		m.keySent = false
		return nil, false
	}
	if m.state != stateDefault {
		return nil, false
	}
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok || name == keys.KeyUp || name == keys.KeyDown {
		return nil, false
	}
	m.keySent = true
	return tea.Batch(
		func() tea.Msg { return msg },
		m.keydownCallback(name)), true
}

func (m *home) handleInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submit := keys.GlobalkeyBindings[keys.KeySubmit]
	blur := keys.GlobalkeyBindings[keys.KeyBlur]

	if m.chat.Focused() {
		switch {
		case key.Matches(msg, blur):
			m.exitInput()
		case key.Matches(msg, submit):
			return m, m.sendMessage()
		default:
			return m, m.chat.Update(msg)
		}
		return m, nil
	}

	switch field := m.photoPane.Focused(); {
	case key.Matches(msg, blur):
		m.exitInput()
	case key.Matches(msg, submit) && field == ui.PhotoFieldPath:
		path := m.photoPane.PathValue()
		m.exitInput()
		if path == "" {
			return m, nil
		}
		return m, m.selectPhoto(path)
	case key.Matches(msg, submit) && field == ui.PhotoFieldNote:
		m.exitInput()
		if m.photos.Selected() == nil {
			return m, nil
		}
		return m, m.startAnalyze()
	case msg.String() == "tab":
		// Hop between the path and note fields.
		next := ui.PhotoFieldNote
		if field == ui.PhotoFieldNote {
			next = ui.PhotoFieldPath
		}
		return m, m.focusPhotoField(next)
	default:
		return m, m.photoPane.Update(msg)
	}
	return m, nil
}

func (m *home) focusChat() tea.Cmd {
	m.state = stateInput
	m.tabbedWindow.SetFocusMode(true)
	m.syncMenu()
	return m.chat.Focus()
}

func (m *home) focusPhotoField(f ui.PhotoField) tea.Cmd {
	m.state = stateInput
	m.tabbedWindow.SetFocusMode(true)
	m.syncMenu()
	return m.photoPane.FocusField(f)
}

// exitInput blurs every field and returns to the default state.
func (m *home) exitInput() {
	m.chat.Blur()
	m.photoPane.FocusField(ui.PhotoFieldNone)
	m.tabbedWindow.SetFocusMode(false)
	m.state = stateDefault
	m.syncMenu()
}

func (m *home) scroll(name keys.KeyName) {
	type scroller interface {
		ScrollUp()
		ScrollDown()
		PageUp()
		PageDown()
		GotoTop()
		GotoBottom()
	}
	var s scroller
	switch m.tabbedWindow.GetActiveTab() {
	case ui.ChatTab:
		s = m.chat
	case ui.ResultTab:
		s = m.result
	default:
		return
	}
	switch name {
	case keys.KeyUp:
		s.ScrollUp()
	case keys.KeyDown:
		s.ScrollDown()
	case keys.KeyPageUp:
		s.PageUp()
	case keys.KeyPageDown:
		s.PageDown()
	case keys.KeyHome:
		s.GotoTop()
	case keys.KeyEnd:
		s.GotoBottom()
	}
}

// handleMouse scrolls the active pane with the wheel and switches tabs on a
// header click.
func (m *home) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateDefault && m.state != stateInput {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(keys.KeyUp)
	case tea.MouseButtonWheelDown:
		m.scroll(keys.KeyDown)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && m.tabbedWindow.HandleTabClick(msg.X, msg.Y) {
			if m.state == stateInput {
				m.exitInput()
			}
			m.syncMenu()
		}
	}
	return m, nil
}

func (m *home) handleTextOverlayState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.textOverlay == nil || m.textOverlay.HandleKeyPress(msg) {
		next := stateDefault
		if m.state == stateAlert {
			next = m.alertReturn
		}
		m.textOverlay = nil
		m.state = next
		m.syncMenu()
	}
	return m, nil
}

func (m *home) handleSettingsState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settings == nil {
		m.state = stateDefault
		return m, nil
	}
	if m.settings.HandleKeyPress(msg) {
		m.settings = nil
		if m.state == stateSettings {
			m.state = stateDefault
		}
	}
	return m, m.takePending()
}

func (m *home) handlePickerState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker == nil || m.picker.HandleKeyPress(msg) {
		m.picker = nil
		if m.state == statePicker {
			m.state = stateDefault
		}
	}
	return m, m.takePending()
}

func (m *home) handleServerInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.serverInput == nil || m.serverInput.HandleKeyPress(msg) {
		m.serverInput = nil
		if m.state == stateServerInput {
			m.state = stateDefault
		}
	}
	return m, m.takePending()
}

// takePending returns and clears the command queued by an overlay callback.
func (m *home) takePending() tea.Cmd {
	cmd := m.pending
	m.pending = nil
	return cmd
}

func (m *home) queue(cmd tea.Cmd) {
	m.pending = tea.Batch(m.pending, cmd)
}

func (m *home) toggleDarkMode() tea.Cmd {
	if _, err := m.prefs.ToggleDarkMode(); err != nil {
		return m.handleError(err)
	}
	return nil
}

// stepFontScale moves one step along the text size scale, stopping at the
// ends.
func (m *home) stepFontScale(delta int) tea.Cmd {
	next := m.prefs.FontScale() + prefs.FontScale(delta)
	if !next.Valid() {
		return nil
	}
	if err := m.prefs.SetFontScale(next); err != nil {
		return m.handleError(err)
	}
	return nil
}
