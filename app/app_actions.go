package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/discovery"
	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/photo"
	"github.com/homefix/homefix/prefs"
	"github.com/homefix/homefix/ui"
	"github.com/homefix/homefix/ui/overlay"
)

// chatDoneMsg is sent when a reply (and its recommendations) has arrived.
type chatDoneMsg struct {
	err error
}

// photoSelectedMsg is sent when an image has been loaded and encoded.
type photoSelectedMsg struct {
	enc *photo.Encoded
	err error
}

// analyzeDoneMsg is sent when an upload completes.
type analyzeDoneMsg struct {
	result photo.Result
	err    error
}

// detectDoneMsg is sent when a manual detection pass completes.
type detectDoneMsg struct {
	toastID overlay.ToastID
	url     string
	found   bool
	err     error
}

// serverChangedMsg forwards a base URL change from the monitor goroutine.
type serverChangedMsg struct {
	change discovery.Change
}

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// sendMessage submits the typed text and fetches the reply in the
// background.
func (m *home) sendMessage() tea.Cmd {
	msg, err := m.conv.Submit(m.chat.Value())
	if errors.Is(err, conversation.ErrEmptyMessage) {
		return nil
	}
	if err != nil {
		return m.handleError(err)
	}
	m.chat.ResetInput()
	m.refreshChat()

	ctx := m.ctx
	return func() tea.Msg {
		return chatDoneMsg{err: m.conv.Reply(ctx, msg.Text)}
	}
}

func (m *home) handleChatDone(msg chatDoneMsg) tea.Cmd {
	m.refreshChat()
	m.tabbedWindow.MarkUnread(ui.ChatTab)
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	return nil
}

func (m *home) selectPhoto(path string) tea.Cmd {
	return func() tea.Msg {
		enc, err := m.photos.Select(path)
		return photoSelectedMsg{enc: enc, err: err}
	}
}

func (m *home) handlePhotoSelected(msg photoSelectedMsg) tea.Cmd {
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.photoPane.SetSelected(msg.enc)
	m.toasts.Info("사진을 선택했습니다")
	return m.startToasts()
}

// startAnalyze uploads the selected photo with the typed note.
func (m *home) startAnalyze() tea.Cmd {
	if m.analyzing {
		return m.handleError(photo.ErrBusy)
	}
	if m.photos.Selected() == nil {
		return m.handleError(photo.ErrNoImage)
	}
	m.analyzing = true
	m.photoPane.SetAnalyzing(true)
	m.syncMenu()

	ctx, note := m.ctx, m.photoPane.NoteValue()
	return func() tea.Msg {
		res, err := m.photos.Analyze(ctx, note)
		return analyzeDoneMsg{result: res, err: err}
	}
}

func (m *home) handleAnalyzeDone(msg analyzeDoneMsg) tea.Cmd {
	m.analyzing = false
	m.photoPane.SetAnalyzing(false)
	m.syncMenu()
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.result.SetResult(msg.result)
	m.photoPane.ClearNote()
	m.tabbedWindow.SetActiveTab(ui.ResultTab)
	m.syncMenu()
	m.toasts.Success("분석이 완료되었습니다")
	return m.startToasts()
}

// copyToClipboard copies the newest answer, or the diagnosis on the result
// tab.
func (m *home) copyToClipboard() tea.Cmd {
	var text string
	if m.tabbedWindow.GetActiveTab() == ui.ResultTab {
		res, ok := m.photos.Result()
		if !ok {
			return nil
		}
		text = resultText(res)
	} else {
		reply, ok := m.conv.LastReply()
		if !ok {
			return nil
		}
		text = reply
	}
	if err := clipboardWrite(text); err != nil {
		return m.handleError(fmt.Errorf("failed to copy to clipboard: %w", err))
	}
	m.toasts.Success("클립보드에 복사했습니다")
	return m.startToasts()
}

func resultText(res photo.Result) string {
	d := res.Display()
	var b strings.Builder
	fmt.Fprintf(&b, "문제: %s\n", d.Problem)
	fmt.Fprintf(&b, "위치: %s\n", d.Location)
	if res.UserMessage != "" {
		fmt.Fprintf(&b, "설명: %s\n", res.UserMessage)
	}
	fmt.Fprintf(&b, "해결 방법: %s", d.Solution)
	return b.String()
}

// redetect runs one discovery pass in the background.
func (m *home) redetect() tea.Cmd {
	if m.detecting {
		return nil
	}
	m.detecting = true
	id := m.toasts.Loading("서버를 찾는 중...")

	ctx := m.ctx
	detect := func() tea.Msg {
		url, found, err := m.server.Detect(ctx)
		return detectDoneMsg{toastID: id, url: url, found: found, err: err}
	}
	return tea.Batch(detect, m.startToasts())
}

func (m *home) handleDetectDone(msg detectDoneMsg) tea.Cmd {
	m.detecting = false
	switch {
	case errors.Is(msg.err, discovery.ErrDetectionInProgress):
		m.toasts.Resolve(msg.toastID, overlay.ToastInfo, "이미 서버를 찾는 중입니다")
	case msg.err != nil:
		log.WarningLog.Printf("manual detection failed: %v", msg.err)
		m.toasts.Resolve(msg.toastID, overlay.ToastError, "서버 검색에 실패했습니다")
	case msg.found:
		m.toasts.Resolve(msg.toastID, overlay.ToastSuccess, "서버 연결됨: "+msg.url)
	default:
		m.toasts.Resolve(msg.toastID, overlay.ToastError, "서버를 찾을 수 없습니다. 기존 주소를 유지합니다")
	}
	if m.settings != nil {
		m.settings.SetServer(m.server.BaseURL())
	}
	return m.startToasts()
}

func (m *home) handleServerChanged(msg serverChangedMsg) tea.Cmd {
	log.InfoLog.Printf("server switched %s -> %s", log.SanitizeURL(msg.change.Old), log.SanitizeURL(msg.change.New))
	if m.settings != nil {
		m.settings.SetServer(msg.change.New)
	}
	m.toasts.Info("서버가 변경되었습니다: " + msg.change.New)
	return m.startToasts()
}

// showSettings opens the settings overlay wired to the preferences.
func (m *home) showSettings() (tea.Model, tea.Cmd) {
	s := overlay.NewSettingsOverlay(m.prefs.Settings(), m.server.BaseURL())
	s.SetWidth(m.overlayWidth())
	s.OnToggleDark = func() {
		m.queue(m.toggleDarkMode())
	}
	s.OnFontScale = func(fs prefs.FontScale) {
		if err := m.prefs.SetFontScale(fs); err != nil {
			m.queue(m.handleError(err))
		}
	}
	s.OnPickFontScale = func() {
		m.showFontPicker()
	}
	s.OnRedetect = func() {
		m.queue(m.redetect())
	}
	s.OnEditServer = func() {
		m.showServerInput()
	}
	m.settings = s
	m.state = stateSettings
	return m, nil
}

// showFontPicker lists every text size with the current one highlighted.
func (m *home) showFontPicker() {
	scales := prefs.FontScales()
	choices := make([]overlay.Choice, len(scales))
	current := -1
	for i, fs := range scales {
		choices[i] = overlay.Choice{Label: fs.Label(), Hint: fmt.Sprintf("x%.1f", fs.Multiplier())}
		if fs == m.prefs.FontScale() {
			current = i
		}
	}

	p := overlay.NewSelectionOverlay("Text size", choices, current)
	p.SetPalette(m.styles.Palette)
	p.SetWidth(m.overlayWidth())
	p.OnSelect = func(i int, _ overlay.Choice) {
		if err := m.prefs.SetFontScale(scales[i]); err != nil {
			m.queue(m.handleError(err))
		}
	}
	m.picker = p
	m.state = statePicker
}

// showServerInput prompts for a backend address and saves it on enter.
func (m *home) showServerInput() {
	in := overlay.NewInputOverlay("Server address", "http://192.168.0.100:8000", m.server.BaseURL())
	in.SetPalette(m.styles.Palette)
	in.SetWidth(m.overlayWidth())
	in.OnSubmit = func(value string) {
		if value == "" || value == m.server.BaseURL() {
			return
		}
		if err := m.server.SetBaseURL(value); err != nil {
			log.WarningLog.Printf("rejected server address %q: %v", value, err)
			m.queue(m.handleError(fmt.Errorf("잘못된 서버 주소입니다: %s", value)))
			return
		}
		// The resolver's change listener reports the switch.
		log.InfoLog.Printf("server address set to %s", log.SanitizeURL(m.server.BaseURL()))
	}
	m.serverInput = in
	m.state = stateServerInput
}
