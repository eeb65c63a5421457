package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/alert"
	"github.com/homefix/homefix/backend"
	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/discovery"
	"github.com/homefix/homefix/keys"
	"github.com/homefix/homefix/log"
	"github.com/homefix/homefix/photo"
	"github.com/homefix/homefix/prefs"
	"github.com/homefix/homefix/theme"
	"github.com/homefix/homefix/ui"
	"github.com/homefix/homefix/ui/overlay"
)

// Server is the part of the base-URL resolver the UI talks to.
type Server interface {
	BaseURL() string
	SetBaseURL(url string) error
	Detect(ctx context.Context) (string, bool, error)
}

// Deps are the view-models the UI drives.
type Deps struct {
	Conversation *conversation.Conversation
	Photos       *photo.Session
	Prefs        *prefs.Preferences
	Server       Server
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, w *backend.Wire) error {
	h := newHome(ctx, Deps{
		Conversation: w.NewConversation(),
		Photos:       w.NewPhotoSession(),
		Prefs:        w.Prefs,
		Server:       w.Resolver,
	})
	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Mouse scroll
	)

	forwardServerChanges(w.Resolver, p)
	w.StartDiscovery(ctx)
	defer w.Close()

	_, err := p.Run()
	return err
}

// forwardServerChanges delivers base URL changes to the program. Changes
// come from the monitor goroutine and also from SetBaseURL inside Update,
// where a blocking Send would wait on the event loop that is calling it.
func forwardServerChanges(r *discovery.Resolver, p *tea.Program) {
	r.AddListener(func(c discovery.Change) {
		go p.Send(serverChangedMsg{change: c})
	})
}

type state int

const (
	stateDefault state = iota
	// stateInput is the state when a text field has keyboard focus.
	stateInput
	// stateAlert is the state when a blocking alert is displayed.
	stateAlert
	// stateHelp is the state when the help screen is displayed.
	stateHelp
	// stateSettings is the state when the settings overlay is displayed.
	stateSettings
	// statePicker is the state when the text size picker is displayed.
	statePicker
	// stateServerInput is the state when the server address prompt is displayed.
	stateServerInput
)

const (
	menuHeight   = 2
	errBoxHeight = 1
)

type home struct {
	ctx context.Context

	// -- View-models --

	conv   *conversation.Conversation
	photos *photo.Session
	prefs  *prefs.Preferences
	server Server

	// -- State --

	// state is the current discrete state of the application
	state state
	// alertReturn is restored when the alert is dismissed.
	alertReturn state
	// keySent is used to manage underlining menu items
	keySent bool
	// analyzing is set from the moment an upload is issued until its
	// result message arrives.
	analyzing bool
	// detecting guards against stacking manual detection runs.
	detecting   bool
	toastTicker bool
	// pending holds a command queued by an overlay callback.
	pending tea.Cmd

	width, height int
	styles        theme.Styles

	// -- UI Components --

	tabbedWindow *ui.TabbedWindow
	chat         *ui.ChatPane
	photoPane    *ui.PhotoPane
	result       *ui.ResultPane
	menu         *ui.Menu
	errBox       *ui.ErrBox
	// global spinner instance. we plumb this down to where it's needed
	spinner spinner.Model
	toasts  *overlay.ToastManager
	// textOverlay displays the help screen and alerts
	textOverlay *overlay.TextOverlay
	settings    *overlay.SettingsOverlay
	picker      *overlay.SelectionOverlay
	serverInput *overlay.InputOverlay
}

func newHome(ctx context.Context, deps Deps) *home {
	styles := theme.FromSettings(deps.Prefs.Settings())

	h := &home{
		ctx:     ctx,
		conv:    deps.Conversation,
		photos:  deps.Photos,
		prefs:   deps.Prefs,
		server:  deps.Server,
		state:   stateDefault,
		styles:  styles,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	h.chat = ui.NewChatPane(&h.spinner, styles)
	h.photoPane = ui.NewPhotoPane(&h.spinner, styles)
	h.result = ui.NewResultPane(styles)
	h.tabbedWindow = ui.NewTabbedWindow(styles, h.chat, h.photoPane, h.result)
	h.menu = ui.NewMenu(styles)
	h.errBox = ui.NewErrBox(styles)
	h.toasts = overlay.NewToastManager(&h.spinner)

	h.applySettings(deps.Prefs.Settings())
	deps.Prefs.Subscribe(h.applySettings)

	h.refreshChat()
	if res, ok := h.photos.Result(); ok {
		h.result.SetResult(res)
	}
	h.photoPane.SetSelected(h.photos.Selected())
	return h
}

// applySettings re-themes every component. It runs whenever the stored
// preferences change.
func (m *home) applySettings(s prefs.Settings) {
	m.styles = theme.FromSettings(s)
	m.spinner.Style = m.styles.Tint

	m.chat.SetStyles(m.styles)
	m.photoPane.SetStyles(m.styles)
	m.result.SetStyles(m.styles)
	m.tabbedWindow.SetStyles(m.styles)
	m.menu.SetStyles(m.styles)
	m.errBox.SetStyles(m.styles)
	m.toasts.SetPalette(m.styles.Palette)
	if m.textOverlay != nil {
		m.textOverlay.SetPalette(m.styles.Palette)
	}
	if m.settings != nil {
		m.settings.SetSettings(s)
	}
	if m.picker != nil {
		m.picker.SetPalette(m.styles.Palette)
	}
	if m.serverInput != nil {
		m.serverInput.SetPalette(m.styles.Palette)
	}
	// Metrics depend on the font scale.
	if m.width > 0 {
		m.layout()
	}
}

// updateHandleWindowSizeEvent sets the sizes of the components.
// The components will try to render inside their bounds.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout()
}

func (m *home) layout() {
	contentHeight := m.height - menuHeight - errBoxHeight
	if contentHeight < 5 {
		contentHeight = 5
	}
	m.tabbedWindow.SetSize(m.width, contentHeight)
	m.menu.SetSize(m.width, menuHeight)
	m.errBox.SetSize(int(float32(m.width)*0.9), errBoxHeight)
	m.toasts.SetSize(m.width, m.height)

	overlayWidth := m.overlayWidth()
	if m.textOverlay != nil {
		m.textOverlay.SetWidth(overlayWidth)
	}
	if m.settings != nil {
		m.settings.SetWidth(overlayWidth)
	}
	if m.picker != nil {
		m.picker.SetWidth(overlayWidth)
	}
	if m.serverInput != nil {
		m.serverInput.SetWidth(overlayWidth)
	}
}

func (m *home) overlayWidth() int {
	w := m.styles.Scale(56)
	if m.width > 0 && w > m.width-4 {
		w = m.width - 4
	}
	return max(w, 20)
}

func (m *home) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hideErrMsg:
		m.errBox.Clear()
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case overlay.ToastTickMsg:
		m.toasts.Tick()
		if m.toasts.HasActiveToasts() {
			return m, toastTickCmd
		}
		m.toastTicker = false
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case chatDoneMsg:
		return m, m.handleChatDone(msg)
	case photoPickedMsg:
		return m, m.handlePhotoPicked(msg)
	case photoSelectedMsg:
		return m, m.handlePhotoSelected(msg)
	case analyzeDoneMsg:
		return m, m.handleAnalyzeDone(msg)
	case detectDoneMsg:
		return m, m.handleDetectDone(msg)
	case serverChangedMsg:
		return m, m.handleServerChanged(msg)
	}
	return m, nil
}

// refreshChat redraws the history from the conversation.
func (m *home) refreshChat() {
	m.chat.SetMessages(m.conv.Messages(), m.conv.Sending())
	m.syncMenu()
}

// syncMenu matches the footer to the active tab and what is in flight.
func (m *home) syncMenu() {
	m.menu.SetTab(m.tabbedWindow.GetActiveTab())
	switch {
	case m.state == stateInput:
		m.menu.SetState(ui.StateInput)
	case m.conv.Sending() || m.analyzing:
		m.menu.SetState(ui.StateBusy)
	default:
		m.menu.SetState(ui.StateDefault)
	}
}

type keyupMsg struct{}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}

		return keyupMsg{}
	}
}

// hideErrMsg implements tea.Msg and clears the error text from the screen.
type hideErrMsg struct{}

func toastTickCmd() tea.Msg {
	time.Sleep(50 * time.Millisecond)
	return overlay.ToastTickMsg{}
}

// startToasts starts the animation ticker unless it is already running.
func (m *home) startToasts() tea.Cmd {
	if m.toastTicker {
		return nil
	}
	m.toastTicker = true
	return toastTickCmd
}

// handleError handles all errors which get bubbled up to the app. Alerts open
// a blocking overlay; anything else sets the error box, which clears after 3
// seconds.
func (m *home) handleError(err error) tea.Cmd {
	if a, ok := alert.From(err); ok {
		m.showAlert(a)
		return nil
	}
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(3 * time.Second):
		}

		return hideErrMsg{}
	}
}

// showAlert opens a modal that blocks input until any key is pressed.
func (m *home) showAlert(a *alert.Alert) {
	switch m.state {
	case stateDefault, stateInput:
		m.alertReturn = m.state
	default:
		m.alertReturn = stateDefault
	}
	m.textOverlay = overlay.NewAlertOverlay(a.Title, a.Message)
	m.textOverlay.SetPalette(m.styles.Palette)
	m.textOverlay.SetWidth(m.overlayWidth())
	m.settings = nil
	m.picker = nil
	m.serverInput = nil
	m.state = stateAlert
}

func (m *home) View() string {
	mainView := lipgloss.JoinVertical(
		lipgloss.Left,
		m.tabbedWindow.String(),
		m.menu.String(),
		m.errBox.String(),
	)

	if toasts := m.toasts.View(); toasts != "" {
		x, y := m.toasts.GetPosition()
		mainView = overlay.PlaceOverlay(x, y, toasts, mainView, false, false)
	}

	switch m.state {
	case stateAlert, stateHelp:
		if m.textOverlay == nil {
			log.ErrorLog.Printf("text overlay is nil")
			return mainView
		}
		return overlay.PlaceOverlay(0, 0, m.textOverlay.Render(), mainView, true, true)
	case stateSettings:
		if m.settings != nil {
			return overlay.PlaceOverlay(0, 0, m.settings.Render(), mainView, true, true)
		}
	case statePicker:
		if m.picker != nil {
			return overlay.PlaceOverlay(0, 0, m.picker.Render(), mainView, true, true)
		}
	case stateServerInput:
		if m.serverInput != nil {
			return overlay.PlaceOverlay(0, 0, m.serverInput.Render(), mainView, true, true)
		}
	}
	return mainView
}
