package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/theme"
)

const (
	inputHeight     = 3
	inputCharLimit  = 2000
	chatPlaceholder = "메시지를 입력하세요..."
)

// ChatPane shows the conversation above a multi-line input.
type ChatPane struct {
	viewport viewport.Model
	input    textarea.Model
	spinner  *spinner.Model
	styles   theme.Styles

	messages []conversation.Message
	sending  bool

	width, height int
}

func NewChatPane(s *spinner.Model, styles theme.Styles) *ChatPane {
	ta := textarea.New()
	ta.Placeholder = chatPlaceholder
	ta.CharLimit = inputCharLimit
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	// Enter sends; alt+enter and ctrl+j break the line.
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")

	return &ChatPane{
		viewport: viewport.New(0, 0),
		input:    ta,
		spinner:  s,
		styles:   styles,
	}
}

func (c *ChatPane) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.input.SetWidth(width)
	vpHeight := height - inputHeight - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	c.viewport.Width = width
	c.viewport.Height = vpHeight
	c.refresh(true)
}

// SetStyles re-renders the history with new colors or metrics.
func (c *ChatPane) SetStyles(st theme.Styles) {
	c.styles = st
	c.input.FocusedStyle.Text = st.Text
	c.input.BlurredStyle.Text = st.Muted
	c.input.FocusedStyle.Placeholder = st.Muted
	c.input.BlurredStyle.Placeholder = st.Muted
	c.refresh(false)
}

// SetMessages replaces the rendered history and scrolls to the newest
// message if the view was already at the bottom.
func (c *ChatPane) SetMessages(msgs []conversation.Message, sending bool) {
	follow := c.viewport.AtBottom() || len(msgs) != len(c.messages)
	c.messages = msgs
	c.sending = sending
	c.refresh(follow)
}

func (c *ChatPane) refresh(follow bool) {
	if c.width <= 0 {
		return
	}
	c.viewport.SetContent(RenderMessages(c.messages, c.styles, c.width))
	if follow {
		c.viewport.GotoBottom()
	}
}

func (c *ChatPane) Focus() tea.Cmd {
	return c.input.Focus()
}

func (c *ChatPane) Blur() {
	c.input.Blur()
}

func (c *ChatPane) Focused() bool {
	return c.input.Focused()
}

// Value returns the text typed so far.
func (c *ChatPane) Value() string {
	return c.input.Value()
}

// ResetInput clears the input after a send.
func (c *ChatPane) ResetInput() {
	c.input.Reset()
}

// Update forwards keys to the input when focused.
func (c *ChatPane) Update(msg tea.Msg) tea.Cmd {
	if !c.input.Focused() {
		return nil
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *ChatPane) ScrollUp()      { c.viewport.LineUp(1) }
func (c *ChatPane) ScrollDown()    { c.viewport.LineDown(1) }
func (c *ChatPane) PageUp()        { c.viewport.ViewUp() }
func (c *ChatPane) PageDown()      { c.viewport.ViewDown() }
func (c *ChatPane) GotoTop()       { c.viewport.GotoTop() }
func (c *ChatPane) GotoBottom()    { c.viewport.GotoBottom() }
func (c *ChatPane) AtBottom() bool { return c.viewport.AtBottom() }

func (c *ChatPane) String() string {
	if c.width <= 0 || c.height <= 0 {
		return ""
	}
	status := ""
	if c.sending {
		status = c.spinner.View() + " " + c.styles.Muted.Render("답변을 기다리는 중...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		c.viewport.View(),
		status,
		c.input.View(),
	)
}
