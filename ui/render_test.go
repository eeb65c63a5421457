package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/conversation"
	"github.com/homefix/homefix/photo"
	"github.com/homefix/homefix/prefs"
	"github.com/homefix/homefix/theme"
)

func ptr[T any](v T) *T { return &v }

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "8,900원", FormatPrice(8900))
	assert.Equal(t, "1,234,567원", FormatPrice(1234567.4))
	assert.Equal(t, "0원", FormatPrice(0))
}

func TestRenderMessagesAlignsByRole(t *testing.T) {
	st := theme.New(false, prefs.FontScaleM)
	msgs := []conversation.Message{
		{Role: conversation.RoleAssistant, Text: "무엇을 도와드릴까요?"},
		{Role: conversation.RoleUser, Text: "물이 샙니다", Timestamp: time.Date(2026, 1, 2, 9, 5, 0, 0, time.Local)},
	}

	out := RenderMessages(msgs, st, 60)
	require.NotEmpty(t, out)
	assert.Contains(t, out, "09:05")

	var userLine, assistantLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "물이 샙니다") {
			userLine = line
		}
		if strings.Contains(line, "무엇을 도와드릴까요?") {
			assistantLine = line
		}
	}
	require.NotEmpty(t, userLine)
	require.NotEmpty(t, assistantLine)
	assert.True(t, strings.HasPrefix(userLine, "      "), "user bubble is right aligned: %q", userLine)
	assert.False(t, strings.HasPrefix(assistantLine, "      "), "assistant bubble is left aligned: %q", assistantLine)
}

func TestRenderMessagesZeroWidth(t *testing.T) {
	st := theme.New(true, prefs.FontScaleM)
	assert.Empty(t, RenderMessages([]conversation.Message{{Text: "x"}}, st, 0))
}

func TestRenderRecommendations(t *testing.T) {
	st := theme.New(false, prefs.FontScaleM)
	groups := []api.RecoGroup{
		{
			Group:    "실리콘",
			Required: true,
			Items: []api.RecoItem{
				{Title: "욕실용 실리콘", Price: ptr(8900.0), Rating: ptr(4.5), Link: "https://shop.example/1"},
			},
		},
		{
			Group: "도구",
			Items: []api.RecoItem{
				{Title: "실리콘 건", Ad: true},
			},
		},
	}

	out := RenderRecommendations(groups, st, 60)
	assert.Contains(t, out, "실리콘")
	assert.Contains(t, out, "필수")
	assert.Contains(t, out, "8,900원")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "https://shop.example/1")
	assert.Contains(t, out, "AD")
	assert.Equal(t, 1, strings.Count(out, "필수"), "only required groups get the badge")
	assert.Equal(t, 1, strings.Count(out, "원"), "items without a price show none")
}

func TestRenderResultPlaceholders(t *testing.T) {
	st := theme.New(false, prefs.FontScaleM)

	out := RenderResult(photo.Result{}, st, 40)
	assert.Contains(t, out, "문제")
	assert.Contains(t, out, "위치")
	assert.Contains(t, out, "해결 방법")
	assert.NotContains(t, out, "설명")
	assert.Equal(t, 3, strings.Count(out, photo.Placeholder))

	out = RenderResult(photo.Result{
		Problem:     "곰팡이",
		Location:    "욕실 천장",
		UserMessage: "천장이 검게 변했어요",
		Solution:    "환기 후 제거제를 사용하세요",
		ImagePath:   "/tmp/ceiling.jpg",
	}, st, 40)
	assert.Contains(t, out, "ceiling.jpg")
	assert.Contains(t, out, "곰팡이")
	assert.Contains(t, out, "설명")
	assert.NotContains(t, out, photo.Placeholder)
}

func newTestWindow() (*TabbedWindow, *ChatPane, *PhotoPane, *ResultPane) {
	st := theme.New(false, prefs.FontScaleM)
	s := spinner.New()
	chat := NewChatPane(&s, st)
	ph := NewPhotoPane(&s, st)
	res := NewResultPane(st)
	return NewTabbedWindow(st, chat, ph, res), chat, ph, res
}

func TestTabbedWindowNavigation(t *testing.T) {
	w, _, _, _ := newTestWindow()
	assert.Empty(t, w.String(), "nothing renders before a size is set")

	w.SetSize(90, 30)
	assert.Equal(t, ChatTab, w.GetActiveTab())

	w.Prev()
	assert.Equal(t, ResultTab, w.GetActiveTab())
	w.Next()
	assert.Equal(t, ChatTab, w.GetActiveTab())
	w.Next()
	assert.Equal(t, PhotoTab, w.GetActiveTab())

	w.SetActiveTab(7)
	assert.Equal(t, PhotoTab, w.GetActiveTab())

	assert.True(t, w.HandleTabClick(85, 1))
	assert.Equal(t, ResultTab, w.GetActiveTab())
	assert.False(t, w.HandleTabClick(10, 10))

	out := w.String()
	for _, tab := range []string{"Chat", "Photo", "Result"} {
		assert.Contains(t, out, tab)
	}
	assert.NotContains(t, out, "●")
}

func TestTabbedWindowUnread(t *testing.T) {
	w, _, _, _ := newTestWindow()
	w.SetSize(90, 30)

	w.MarkUnread(ChatTab)
	assert.False(t, w.Unread(ChatTab), "the open tab is never unread")

	w.SetActiveTab(PhotoTab)
	w.MarkUnread(ChatTab)
	assert.True(t, w.Unread(ChatTab))
	assert.Contains(t, w.String(), "●")

	w.Prev()
	assert.False(t, w.Unread(ChatTab))
	assert.NotContains(t, w.String(), "●")
	assert.False(t, w.Unread(9))
}

func TestTabbedWindowShowsActivePane(t *testing.T) {
	w, chat, _, res := newTestWindow()
	w.SetSize(90, 30)

	chat.SetMessages([]conversation.Message{{Role: conversation.RoleAssistant, Text: "안녕하세요"}}, true)
	assert.Contains(t, w.String(), "안녕하세요")
	assert.Contains(t, w.String(), "답변을 기다리는 중")

	w.SetActiveTab(PhotoTab)
	assert.Contains(t, w.String(), "사진으로 진단하기")

	res.SetResult(photo.Result{Problem: "누수"})
	w.SetActiveTab(ResultTab)
	assert.Contains(t, w.String(), "누수")
}

func TestPhotoPaneShowsSelection(t *testing.T) {
	_, _, ph, _ := newTestWindow()
	ph.SetSize(80, 20)
	assert.Contains(t, ph.String(), "선택된 사진이 없습니다")

	ph.SetSelected(&photo.Encoded{Path: "/tmp/wall.png", Format: "png", Width: 640, Height: 480})
	assert.Contains(t, ph.String(), "wall.png")
	assert.Contains(t, ph.String(), "640x480")

	ph.SetAnalyzing(true)
	assert.Contains(t, ph.String(), "사진을 분석하는 중")

	assert.Equal(t, PhotoFieldNone, ph.Focused())
	ph.FocusField(PhotoFieldNote)
	assert.Equal(t, PhotoFieldNote, ph.Focused())
}

func TestPhotoPaneRendersAtCommonWidths(t *testing.T) {
	for _, width := range []int{40, 60, 80, 90, 100, 120} {
		for _, field := range []PhotoField{PhotoFieldNone, PhotoFieldPath, PhotoFieldNote} {
			_, _, ph, _ := newTestWindow()
			ph.SetSize(width, 20)
			ph.FocusField(field)

			var out string
			require.NotPanics(t, func() { out = ph.String() }, "width %d field %d", width, field)
			assert.Contains(t, out, "설명 > ")
			if width >= 60 {
				assert.Contains(t, out, noteHint, "width %d field %d", width, field)
			}
		}
	}
}

func TestPhotoPaneHintHidesOnceNoteIsTyped(t *testing.T) {
	_, _, ph, _ := newTestWindow()
	ph.SetSize(80, 20)
	ph.FocusField(PhotoFieldNote)
	require.Contains(t, ph.String(), noteHint)

	ph.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("곰팡이")})
	assert.Equal(t, "곰팡이", ph.NoteValue())
	out := ph.String()
	assert.Contains(t, out, "곰팡이")
	assert.NotContains(t, out, noteHint)
}

func TestTabbedWindowRendersPhotoTab(t *testing.T) {
	for _, width := range []int{60, 80, 100, 120} {
		w, _, _, _ := newTestWindow()
		w.SetSize(width, 30)
		w.SetActiveTab(PhotoTab)
		var out string
		require.NotPanics(t, func() { out = w.String() }, "width %d", width)
		assert.Contains(t, out, "사진으로 진단하기")
	}
}

func TestMenuFollowsTabAndState(t *testing.T) {
	m := NewMenu(theme.New(false, prefs.FontScaleM))
	m.SetSize(120, 2)

	assert.Contains(t, m.String(), "copy answer")
	assert.NotContains(t, m.String(), "analyze")

	m.SetTab(PhotoTab)
	assert.Contains(t, m.String(), "open image")
	assert.Contains(t, m.String(), "analyze")

	m.SetState(StateBusy)
	assert.NotContains(t, m.String(), "analyze")

	m.SetState(StateInput)
	assert.Contains(t, m.String(), "send")
	assert.NotContains(t, m.String(), "quit")
}

func TestMenuDropsGroupsWhenNarrow(t *testing.T) {
	m := NewMenu(theme.New(false, prefs.FontScaleM))
	m.SetSize(200, 2)
	assert.Contains(t, m.String(), "quit")

	m.SetSize(40, 2)
	out := m.String()
	assert.NotContains(t, out, "quit")
	assert.Contains(t, out, "copy answer", "the action group is always kept")
}

func TestErrBox(t *testing.T) {
	e := NewErrBox(theme.New(false, prefs.FontScaleM))
	e.SetSize(20, 1)
	assert.False(t, e.HasError())
	assert.Empty(t, strings.TrimSpace(e.String()))

	e.SetError(errors.New("connection refused by the remote host\nretry later"))
	assert.True(t, e.HasError())
	out := e.String()
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, "...")

	e.Clear()
	assert.False(t, e.HasError())
}
