// Package conversation is the chat view-model: the ordered message history,
// the single in-flight send, and the follow-up product recommendations.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homefix/homefix/alert"
	"github.com/homefix/homefix/api"
	"github.com/homefix/homefix/log"
)

const (
	Greeting           = "안녕하세요! 홈 수리 관련해서 도움이 필요하시면 언제든 말씀해주세요. 🏠"
	Apology            = "죄송합니다. 일시적인 오류가 발생했습니다. 다시 시도해주세요."
	RecommendationNote = "아래 추천 준비물을 참고해 보세요."

	AlertTitle   = "오류"
	AlertMessage = "메시지를 전송할 수 없습니다."
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a message is already being sent")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat bubble.
type Message struct {
	ID              string
	Role            Role
	Text            string
	Timestamp       time.Time
	Recommendations []api.RecoGroup
}

func (m Message) IsUser() bool { return m.Role == RoleUser }

// Backend is the part of the API client a conversation needs.
type Backend interface {
	Chat(ctx context.Context, message string) (string, error)
	Recommend(ctx context.Context, problem, location string) (*api.RecommendResponse, error)
}

// Conversation is safe for concurrent use.
type Conversation struct {
	backend Backend
	now     func() time.Time

	mu       sync.Mutex
	messages []Message
	sending  bool
}

// New starts a conversation containing only the greeting.
func New(backend Backend) *Conversation {
	c := &Conversation{backend: backend, now: time.Now}
	c.messages = []Message{c.newMessage(RoleAssistant, Greeting)}
	return c
}

func (c *Conversation) newMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: c.now(),
	}
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Sending reports whether a message is awaiting its reply.
func (c *Conversation) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// LastReply returns the newest assistant message text, skipping
// recommendation notes.
func (c *Conversation) LastReply() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Role == RoleAssistant && len(m.Recommendations) == 0 {
			return m.Text, true
		}
	}
	return "", false
}

// Reset clears the history back to the greeting. It is refused while a
// message is in flight.
func (c *Conversation) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sending {
		return ErrBusy
	}
	c.messages = []Message{c.newMessage(RoleAssistant, Greeting)}
	return nil
}

// Send appends text as a user message and waits for the reply. See Submit
// and Reply for the two halves.
func (c *Conversation) Send(ctx context.Context, text string) error {
	msg, err := c.Submit(text)
	if err != nil {
		return err
	}
	return c.Reply(ctx, msg.Text)
}

// Submit appends the user message and marks the conversation busy. Empty
// text and a send already in flight are rejected without touching history.
func (c *Conversation) Submit(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sending {
		return Message{}, ErrBusy
	}
	msg := c.newMessage(RoleUser, text)
	c.messages = append(c.messages, msg)
	c.sending = true
	return msg, nil
}

// Reply fetches the answer for a submitted message, then its recommendations.
// A chat failure appends one apology and returns an *alert.Alert; a
// recommendation failure is only logged.
func (c *Conversation) Reply(ctx context.Context, text string) error {
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	reply, err := c.backend.Chat(ctx, text)
	if err != nil {
		log.ErrorLog.Printf("chat request failed: %v", err)
		c.append(c.newMessage(RoleAssistant, Apology))
		return alert.New(AlertTitle, AlertMessage, err)
	}
	c.append(c.newMessage(RoleAssistant, reply))

	reco, err := c.backend.Recommend(ctx, text, "")
	if err != nil {
		log.WarningLog.Printf("recommend request failed: %v", err)
		return nil
	}
	if reco == nil || len(reco.Groups) == 0 {
		return nil
	}
	note := c.newMessage(RoleAssistant, RecommendationNote)
	note.Recommendations = reco.Groups
	c.append(note)
	return nil
}

func (c *Conversation) append(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}
