package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/katakuxiko/agentchat/internal/model"
)

// ErrOutOfOrder is returned when an append would break user/assistant
// alternation.
var ErrOutOfOrder = errors.New("session: transcript messages must alternate user, assistant")

// Transcript is an append-only conversation log. Entries alternate user and
// assistant, starting with a user message.
type Transcript struct {
	mu       sync.RWMutex
	messages []model.ChatMessage
}

func (t *Transcript) Append(msg model.ChatMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	want := model.RoleUser
	if n := len(t.messages); n > 0 && t.messages[n-1].Role == model.RoleUser {
		want = model.RoleAssistant
	}
	if msg.Role != want {
		return fmt.Errorf("%w: got %q, want %q", ErrOutOfOrder, msg.Role, want)
	}
	t.messages = append(t.messages, msg)
	return nil
}

// Messages returns a copy of the log in insertion order.
func (t *Transcript) Messages() []model.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Transcript) Last() (model.ChatMessage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return model.ChatMessage{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// AwaitingReply reports whether the last entry is an unanswered user message.
func (t *Transcript) AwaitingReply() bool {
	last, ok := t.Last()
	return ok && last.Role == model.RoleUser
}
