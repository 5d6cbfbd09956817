// Package session holds the client-side chat state: the rolling conversation
// history, the backend-assigned conversation id, durable credentials, and
// local transcript persistence.
package session

import (
	"github.com/doctalk-ai/doctalk/internal/api"
)

// HistoryWindow caps how many history entries are sent to the backend per
// query. The full history is retained locally for display and persistence.
const HistoryWindow = 20

// Session is the ephemeral state for one logged-in chat. ConversationID is
// empty until the backend assigns one on the first successful query.
type Session struct {
	Email          string
	ConversationID string
	Messages       []api.Message
}

// New creates an empty session for the given account.
func New(email string) *Session {
	return &Session{Email: email}
}

// AddUser appends the user's question to the history.
func (s *Session) AddUser(content string) {
	s.Messages = append(s.Messages, api.Message{Role: api.RoleUser, Content: content})
}

// AddAssistant appends an answer to the history.
func (s *Session) AddAssistant(content string) {
	s.Messages = append(s.Messages, api.Message{Role: api.RoleAssistant, Content: content})
}

// Window returns the outbound payload view of the history: the most recent n
// entries, oldest first. The returned slice is a copy so later appends cannot
// alias into an in-flight request.
func (s *Session) Window(n int) []api.Message {
	msgs := s.Messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]api.Message, len(msgs))
	copy(out, msgs)
	return out
}

// AdoptConversationID records the backend-assigned conversation id, but only
// once per reset: an already-set id is never overwritten. Reports whether the
// id was adopted.
func (s *Session) AdoptConversationID(id string) bool {
	if s.ConversationID != "" || id == "" {
		return false
	}
	s.ConversationID = id
	return true
}

// Reset starts a new conversation: history emptied, conversation id unset.
// Called on logout and whenever the document set changes.
func (s *Session) Reset() {
	s.ConversationID = ""
	s.Messages = nil
}
