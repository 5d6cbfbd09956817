package session

import (
	"time"

	"github.com/doctalk-ai/doctalk/internal/api"
)

// Transcript is a locally saved conversation. LocalID identifies the record
// on this machine; ConversationID is the backend's id and stays empty when a
// conversation never got a successful answer.
type Transcript struct {
	LocalID        string
	ConversationID string
	Email          string
	Messages       []api.Message
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TranscriptInfo is the listing view of a saved transcript.
type TranscriptInfo struct {
	LocalID   string
	Email     string
	Messages  int
	FirstLine string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store abstracts local transcript persistence.
type Store interface {
	Save(t *Transcript) error
	Load(localID string) (*Transcript, error)
	List(email string) ([]TranscriptInfo, error)
	Delete(localID string) error
	Close() error
}

// NullStore is a no-op Store for contexts where persistence is disabled.
type NullStore struct{}

func (NullStore) Save(*Transcript) error                { return nil }
func (NullStore) Load(string) (*Transcript, error)      { return nil, nil }
func (NullStore) List(string) ([]TranscriptInfo, error) { return nil, nil }
func (NullStore) Delete(string) error                   { return nil }
func (NullStore) Close() error                          { return nil }
