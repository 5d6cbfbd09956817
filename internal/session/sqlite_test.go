package session

import (
	"path/filepath"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "conversations.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTranscriptRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := &Transcript{
		LocalID:        uuid.New().String(),
		ConversationID: "conv-1",
		Email:          "a@b.c",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "what does clause 4 say?"},
			{Role: api.RoleAssistant, Content: "it limits liability"},
		},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(in.LocalID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.ConversationID != "conv-1" || out.Email != "a@b.c" {
		t.Errorf("loaded = %+v", out)
	}
	if len(out.Messages) != 2 || out.Messages[1].Content != "it limits liability" {
		t.Errorf("messages = %+v", out.Messages)
	}
}

func TestLoadByPrefix(t *testing.T) {
	store := newTestStore(t)

	id := uuid.New().String()
	if err := store.Save(&Transcript{LocalID: id, Email: "a@b.c"}); err != nil {
		t.Fatal(err)
	}

	out, err := store.Load(id[:8])
	if err != nil {
		t.Fatalf("Load by prefix: %v", err)
	}
	if out.LocalID != id {
		t.Errorf("LocalID = %q, want %q", out.LocalID, id)
	}
}

func TestListFiltersByEmail(t *testing.T) {
	store := newTestStore(t)

	for _, email := range []string{"a@b.c", "a@b.c", "other@b.c"} {
		err := store.Save(&Transcript{
			LocalID:  uuid.New().String(),
			Email:    email,
			Messages: []api.Message{{Role: api.RoleUser, Content: "hello from " + email}},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	infos, err := store.List("a@b.c")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}
	if infos[0].FirstLine != "hello from a@b.c" {
		t.Errorf("FirstLine = %q", infos[0].FirstLine)
	}
	if infos[0].Messages != 1 {
		t.Errorf("Messages = %d, want 1", infos[0].Messages)
	}
}

func TestDeleteTranscript(t *testing.T) {
	store := newTestStore(t)

	id := uuid.New().String()
	if err := store.Save(&Transcript{LocalID: id, Email: "a@b.c"}); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(id); err == nil {
		t.Error("expected load of deleted transcript to fail")
	}
	if err := store.Delete(id); err == nil {
		t.Error("deleting a missing transcript should error")
	}
}
