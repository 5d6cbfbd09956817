package session

import (
	"fmt"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/api"
)

func TestWindow(t *testing.T) {
	s := New("a@b.c")
	for i := 0; i < 25; i++ {
		s.AddUser(fmt.Sprintf("q%d", i))
	}

	win := s.Window(HistoryWindow)
	if len(win) != HistoryWindow {
		t.Fatalf("window length = %d, want %d", len(win), HistoryWindow)
	}
	// Oldest-first order preserved: entries 5..24.
	if win[0].Content != "q5" || win[len(win)-1].Content != "q24" {
		t.Errorf("window bounds = %q .. %q", win[0].Content, win[len(win)-1].Content)
	}
	// Full history still retained for display.
	if len(s.Messages) != 25 {
		t.Errorf("full history length = %d, want 25", len(s.Messages))
	}
}

func TestWindowShortHistory(t *testing.T) {
	s := New("a@b.c")
	s.AddUser("hello")
	s.AddAssistant("hi")

	win := s.Window(HistoryWindow)
	if len(win) != 2 {
		t.Fatalf("window length = %d, want 2", len(win))
	}
	if win[0].Role != api.RoleUser || win[1].Role != api.RoleAssistant {
		t.Errorf("roles = %q, %q", win[0].Role, win[1].Role)
	}
}

func TestWindowIsACopy(t *testing.T) {
	s := New("a@b.c")
	s.AddUser("original")

	win := s.Window(HistoryWindow)
	win[0].Content = "mutated"

	if s.Messages[0].Content != "original" {
		t.Error("mutating the window must not touch session history")
	}
}

func TestAdoptConversationIDOnce(t *testing.T) {
	s := New("a@b.c")

	if !s.AdoptConversationID("conv-1") {
		t.Fatal("first adoption should succeed")
	}
	if s.AdoptConversationID("conv-2") {
		t.Error("second adoption must be ignored")
	}
	if s.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", s.ConversationID)
	}

	// After a reset the next id is adopted again.
	s.Reset()
	if !s.AdoptConversationID("conv-3") {
		t.Error("adoption after reset should succeed")
	}
	if s.ConversationID != "conv-3" {
		t.Errorf("ConversationID = %q, want conv-3", s.ConversationID)
	}
}

func TestAdoptEmptyID(t *testing.T) {
	s := New("a@b.c")
	if s.AdoptConversationID("") {
		t.Error("empty id must not be adopted")
	}
}

func TestReset(t *testing.T) {
	s := New("a@b.c")
	s.AddUser("q")
	s.AddAssistant("a")
	s.AdoptConversationID("conv-1")

	s.Reset()

	if s.ConversationID != "" {
		t.Errorf("ConversationID = %q, want empty", s.ConversationID)
	}
	if len(s.Messages) != 0 {
		t.Errorf("history length = %d, want 0", len(s.Messages))
	}
	if s.Email != "a@b.c" {
		t.Error("reset must not forget the account")
	}
}
