package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConfirmKeysResolvePrompt(t *testing.T) {
	inputCh := make(chan inputResult, 1)
	m := NewModel(inputCh, TUIConfig{})

	reply := make(chan bool, 1)
	next, _ := m.Update(confirmMsg{prompt: "Delete \"lease.pdf\"?", replyCh: reply})
	m = next.(Model)
	if !m.confirming {
		t.Fatal("model not in confirming state after confirmMsg")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !<-reply {
		t.Fatal("enter should approve the prompt")
	}
	if m.confirming {
		t.Fatal("model still confirming after enter")
	}

	next, _ = m.Update(confirmMsg{prompt: "Again?", replyCh: reply})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if <-reply {
		t.Fatal("esc should deny the prompt")
	}
	if m.confirming {
		t.Fatal("model still confirming after esc")
	}
}

func TestEnterSubmitsInput(t *testing.T) {
	inputCh := make(chan inputResult, 1)
	m := NewModel(inputCh, TUIConfig{})

	next, _ := m.Update(readInputMsg{})
	m = next.(Model)
	if !m.inputMode {
		t.Fatal("readInputMsg should enter input mode")
	}

	m.textinput.SetValue("  /docs  ")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	res := <-inputCh
	if res.err != nil || res.text != "/docs" {
		t.Fatalf("submitted input = %+v, want trimmed /docs", res)
	}
	if m.inputMode {
		t.Fatal("input mode should end on submit")
	}
}
