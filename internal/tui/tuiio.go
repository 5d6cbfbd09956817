package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doctalk-ai/doctalk/internal/api"
)

// TuiIO implements the IO interface by sending messages to a bubbletea
// Program. All methods are safe to call from the chat goroutine.
type TuiIO struct {
	program *tea.Program
	inputCh chan inputResult

	// done is closed when the program exits, so a pending ReadInput or
	// Confirm never strands the chat goroutine waiting on a reply the
	// Update loop can no longer send.
	done chan struct{}
}

var _ IO = (*TuiIO)(nil)

// send is a nil-safe helper so fire-and-forget methods never panic when the
// program has not been attached yet.
func (t *TuiIO) send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

func (t *TuiIO) ReadInput() (string, error) {
	// Tell the TUI to activate the text input, then block until the user
	// submits or the program exits.
	t.send(readInputMsg{})

	select {
	case res := <-t.inputCh:
		if res.err != nil {
			return "", io.EOF
		}
		return res.text, nil
	case <-t.done:
		return "", io.EOF
	}
}

func (t *TuiIO) UserMessage(text string) {
	t.send(userMsg{text: text})
}

func (t *TuiIO) TypingStart() {
	t.send(typingStartMsg{})
}

func (t *TuiIO) TypingStop() {
	t.send(typingStopMsg{})
}

func (t *TuiIO) AssistantMessage(text string, sources []api.Source) {
	t.send(assistantMsg{text: text, sources: sources})
}

func (t *TuiIO) SystemMessage(text string) {
	t.send(systemMsg{text: text})
}

func (t *TuiIO) Error(msg string) {
	t.send(errorMsg{text: msg})
}

func (t *TuiIO) Confirm(prompt string) bool {
	replyCh := make(chan bool, 1)
	t.send(confirmMsg{prompt: prompt, replyCh: replyCh})

	select {
	case v := <-replyCh:
		return v
	case <-t.done:
		return false
	}
}

func (t *TuiIO) SetDocumentCount(n int) {
	t.send(docCountMsg{n: n})
}
