package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// RunTUI starts the bubbletea program and runs chatFn concurrently against a
// TuiIO bridge. The context passed to chatFn is cancelled when the TUI exits
// (Ctrl+C or quit), so in-flight requests stop promptly. Blocks until both
// the program and chatFn have finished.
func RunTUI(cfg TUIConfig, chatFn func(ui IO, ctx context.Context) error) error {
	inputCh := make(chan inputResult, 1)
	done := make(chan struct{})
	model := NewModel(inputCh, cfg)

	p := tea.NewProgram(model)
	tuiIO := &TuiIO{program: p, inputCh: inputCh, done: done}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		chatErr error
		wg      sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		chatErr = chatFn(tuiIO, ctx)
		// Signal the TUI that the chat loop is done.
		p.Send(chatDoneMsg{err: chatErr})
	}()

	_, runErr := p.Run()

	// The Update loop is gone: cancel in-flight requests and close done so
	// a ReadInput or Confirm blocked on a reply returns instead of leaving
	// wg.Wait stuck.
	cancel()
	close(done)
	wg.Wait()

	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return chatErr
}
