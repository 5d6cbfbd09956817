// Package tui defines the IO interface between the chat controller and the
// user interface layer, plus PlainIO (terminal fallback) and TuiIO (bubbletea).
package tui

import "github.com/doctalk-ai/doctalk/internal/api"

// IO is the contract between the chat controller and the UI layer.
// Every method maps to a distinct visual event, so controller logic never
// depends on any specific rendering implementation and can be tested headlessly.
type IO interface {
	// ReadInput blocks until the user submits a line of input.
	// Returns ("", io.EOF) when the user quits.
	ReadInput() (string, error)

	// UserMessage displays the user's submitted message in the timeline.
	UserMessage(text string)

	// TypingStart shows the "awaiting reply" indicator. It is re-shown
	// between a failed query attempt and its retry.
	TypingStart()

	// TypingStop hides the indicator without printing anything.
	TypingStop()

	// AssistantMessage appends an answer to the timeline, rendered as
	// Markdown, with any source citations listed underneath.
	AssistantMessage(text string, sources []api.Source)

	// SystemMessage displays a system-level notice (upload progress,
	// conversation resets, retry hints).
	SystemMessage(text string)

	// Error displays an error message with prominent styling.
	Error(msg string)

	// Confirm asks the user a yes/no question before a destructive
	// operation. Returns true only on explicit approval.
	Confirm(prompt string) bool

	// SetDocumentCount updates the document counter in the status area.
	SetDocumentCount(n int)
}
