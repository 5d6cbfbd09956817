package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doctalk-ai/doctalk/internal/api"
)

// PlainIO implements IO using plain terminal output. Used when TUI mode is
// disabled or stdout is not a terminal (pipes, CI).
type PlainIO struct {
	scanner *bufio.Scanner
}

var _ IO = (*PlainIO)(nil)

// NewPlainIO creates a PlainIO that reads from stdin.
func NewPlainIO() *PlainIO {
	s := bufio.NewScanner(os.Stdin)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)
	return &PlainIO{scanner: s}
}

func (p *PlainIO) ReadInput() (string, error) {
	fmt.Print("\n> ")
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *PlainIO) UserMessage(_ string) {
	// Plain terminal: the user already sees what they typed.
}

func (p *PlainIO) TypingStart() {
	fmt.Println("...")
}

func (p *PlainIO) TypingStop() {}

func (p *PlainIO) AssistantMessage(text string, sources []api.Source) {
	fmt.Println(text)
	if len(sources) > 0 {
		fmt.Println("Sources:")
		for i, s := range sources {
			fmt.Printf("  %d. Chunk %d (Relevance: %d%%)\n", i+1, s.ChunkIndex, s.Relevance())
		}
	}
}

func (p *PlainIO) SystemMessage(text string) {
	fmt.Println(text)
}

func (p *PlainIO) Error(msg string) {
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}

func (p *PlainIO) Confirm(prompt string) bool {
	fmt.Printf("\n%s [y/N] ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}

func (p *PlainIO) SetDocumentCount(_ int) {}
