package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/doctalk-ai/doctalk/internal/api"
)

// ---------- messages sent from the chat goroutine via program.Send() ----------

type readInputMsg struct{}

type inputResult struct {
	text string
	err  error
}

type userMsg struct{ text string }
type typingStartMsg struct{}
type typingStopMsg struct{}
type assistantMsg struct {
	text    string
	sources []api.Source
}
type systemMsg struct{ text string }
type errorMsg struct{ text string }
type docCountMsg struct{ n int }
type chatDoneMsg struct{ err error }
type confirmMsg struct {
	prompt  string
	replyCh chan bool
}

// TUIConfig carries version/account info for the welcome page and status bar.
type TUIConfig struct {
	Version     string
	Server      string
	Email       string
	ShowWelcome bool
}

// ---------- styles ----------

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	sourcesTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Bold(true)

	sourceItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	statusBarBgStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	statusEmailStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235")).
				Foreground(lipgloss.Color("2")).
				Bold(true)

	confirmBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(0, 1)

	confirmHintStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("203")).
				Padding(0, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238"))

	welcomeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1)

	welcomeTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Bold(true)

	welcomeLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8"))

	welcomeValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	welcomeHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
)

// typingSpinner is the three-dot "assistant is typing" indicator.
var typingSpinner = spinner.Spinner{
	Frames: []string{"·  ", "·· ", "···", " ··", "  ·", "   "},
	FPS:    180 * time.Millisecond,
}

// ---------- Model ----------

// Model is the bubbletea model managing the chat TUI state. Resolved timeline
// entries are printed to scrollback with tea.Println; the View only renders
// the live area (typing indicator, input line, status bar).
type Model struct {
	textinput textinput.Model
	spinner   spinner.Model
	width     int
	height    int

	typing    bool
	inputMode bool

	confirming bool
	confirmCh  chan bool

	inputCh chan inputResult

	docCount int
	quitting bool

	cfg TUIConfig

	mdRenderer      *glamour.TermRenderer
	mdRendererWidth int
}

// NewModel creates the initial bubbletea model.
func NewModel(inputCh chan inputResult, cfg TUIConfig) Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = typingSpinner
	sp.Style = spinnerStyle

	return Model{
		textinput: ti,
		spinner:   sp,
		inputCh:   inputCh,
		cfg:       cfg,
	}
}

func (m Model) Init() tea.Cmd {
	if m.cfg.ShowWelcome {
		return tea.Println(renderWelcome(m.cfg))
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textinput.Width = m.width - 4

	case spinner.TickMsg:
		if m.typing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.confirming && m.confirmCh != nil {
				m.confirmCh <- false
				m.confirming = false
				m.confirmCh = nil
				cmds = append(cmds, tea.Println(systemStyle.Render("  [cancelled]")))
				return m, tea.Batch(cmds...)
			}
			if m.inputMode {
				m.inputCh <- inputResult{err: fmt.Errorf("interrupted")}
				m.inputMode = false
				m.textinput.Blur()
			}
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.confirming && m.confirmCh != nil {
				m.confirmCh <- true
				m.confirming = false
				m.confirmCh = nil
				return m, nil
			}
			if m.inputMode {
				text := strings.TrimSpace(m.textinput.Value())
				m.textinput.SetValue("")
				m.inputCh <- inputResult{text: text}
				m.inputMode = false
				m.textinput.Blur()
			}
			return m, nil
		case "esc":
			if m.confirming && m.confirmCh != nil {
				m.confirmCh <- false
				m.confirming = false
				m.confirmCh = nil
				cmds = append(cmds, tea.Println(errorStyle.Render("  ✗ denied")))
				return m, tea.Batch(cmds...)
			}
		}

		if m.inputMode && !m.confirming {
			var cmd tea.Cmd
			m.textinput, cmd = m.textinput.Update(msg)
			cmds = append(cmds, cmd)
		}

	// ---------- custom messages from the chat goroutine ----------

	case readInputMsg:
		m.inputMode = true
		m.textinput.Focus()

	case userMsg:
		cmds = append(cmds, tea.Println(userStyle.Render("You: "+msg.text)))

	case typingStartMsg:
		m.typing = true
		cmds = append(cmds, m.spinner.Tick)

	case typingStopMsg:
		m.typing = false

	case assistantMsg:
		m.typing = false
		rendered := m.renderMarkdown(msg.text)
		if block := renderSources(msg.sources); block != "" {
			rendered += "\n" + block
		}
		cmds = append(cmds, tea.Println(rendered))

	case systemMsg:
		cmds = append(cmds, tea.Println(systemStyle.Render(msg.text)))

	case errorMsg:
		m.typing = false
		cmds = append(cmds, tea.Println(errorStyle.Render("Error: "+msg.text)))

	case confirmMsg:
		m.confirming = true
		m.confirmCh = msg.replyCh
		cmds = append(cmds, tea.Println(confirmBorderStyle.Render(msg.prompt)))

	case docCountMsg:
		m.docCount = msg.n

	case chatDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var live string
	if m.typing {
		live = spinnerStyle.Render(m.spinner.View()) + hintStyle.Render(" Assistant is typing…")
	}

	var input string
	switch {
	case m.confirming:
		input = confirmHintStyle.Render("enter confirm  esc cancel")
	case m.inputMode:
		input = m.textinput.View()
	default:
		input = systemStyle.Render("❯")
	}

	bar := m.renderStatusBar()

	var parts []string
	if live != "" {
		parts = append(parts, live)
	}
	parts = append(parts, input, bar)
	return strings.Join(parts, "\n")
}

// renderStatusBar renders the bottom separator + account/documents/server bar.
func (m Model) renderStatusBar() string {
	email := m.cfg.Email
	if email == "" {
		email = "not logged in"
	}
	status := statusEmailStyle.Render(" "+email) +
		statusBarStyle.Render(fmt.Sprintf(" │ documents: %d", m.docCount)) +
		statusBarStyle.Render(" │ "+shortServer(m.cfg.Server))
	return separatorStyle.Width(m.width).Render(strings.Repeat("─", max(m.width, 0))) + "\n" +
		statusBarBgStyle.Width(m.width).Render(status)
}

// shortServer trims the scheme for the status bar.
func shortServer(server string) string {
	s := strings.TrimPrefix(server, "https://")
	s = strings.TrimPrefix(s, "http://")
	if len(s) > 40 {
		s = s[:37] + "…"
	}
	return s
}

// renderSources renders citations as an ordered list:
//
//	Sources:
//	  1. Chunk 3 (Relevance: 87%)
//	  2. Chunk 7 (Relevance: 52%)
func renderSources(sources []api.Source) string {
	if len(sources) == 0 {
		return ""
	}
	var lines []string
	lines = append(lines, sourcesTitleStyle.Render("Sources:"))
	for i, s := range sources {
		lines = append(lines, sourceItemStyle.Render(
			fmt.Sprintf("  %d. Chunk %d (Relevance: %d%%)", i+1, s.ChunkIndex, s.Relevance())))
	}
	return strings.Join(lines, "\n")
}

// ---------- markdown rendering ----------

func (m *Model) getMarkdownRenderer() *glamour.TermRenderer {
	width := m.width
	if width <= 0 {
		width = 80
	}
	wrapWidth := width - 4
	if m.mdRenderer != nil && m.mdRendererWidth == wrapWidth {
		return m.mdRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return nil
	}
	m.mdRenderer = r
	m.mdRendererWidth = wrapWidth
	return r
}

func (m *Model) renderMarkdown(text string) string {
	r := m.getMarkdownRenderer()
	if r == nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

// ---------- welcome page ----------

func renderWelcome(cfg TUIConfig) string {
	doc := []string{
		"┌─────┐",
		"│ ▒▒▒ │",
		"│ ▒▒  │",
		"│ ▒▒▒ │",
		"└─────┘",
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	info := []string{
		welcomeLabelStyle.Render("Server:  ") + welcomeValueStyle.Render(shortServer(cfg.Server)),
		welcomeLabelStyle.Render("Account: ") + welcomeValueStyle.Render(cfg.Email),
		"",
		welcomeHintStyle.Render("Ask anything about your uploaded documents."),
		welcomeHintStyle.Render("/docs list  /upload <file>  /help for more"),
	}

	var lines []string
	docWidth := 9
	for i := 0; i < len(doc) || i < len(info); i++ {
		left := ""
		if i < len(doc) {
			left = doc[i]
		}
		right := ""
		if i < len(info) {
			right = info[i]
		}
		padding := docWidth - lipgloss.Width(left)
		if padding < 0 {
			padding = 0
		}
		lines = append(lines, left+strings.Repeat(" ", padding)+right)
	}

	inner := strings.Join(lines, "\n")
	title := welcomeTitleStyle.Render(fmt.Sprintf("doctalk %s", version))
	return title + "\n" + welcomeBorderStyle.Render(inner)
}
