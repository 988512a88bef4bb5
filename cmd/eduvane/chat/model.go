// Package chat provides the interactive TUI for Eduvane.
//   - model.go: types, Init, Update loop, orchestrator event bridge
//   - view.go: rendering
package chat

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"eduvane/cmd/eduvane/ui"
	"eduvane/internal/logging"
	"eduvane/internal/orchestrator"
	"eduvane/internal/types"
)

// messageKind tags a rendered chat entry.
type messageKind int

const (
	msgUser messageKind = iota
	msgAssistant
	msgSubmission
	msgFollowUp
	msgError
	msgNotice
)

// Message is one rendered entry in the transcript.
type Message struct {
	Kind    messageKind
	Content string
}

// eventMsg carries one orchestrator event into the Update loop. ok is
// false when the turn's stream is exhausted.
type eventMsg struct {
	ev types.OrchestratorEvent
	ok bool
}

// Model is the bubbletea model for the chat interface.
type Model struct {
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	orch  *orchestrator.Orchestrator
	guest bool

	history []Message

	// streaming accumulates the in-flight assistant response. A plain
	// string because the model is copied by value on every Update.
	streaming string

	// isLoading disables input while a turn is in flight; the
	// orchestrator is not reentrant.
	isLoading bool
	phase     types.AnalysisPhase
	events    <-chan types.OrchestratorEvent

	pendingFile *types.FileRef

	width  int
	height int
	ready  bool
}

// New builds the chat model around a constructed orchestrator.
func New(orch *orchestrator.Orchestrator, guest bool) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or /file <path> to attach work..."
	ta.Focus()
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	return Model{
		textarea: ta,
		spinner:  sp,
		styles:   ui.NewStyles(ui.DetectTheme()),
		renderer: renderer,
		orch:     orch,
		guest:    guest,
		phase:    types.PhaseIdle,
	}
}

// Run starts the TUI and blocks until exit.
func Run(orch *orchestrator.Orchestrator, guest bool) error {
	p := tea.NewProgram(New(orch, guest), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// waitForEvent bridges the orchestrator's event channel into the
// bubbletea message loop, one event per command.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		return eventMsg{ev: ev, ok: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := m.textarea.Height() + 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textarea.SetWidth(msg.Width - 2)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.isLoading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleInput(input)
		}

	case eventMsg:
		return m.handleEvent(msg)

	case spinner.TickMsg:
		if m.isLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, taCmd, vpCmd)
	return m, tea.Batch(cmds...)
}

// handleInput routes slash commands locally and everything else to the
// orchestrator.
func (m Model) handleInput(input string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}
	return m.startTurn(types.UnifiedInput{Text: input, File: m.takePendingFile()})
}

func (m *Model) takePendingFile() *types.FileRef {
	f := m.pendingFile
	m.pendingFile = nil
	return f
}

func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/reset":
		m.orch.Reset()
		m.history = append(m.history, Message{Kind: msgNotice, Content: "Session reset. Starting fresh."})
		m.refreshViewport()
		return m, nil

	case "/file":
		if len(fields) < 2 {
			m.history = append(m.history, Message{Kind: msgError, Content: "Usage: /file <path>"})
			m.refreshViewport()
			return m, nil
		}
		path := strings.TrimSpace(strings.TrimPrefix(input, "/file"))
		data, err := os.ReadFile(path)
		if err != nil {
			m.history = append(m.history, Message{Kind: msgError, Content: fmt.Sprintf("Could not read %s: %v", path, err)})
			m.refreshViewport()
			return m, nil
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		file := &types.FileRef{Name: filepath.Base(path), MIMEType: mimeType, Data: data}

		// A bare /file submits immediately; text typed alongside a
		// pending attachment becomes the instruction.
		m.pendingFile = nil
		return m.startTurn(types.UnifiedInput{File: file})

	case "/help":
		m.history = append(m.history, Message{Kind: msgNotice, Content: helpText})
		m.refreshViewport()
		return m, nil

	default:
		m.history = append(m.history, Message{Kind: msgError, Content: fmt.Sprintf("Unknown command %s. Try /help.", fields[0])})
		m.refreshViewport()
		return m, nil
	}
}

const helpText = `Commands:
  /file <path>  upload work for analysis
  /reset        start a new session
  /help         this help
  /quit         exit`

// startTurn kicks off one orchestrator turn and begins draining events.
func (m Model) startTurn(input types.UnifiedInput) (tea.Model, tea.Cmd) {
	label := input.Text
	if input.File != nil {
		label = fmt.Sprintf("[uploaded %s] %s", input.File.Name, input.Text)
	}
	m.history = append(m.history, Message{Kind: msgUser, Content: strings.TrimSpace(label)})
	m.streaming = ""

	m.isLoading = true
	m.phase = types.PhaseIdle
	m.events = m.orch.ProcessInput(context.Background(), input, m.guest)
	m.textarea.Blur()
	m.refreshViewport()

	logging.Chat("turn started (file=%v textLen=%d)", input.File != nil, len(input.Text))
	return m, tea.Batch(m.waitForEvent(), m.spinner.Tick)
}

// handleEvent folds one orchestrator event into the transcript.
func (m Model) handleEvent(msg eventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Turn finished: flush any stream remainder, re-enable input.
		m.flushStream()
		m.isLoading = false
		m.phase = types.PhaseIdle
		m.events = nil
		m.textarea.Focus()
		m.refreshViewport()
		return m, textarea.Blink
	}

	switch msg.ev.Type {
	case types.EventPhaseUpdate:
		m.phase = msg.ev.Phase

	case types.EventStreamChunk:
		m.streaming += msg.ev.Text

	case types.EventSubmissionComplete:
		if msg.ev.Submission != nil && msg.ev.Submission.Result != nil {
			m.history = append(m.history, Message{Kind: msgSubmission, Content: renderResult(msg.ev.Submission.Result)})
		}

	case types.EventTaskComplete:
		m.flushStream()

	case types.EventError:
		m.flushStream()
		m.history = append(m.history, Message{Kind: msgError, Content: msg.ev.Message})

	case types.EventFollowUp:
		m.history = append(m.history, Message{Kind: msgFollowUp, Content: msg.ev.Text})
	}

	m.refreshViewport()
	return m, m.waitForEvent()
}

func (m *Model) flushStream() {
	if m.streaming == "" {
		return
	}
	m.history = append(m.history, Message{Kind: msgAssistant, Content: m.streaming})
	m.streaming = ""
}
