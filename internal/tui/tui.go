package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/gdindent/gdindent"
	"github.com/sokinpui/gdindent/internal/ui"
	"github.com/sokinpui/gdindent/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))  // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))             // Green
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // Orange
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))            // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
	interrupted bool
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type fileMsg struct {
	line  string
	style lipgloss.Style
}

type progressMsg struct {
	current, total int
}

// programRef is shared by every copy of the Model so the reporter can reach
// the running program.
type programRef struct {
	p *tea.Program
}

func (r *programRef) send(msg tea.Msg) {
	if r.p != nil {
		r.p.Send(msg)
	}
}

// reporter turns App events into program messages.
type reporter struct {
	ref *programRef
}

func (r reporter) Start(path string) {
	r.ref.send(fileMsg{line: ui.FixingMsg(path), style: faintStyle})
}

func (r reporter) Success(path string) {
	r.ref.send(fileMsg{line: ui.FixedMsg(path), style: successStyle})
}

func (r reporter) Failure(path string, err error) {
	r.ref.send(fileMsg{line: ui.FailedMsg(path, err), style: errorStyle})
}

// --- Model ---
type Model struct {
	app         *gdindent.App
	ctx         context.Context
	cancel      context.CancelFunc
	ref         *programRef
	spinner     spinner.Model
	progress    progress.Model
	current     int
	total       int
	stopping    bool
	interrupted bool
	state       state
	summary     summaryMsg
	err         error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

// New wires app to a fresh model. Call SetProgram once the program exists.
func New(ctx context.Context, app *gdindent.App) Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ref := &programRef{}
	app.SetReporter(reporter{ref: ref})
	app.SetProgressCallback(func(current, total int) {
		ref.send(progressMsg{current: current, total: total})
	})

	return Model{
		app:      app,
		ctx:      ctx,
		cancel:   cancel,
		ref:      ref,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		state:    stateProcessing,
	}
}

// SetProgram lets the model forward App events to p.
func (m Model) SetProgram(p *tea.Program) {
	m.ref.p = p
}

// Err returns the error that ended the run, if any.
func (m Model) Err() error {
	return m.err
}

// Interrupted reports whether the run was cancelled before every file was
// processed.
func (m Model) Interrupted() bool {
	return m.interrupted
}

// Summary returns the result of a finished run.
func (m Model) Summary() model.Summary {
	return m.summary.Summary
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Let the current file finish; the summary arrives afterwards.
			m.stopping = true
			m.cancel()
		}
		return m, nil

	case fileMsg:
		return m, tea.Println(msg.style.Render(msg.line))

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		if msg.total == 0 {
			return m, nil
		}
		return m, m.progress.SetPercent(float64(msg.current) / float64(msg.total))

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		m.interrupted = msg.interrupted
		m.cancel()
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		m.cancel()
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		label := "Reindenting " + m.app.Root() + "..."
		if m.stopping {
			label = "Stopping after the current file..."
		}
		if m.total == 0 {
			return fmt.Sprintf("%s %s\n", m.spinner.View(), label)
		}
		return fmt.Sprintf("%s %s\n%s [%d/%d]\n", m.spinner.View(), label, m.progress.View(), m.current, m.total)
	case stateError:
		return errorStyle.Render("Error: ", m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	if len(m.summary.Fixed) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render(fmt.Sprintf("Reindented %d file(s):", len(m.summary.Fixed))))
		b.WriteString("\n")
		for _, f := range m.summary.Fixed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(m.summary.Unchanged) > 0 {
		hasContent = true
		b.WriteString(faintStyle.Render(fmt.Sprintf("%d file(s) already indented correctly.", len(m.summary.Unchanged))))
		b.WriteString("\n")
	}
	if len(m.summary.Skipped) > 0 {
		hasContent = true
		b.WriteString(warningStyle.Render("Could not read:"))
		b.WriteString("\n")
		for _, d := range m.summary.Skipped {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(d)))
		}
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	if !hasContent && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) runApp() tea.Msg {
	summary, err := m.app.Execute(m.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return summaryMsg{Summary: summary, interrupted: true}
		}
		// Check for detailed error to print stack
		var e *gdindent.DetailedError
		if errors.As(err, &e) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{Summary: summary}
}
