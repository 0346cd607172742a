package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GenerateState tracks the current guide generation progress.
type GenerateState struct {
	Service      string
	Platform     string
	Model        string
	Phase        string
	ChunksDone   int
	ChunksTotal  int
	Attempt      int
	Retries      int
	InputTokens  int64
	OutputTokens int64
	Cost         float64
}

// GenerateUpdateMsg is sent when generation state changes.
type GenerateUpdateMsg struct {
	State GenerateState
}

// GenerateLogMsg is sent when a log entry should be added.
type GenerateLogMsg struct {
	Timestamp time.Time
	Phase     string
	Message   string
}

// GenerateDoneMsg is sent when generation completes.
type GenerateDoneMsg struct {
	Path string
	Err  error
}

// GenerateLogEntry represents one line in the activity log.
type GenerateLogEntry struct {
	Timestamp time.Time
	Phase     string
	Message   string
}

// GenerateApp is the main bubbletea model for the generate command TUI.
type GenerateApp struct {
	state    GenerateState
	spinner  spinner.Model
	logs     []GenerateLogEntry
	width    int
	height   int
	quitting bool
	done     bool
	path     string
	err      error

	// Styles
	headerStyle   lipgloss.Style
	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	phaseStyle    lipgloss.Style
	progressFull  lipgloss.Style
	progressEmpty lipgloss.Style
	logStyle      lipgloss.Style
	logTimeStyle  lipgloss.Style
	warningStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	doneStyle     lipgloss.Style
}

// NewGenerateApp creates a new GenerateApp instance.
func NewGenerateApp(service, platform string) *GenerateApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &GenerateApp{
		state: GenerateState{
			Service:  service,
			Platform: platform,
			Phase:    "starting",
		},
		spinner: sp,
		logs:    make([]GenerateLogEntry, 0),

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(16),

		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		phaseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		progressFull: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		progressEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		logStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		logTimeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		warningStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true),
	}
}

// Init implements tea.Model.
func (a *GenerateApp) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *GenerateApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case GenerateUpdateMsg:
		a.state = msg.State

	case GenerateLogMsg:
		a.logs = append(a.logs, GenerateLogEntry{
			Timestamp: msg.Timestamp,
			Phase:     msg.Phase,
			Message:   msg.Message,
		})

	case GenerateDoneMsg:
		a.done = true
		a.path = msg.Path
		if msg.Err != nil {
			a.err = msg.Err
		}
		// Don't quit immediately - let user see the final state

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model.
func (a *GenerateApp) View() string {
	if a.quitting {
		return "Generation cancelled.\n"
	}

	var b strings.Builder

	b.WriteString(a.headerStyle.Render("=== SLO Implementation Guide ==="))
	b.WriteString("\n\n")

	b.WriteString(a.labelStyle.Render("Service:"))
	b.WriteString(a.valueStyle.Render(a.state.Service))
	b.WriteString("\n")

	b.WriteString(a.labelStyle.Render("Platform:"))
	b.WriteString(a.valueStyle.Render(a.state.Platform))
	b.WriteString("\n")

	model := a.state.Model
	if model == "" {
		model = "-"
	}
	b.WriteString(a.labelStyle.Render("Model:"))
	b.WriteString(a.valueStyle.Render(model))
	b.WriteString("\n")

	b.WriteString(a.labelStyle.Render("Phase:"))
	if !a.done {
		b.WriteString(a.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(a.phaseStyle.Render(a.state.Phase))
	if a.state.Attempt > 1 {
		b.WriteString(a.warningStyle.Render(fmt.Sprintf("  (attempt %d)", a.state.Attempt)))
	}
	b.WriteString("\n")

	// Chunk progress bar, only shown when the worksheet was split
	if a.state.ChunksTotal > 1 {
		pct := float64(a.state.ChunksDone) / float64(a.state.ChunksTotal) * 100
		chunkStr := fmt.Sprintf("%d/%d chunks", a.state.ChunksDone, a.state.ChunksTotal)
		b.WriteString(a.labelStyle.Render("Progress:"))
		b.WriteString(a.valueStyle.Render(chunkStr))
		b.WriteString("\n")
		b.WriteString(a.renderProgressBar(pct, 30))
		b.WriteString("\n")
	}

	// Token usage and cost
	usageStr := fmt.Sprintf("%d in / %d out  $%.4f",
		a.state.InputTokens, a.state.OutputTokens, a.state.Cost)
	b.WriteString(a.labelStyle.Render("Usage:"))
	b.WriteString(a.valueStyle.Render(usageStr))
	b.WriteString("\n\n")

	b.WriteString(a.renderLogs())

	b.WriteString("\n")
	if a.done {
		if a.err != nil {
			b.WriteString(a.errorStyle.Render(fmt.Sprintf("Error: %v", a.err)))
			if a.path != "" {
				b.WriteString("\n")
				b.WriteString(a.warningStyle.Render("Error document: " + a.path))
			}
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Render("Press q to exit"))
		} else {
			b.WriteString(a.doneStyle.Render("Guide saved to: " + a.path))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Render("Press q to exit"))
		}
	} else {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("Press q to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderProgressBar renders a progress bar.
func (a *GenerateApp) renderProgressBar(pct float64, width int) string {
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	filled := int(pct / 100 * float64(width))
	empty := width - filled

	bar := a.progressFull.Render(strings.Repeat("█", filled)) +
		a.progressEmpty.Render(strings.Repeat("░", empty))

	return fmt.Sprintf("  %s %.0f%%", bar, pct)
}

// renderLogs renders the recent log entries.
func (a *GenerateApp) renderLogs() string {
	if len(a.logs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		Render("Activity Log"))
	b.WriteString("\n")

	// Show last 8 log entries
	start := 0
	if len(a.logs) > 8 {
		start = len(a.logs) - 8
	}

	for _, entry := range a.logs[start:] {
		ts := a.logTimeStyle.Render(entry.Timestamp.Format("15:04:05"))
		phase := lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Width(10).
			Render(entry.Phase)
		msg := a.logStyle.Render(entry.Message)
		b.WriteString(fmt.Sprintf("  %s %s %s\n", ts, phase, msg))
	}

	return b.String()
}

// State returns the current generation state.
func (a *GenerateApp) State() GenerateState {
	return a.state
}

// NewGenerateProgram creates a new Bubbletea program for the generate TUI.
func NewGenerateProgram(service, platform string) (*tea.Program, *GenerateApp) {
	app := NewGenerateApp(service, platform)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
