// Package tui provides a Bubble Tea terminal user interface for the exporter.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kuwa72/rkbdb2xml/internal/config"
	"github.com/kuwa72/rkbdb2xml/internal/export"
	"github.com/kuwa72/rkbdb2xml/internal/library"
	"github.com/kuwa72/rkbdb2xml/internal/rekordbox"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	playlistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateExporting
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   export.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	playlists []string
	report    *export.Report
	err       error

	// Export context
	ctx    context.Context
	cancel context.CancelFunc

	// Export manager reference
	manager *export.Manager

	// Copy progress
	doneFiles  int32
	totalFiles int32

	// Options
	copyFiles bool
	romanize  bool
	addBPM    bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = settings.DatabasePath
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		copyFiles: settings.CopyFiles,
		romanize:  settings.ForceRomanize,
		addBPM:    settings.ForceAddBPM,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ExportStartedMsg is sent once the library opened and the export is
	// running.
	ExportStartedMsg struct {
		Playlists []string
		Manager   *export.Manager
		Err       error
	}

	// ExportDoneMsg is sent when the export finishes.
	ExportDoneMsg struct {
		Report *export.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateExporting {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput {
				m.state = StateExporting
				return m, tea.Batch(m.startExport(), m.spinner.Tick, m.tickProgress())
			}

		case "c":
			if m.state == StateInput {
				m.copyFiles = !m.copyFiles
			}

		case "o":
			if m.state == StateInput {
				m.romanize = !m.romanize
			}

		case "b":
			if m.state == StateInput {
				m.addBPM = !m.addBPM
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new export
				m.state = StateInput
				m.logs = nil
				m.playlists = nil
				m.report = nil
				m.err = nil
				m.doneFiles = 0
				m.totalFiles = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ExportStartedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.playlists = msg.Playlists
			m.manager = msg.Manager
		}

	case ExportDoneMsg:
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
			m.report = msg.Report
			for _, w := range msg.Report.Warnings {
				m.logs = append(m.logs, LogEntry{
					Message: fmt.Sprintf("track %s: %s", w.TrackID, w.Message),
					Level:   export.LevelWarning,
				})
			}
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateExporting {
			done, total := m.manager.GetProgress()
			m.doneFiles = done
			m.totalFiles = total

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("rkbdb2xml"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Export a rekordbox library to XML"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateExporting:
		b.WriteString(m.viewExporting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Database path (empty for default):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Copy track files (c)\n", check(m.copyFiles)))
	b.WriteString(fmt.Sprintf("  %s Romanize titles (o)\n", check(m.romanize)))
	b.WriteString(fmt.Sprintf("  %s BPM in titles (b)\n", check(m.addBPM)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", check(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewExporting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	phase := export.PhaseLoading
	if m.manager != nil {
		phase = m.manager.Phase()
	}
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Exporting (%s)...", phase)))
	b.WriteString("\n\n")

	// Playlists found
	if len(m.playlists) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Exporting %d playlist(s):", len(m.playlists))))
		b.WriteString("\n")
		for _, name := range m.playlists {
			b.WriteString(playlistStyle.Render(fmt.Sprintf("  - %s", name)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Copy progress bar, only meaningful while materializing
	if m.totalFiles > 0 {
		percent := float64(m.doneFiles) / float64(m.totalFiles)
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.doneFiles, m.totalFiles)))
		b.WriteString("\n\n")
	}

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	playlists, tracks, copied := 0, 0, 0
	if m.report != nil {
		playlists = m.report.Playlists
		tracks = m.report.Tracks
		copied = m.report.CopiedFiles
	}
	box := boxStyle.Render(fmt.Sprintf(
		"Export Complete!\n\n"+
			"Playlists: %d\n"+
			"Tracks: %d\n"+
			"Files copied: %d",
		playlists,
		tracks,
		copied,
	))
	b.WriteString(box)
	b.WriteString("\n\n")

	// Warnings from the report
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case export.LevelError:
			style = errorStyle
			prefix = "x"
		case export.LevelWarning:
			style = warningStyle
			prefix = "!"
		case export.LevelSuccess:
			style = successStyle
			prefix = "+"
		case export.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: export - c: copy files - o: romanize - b: bpm titles - v: verbose - esc: quit"
	case StateExporting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new export - q: quit"
	}
	return ""
}

// startExport opens the library and runs the export in the background.
func (m *Model) startExport() tea.Cmd {
	ctx := m.ctx

	// Apply options
	settings := *m.settings
	if path := strings.TrimSpace(m.textInput.Value()); path != "" {
		settings.DatabasePath = path
	}
	settings.CopyFiles = m.copyFiles
	settings.ForceRomanize = m.romanize
	settings.ForceAddBPM = m.addBPM

	started, done := runExport(ctx, settings)

	return tea.Batch(
		func() tea.Msg { return <-started },
		func() tea.Msg { return <-done },
	)
}

// runExport runs the export in a background goroutine. Each returned channel
// always receives exactly one message, including when the database fails to
// open, so neither command reading them can block forever.
func runExport(ctx context.Context, settings config.Settings) (<-chan ExportStartedMsg, <-chan ExportDoneMsg) {
	started := make(chan ExportStartedMsg, 1)
	done := make(chan ExportDoneMsg, 1)

	go func() {
		source, err := rekordbox.Open(settings.DatabasePath)
		if err != nil {
			started <- ExportStartedMsg{Err: err}
			done <- ExportDoneMsg{Err: err}
			return
		}
		defer source.Close()

		manager := export.NewManager(&settings, source, nil)
		started <- ExportStartedMsg{
			Playlists: selectedNames(ctx, source, settings.Playlists),
			Manager:   manager,
		}

		report, err := manager.Run(ctx, library.ParseSpec([]string{settings.Playlists}))
		done <- ExportDoneMsg{Report: report, Err: err}
	}()

	return started, done
}

// selectedNames resolves the configured selection to display names; on any
// problem it returns nothing and leaves the error to the export itself.
func selectedNames(ctx context.Context, source rekordbox.Source, spec string) []string {
	rows, err := source.Playlists(ctx)
	if err != nil {
		return nil
	}
	tree, err := library.BuildTree(rows)
	if err != nil {
		return nil
	}
	ids, err := library.Resolve(tree, library.ParseSpec([]string{spec}))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if node := tree.Node(id); node != nil {
			names = append(names, node.Name)
		}
	}
	return names
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
