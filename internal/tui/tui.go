// Package tui provides a Bubble Tea terminal user interface for grabflickr.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/grabflickr/internal/config"
	"github.com/handiism/grabflickr/internal/download"
	"github.com/handiism/grabflickr/internal/flickr"
	"github.com/handiism/grabflickr/internal/http"
	ioutils "github.com/handiism/grabflickr/internal/io"
	"github.com/handiism/grabflickr/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0084")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0063DC"))

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
			BorderForeground(lipgloss.Color("#0063DC")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateListing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *slog.Logger
	logs      []LogEntry
	album     *model.Album
	result    *download.BatchResult
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference and the events it emits
	manager *download.Manager
	events  chan download.ProgressEvent

	// Download progress
	remaining     int
	total         int
	receivedBytes int64

	// Options
	strategy download.Strategy
	size     int
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings must already be validated.
func NewModel(settings *config.Settings, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "72157600000000000"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0084"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	strategy, err := download.ParseStrategy(settings.Strategy)
	if err != nil {
		strategy = download.Pool
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logger:    logger,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		strategy:  strategy,
		size:      min(max(settings.SizePreference, 1), 9),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every event emitted by the download manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// ListDoneMsg is sent when the album listing completes.
	ListDoneMsg struct {
		Album   *model.Album
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when the batch completes.
	DownloadDoneMsg struct {
		Result *download.BatchResult
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
		m.progress.Width = min(max(msg.Width-20, 20), 80)
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
			if m.state == StateDownloading || m.state == StateListing {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateListing
				cmd := m.listAlbum(strings.TrimSpace(m.textInput.Value()))
				return m, tea.Batch(cmd, m.spinner.Tick)
			}

		case "tab":
			if m.state == StateInput {
				m.strategy = m.strategy.Next()
				return m, nil
			}

		case "+", "=":
			if m.state == StateInput {
				m.size = min(m.size+1, 9)
				return m, nil
			}

		case "-":
			if m.state == StateInput {
				m.size = max(m.size-1, 1)
				return m, nil
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if !(msg.Event.Level == download.LevelVerbose && !m.verbose) {
			m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}

	case ListDoneMsg:
		if m.state != StateListing {
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.album = msg.Album
		m.manager = msg.Manager
		m.total = len(msg.Album.Photos)
		m.remaining = m.total
		m.state = StateDownloading
		cmds = append(cmds, m.startDownload(), waitForEvent(m.events), m.tickProgress())

	case DownloadDoneMsg:
		if m.state != StateDownloading {
			return m, nil
		}
		m.result = msg.Result
		if msg.Result != nil {
			m.remaining = msg.Result.Remaining
			m.receivedBytes = msg.Result.Bytes
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			m.remaining, m.total, m.receivedBytes = m.manager.Progress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
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

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.album = nil
	m.result = nil
	m.err = nil
	m.manager = nil
	m.events = nil
	m.remaining, m.total, m.receivedBytes = 0, 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
}

func (m Model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.total-m.remaining) / float64(m.total)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📷 grabflickr"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download the photos of a Flickr album"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateListing:
		b.WriteString(m.viewListing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
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

	b.WriteString(subtitleStyle.Render("Enter album id:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Strategy: %s (tab)\n", m.strategy))
	b.WriteString(fmt.Sprintf("  Size: %d, %s (+/-)\n", m.size, sizeHint(m.size)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func sizeHint(size int) string {
	if size == 1 {
		return "largest"
	}
	return fmt.Sprintf("%d steps below the largest", size-1)
}

func (m Model) viewListing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching album listing..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.album != nil {
		b.WriteString(albumStyle.Render(fmt.Sprintf("▣ %s (%d photos, %s)", albumTitle(m.album), len(m.album.Photos), m.strategy)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Remaining: %d/%d | Downloaded: %.2f MB",
		m.remaining,
		m.total,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func albumTitle(album *model.Album) string {
	if album.Title == "" {
		return album.ID
	}
	return album.Title
}

func (m Model) viewComplete() string {
	var b strings.Builder

	var succeeded, total, failed int
	var bytes int64
	if m.result != nil {
		succeeded, total, failed, bytes = m.result.Succeeded, m.result.Total, len(m.result.Errors), m.result.Bytes
	}

	headline := "✨ Download Complete!"
	if failed > 0 {
		headline = "⚠ Download finished with errors"
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Photos: %d/%d\n"+
			"Failed: %d\n"+
			"Size: %.2f MB",
		headline,
		succeeded,
		total,
		failed,
		float64(bytes)/1024/1024,
	))
	b.WriteString(box)
	b.WriteString("\n")

	if failed > 0 {
		for _, e := range m.result.Errors {
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", e.PhotoID, e.Err)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
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
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
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
		return "enter: start • tab: strategy • +/-: size • v: verbose • esc: quit"
	case StateListing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// listAlbum fetches the album listing and prepares the manager. The output
// directory is checked first so a bad path fails before any request.
func (m *Model) listAlbum(albumID string) tea.Cmd {
	ctx := m.ctx
	settings := m.settings
	logger := m.logger

	events := make(chan download.ProgressEvent, 64)
	m.events = events

	return func() tea.Msg {
		nameStyle, err := settings.NameStyle()
		if err != nil {
			return ListDoneMsg{Err: err}
		}

		httpClient := http.NewClient(settings.HTTPTimeout())
		client := flickr.NewClient(httpClient, flickr.NewSigner(settings.APIKey, settings.APISecret), flickr.Options{
			Endpoint: settings.APIURL,
			Logger:   logger,
		})

		if _, err := ioutils.EnsureOutputDir(settings.OutputDir(albumID)); err != nil {
			return ListDoneMsg{Err: err}
		}

		album, err := client.ListPhotos(ctx, albumID)
		if err != nil {
			return ListDoneMsg{Err: err}
		}

		manager := download.NewManager(client, httpClient, func(event download.ProgressEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		}, download.Options{NameStyle: nameStyle, Logger: logger})

		return ListDoneMsg{Album: album, Manager: manager}
	}
}

// startDownload runs the batch in the background. The event channel is
// closed once the batch has finished.
func (m *Model) startDownload() tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	photos := m.album.Photos
	events := m.events

	runCfg, err := m.settings.ToRunConfig(m.album.ID)
	runCfg.Strategy = m.strategy
	runCfg.SizePreference = m.size

	return func() tea.Msg {
		defer close(events)
		if err != nil {
			return DownloadDoneMsg{Err: err}
		}
		result, err := manager.Run(ctx, photos, runCfg)
		return DownloadDoneMsg{Result: result, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
