// Package tui is the terminal front-end of Genie: a Bubble Tea program with
// a Chat tab and a Documents tab driven by one session controller.
package tui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/formatter"
	"github.com/futig/genie-client/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	headerHeight   = 2
	footerHeight   = 2
	inputHeight    = 3
	settingsHeight = 4
	busyHeight     = 1

	inputPlaceholder = "Ask about your documents... (Enter to send, Alt+Enter for newline)"
)

// Options are the terminal-specific settings of the UI
type Options struct {
	ExportDir    string
	ExportFormat entity.ExportFormat
	// UploadDir is where the file picker starts, empty = working directory
	UploadDir string
}

type dialogKind int

const (
	dialogConfirm dialogKind = iota
	dialogAlert
)

// dialog is a modal question or notice raised by the bridge
type dialog struct {
	kind  dialogKind
	text  string
	reply chan<- bool
	ack   chan<- struct{}
}

// Model is the Bubble Tea model. Session state is read from controller
// snapshots; the model only keeps widget and layout state.
type Model struct {
	ctx        context.Context
	controller *session.Controller
	bridge     *Bridge
	formatters *formatter.Factory
	opts       Options
	styles     Styles

	snapshot session.Snapshot

	textarea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	filepicker filepicker.Model
	renderer   *glamour.TermRenderer

	width    int
	height   int
	selected int
	picking  bool
	spinning bool
	dialogs  []dialog
	status   string
}

func New(ctx context.Context, controller *session.Controller, bridge *Bridge, opts Options) Model {
	styles := DefaultStyles()

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	if opts.ExportFormat == "" {
		opts.ExportFormat = entity.FormatMarkdown
	}

	m := Model{
		ctx:        ctx,
		controller: controller,
		bridge:     bridge,
		formatters: formatter.NewFactory(),
		opts:       opts,
		styles:     styles,
		snapshot:   controller.Snapshot(),
		textarea:   ta,
		viewport:   viewport.New(defaultWidth, defaultHeight),
		spinner:    sp,
		filepicker: newFilePicker(opts.UploadDir),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.layout()
	m.refreshHistory()
	return m
}

func newFilePicker(dir string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = entity.SupportedExtensions
	fp.ShowHidden = false
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if dir != "" {
		fp.CurrentDirectory = dir
	}
	return fp
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.initializeCmd(),
		waitForChanges(m.ctx, m.controller.Changes()),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = max(msg.Width, 1), max(msg.Height, 1)
		m.renderer = newRenderer(m.width)
		m.filepicker.Height = max(m.height-headerHeight-footerHeight-2, 1)
		m.layout()
		m.refreshHistory()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case changedMsg:
		m.sync()
		cmds = append(cmds, waitForChanges(m.ctx, m.controller.Changes()))
		if m.snapshot.Busy && !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.snapshot.Busy {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case confirmRequestMsg:
		m.dialogs = append(m.dialogs, dialog{kind: dialogConfirm, text: msg.question, reply: msg.reply})
		return m, nil

	case alertRequestMsg:
		m.dialogs = append(m.dialogs, dialog{kind: dialogAlert, text: msg.message, ack: msg.ack})
		return m, nil

	case operationDoneMsg:
		m.status = operationStatus(msg)
		m.sync()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = exportErrorStatus(msg.err)
		} else {
			m.status = "Transcript saved to " + msg.path
		}
		return m, nil
	}

	if m.picking {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// sync pulls a fresh snapshot and re-renders what depends on it
func (m *Model) sync() {
	m.snapshot = m.controller.Snapshot()
	if m.selected >= len(m.snapshot.Documents) {
		m.selected = max(len(m.snapshot.Documents)-1, 0)
	}
	m.layout()
	m.refreshHistory()
}

// layout sizes the widgets to the window
func (m *Model) layout() {
	m.textarea.SetWidth(max(m.width-4, 10))

	height := m.height - headerHeight - footerHeight - inputHeight - 2 - busyHeight
	if m.snapshot.SettingsOpen {
		height -= settingsHeight
	}
	m.viewport.Width = max(m.width-2, 10)
	m.viewport.Height = max(height, 1)
}

func (m *Model) refreshHistory() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

func operationStatus(msg operationDoneMsg) string {
	switch {
	case msg.action == actionInitialize && msg.outcome == session.OutcomeFailed:
		return "Could not reach the Genie backend"
	case msg.action == actionClear && msg.outcome == session.OutcomeFailed:
		return "Could not clear the conversation"
	case msg.action == actionClear && msg.outcome == session.OutcomeDone:
		return "Conversation cleared"
	case msg.action == actionRefresh && msg.outcome == session.OutcomeFailed:
		return "Could not refresh documents"
	case msg.action == actionUpload && msg.outcome == session.OutcomeSkipped:
		return "Wait for the current request to finish"
	default:
		return ""
	}
}

func exportErrorStatus(err error) string {
	switch {
	case errors.Is(err, entity.ErrNothingToExport):
		return "Nothing to export yet"
	default:
		return "Export failed: " + err.Error()
	}
}

// Run starts the program on the alternate screen and blocks until the user quits
func Run(ctx context.Context, controller *session.Controller, bridge *Bridge, opts Options) error {
	p := tea.NewProgram(
		New(ctx, controller, bridge, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	bridge.Attach(p)
	defer bridge.Close()

	_, err := p.Run()
	return err
}
