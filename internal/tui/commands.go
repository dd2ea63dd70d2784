package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/formatter"
	"github.com/futig/genie-client/internal/session"
)

const exportTimeLayout = "20060102-150405"

// Actions reported back through operationDoneMsg
const (
	actionInitialize = "initialize"
	actionSend       = "send"
	actionClear      = "clear"
	actionUpload     = "upload"
	actionDelete     = "delete"
	actionRefresh    = "refresh"
)

type (
	// changedMsg fires whenever the controller state changed
	changedMsg struct{}

	operationDoneMsg struct {
		action  string
		outcome session.Outcome
	}

	exportDoneMsg struct {
		path string
		err  error
	}

	confirmRequestMsg struct {
		question string
		reply    chan<- bool
	}

	alertRequestMsg struct {
		message string
		ack     chan<- struct{}
	}
)

// waitForChanges turns the next controller notification into a changedMsg
func waitForChanges(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// operation runs fn off the render loop and reports its outcome
func operation(action string, fn func() session.Outcome) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{action: action, outcome: fn()}
	}
}

func (m Model) initializeCmd() tea.Cmd {
	c, ctx := m.controller, m.ctx
	return operation(actionInitialize, func() session.Outcome { return c.Initialize(ctx) })
}

func (m Model) submitCmd(text string) tea.Cmd {
	c, ctx := m.controller, m.ctx
	return operation(actionSend, func() session.Outcome { return c.Submit(ctx, text) })
}

func (m Model) clearCmd() tea.Cmd {
	c, ctx := m.controller, m.ctx
	return operation(actionClear, func() session.Outcome { return c.ClearConversation(ctx) })
}

func (m Model) uploadCmd(path string) tea.Cmd {
	c, ctx := m.controller, m.ctx
	return operation(actionUpload, func() session.Outcome {
		return c.Upload(ctx, entity.FileFromPath(path))
	})
}

func (m Model) deleteCmd(name string) tea.Cmd {
	c, ctx := m.controller, m.ctx
	return operation(actionDelete, func() session.Outcome { return c.DeleteDocument(ctx, name) })
}

func (m Model) refreshCmd() tea.Cmd {
	c, ctx := m.controller, m.ctx
	return operation(actionRefresh, func() session.Outcome { return c.RefreshDocuments(ctx) })
}

func (m Model) exportCmd() tea.Cmd {
	turns := m.controller.Snapshot().History
	formatters, format, dir := m.formatters, m.opts.ExportFormat, m.opts.ExportDir

	return func() tea.Msg {
		path, err := exportTranscript(formatters, format, dir, turns, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

// exportTranscript writes turns to dir and returns the created file's path
func exportTranscript(formatters *formatter.Factory, format entity.ExportFormat, dir string, turns []entity.ChatTurn, now time.Time) (string, error) {
	f, err := formatters.Create(format)
	if err != nil {
		return "", err
	}

	data, err := f.Format(turns)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("genie-conversation-%s%s", now.Format(exportTimeLayout), f.FileExtension()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}

	return path, nil
}
