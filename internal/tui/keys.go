package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/futig/genie-client/internal/session"
)

// handleKeyMsg routes key presses: open dialogs first, then the file
// picker, then global shortcuts, then the active tab
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.answerAll()
		if m.bridge != nil {
			m.bridge.Close()
		}
		return m, tea.Quit
	}

	if len(m.dialogs) > 0 {
		return m.handleDialogKey(msg)
	}

	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "tab":
		next := session.ViewDocuments
		if m.snapshot.ActiveView == session.ViewDocuments {
			next = session.ViewChat
		}
		m.controller.SetView(next)
		m.sync()
		return m, nil

	case "ctrl+l":
		m.status = ""
		return m, m.clearCmd()

	case "ctrl+o":
		m.controller.ToggleSettings()
		m.sync()
		return m, nil

	case "ctrl+e":
		return m, m.exportCmd()
	}

	if m.snapshot.ActiveView == session.ViewDocuments {
		return m.handleDocumentsKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snapshot.SettingsOpen {
		switch msg.Type {
		case tea.KeyLeft:
			m.controller.SetResponseTimeout(m.snapshot.ResponseTimeout - session.ResponseTimeoutStep)
			m.sync()
			return m, nil
		case tea.KeyRight:
			m.controller.SetResponseTimeout(m.snapshot.ResponseTimeout + session.ResponseTimeoutStep)
			m.sync()
			return m, nil
		}
	}

	switch msg.Type {
	case tea.KeyEnter, tea.KeyCtrlJ:
		// Terminals do not report Shift+Enter; Alt+Enter and Ctrl+J stand in for it
		shift := msg.Alt || msg.Type == tea.KeyCtrlJ
		switch session.ResolveKey("enter", shift) {
		case session.KeyNewline:
			m.textarea.InsertString("\n")
			return m, nil
		case session.KeySend:
			return m.submit()
		}

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// submit hands the input to the controller. While a request is in flight
// the text stays in the input so the user can keep editing it.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" || m.snapshot.Busy {
		return m, nil
	}

	m.textarea.Reset()
	m.status = ""
	return m, m.submitCmd(text)
}

func (m Model) handleDocumentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	docs := m.snapshot.Documents

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(docs)-1 {
			m.selected++
		}
	case "d", "delete":
		if len(docs) == 0 {
			return m, nil
		}
		return m, m.deleteCmd(docs[m.selected].Name)
	case "u":
		return m.openPicker()
	case "r":
		return m, m.refreshCmd()
	}

	return m, nil
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	if m.snapshot.Busy {
		m.status = "Wait for the current request to finish"
		return m, nil
	}

	height := m.filepicker.Height
	m.filepicker = newFilePicker(m.opts.UploadDir)
	m.filepicker.Height = height
	m.picking = true
	m.status = ""
	return m, m.filepicker.Init()
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.picking = false
		return m, tea.Batch(cmd, m.uploadCmd(path))
	}

	if didSelect, _ := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.status = "Only .pdf, .xlsx, .xls and .csv files can be uploaded"
		return m, cmd
	}

	return m, cmd
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialogs[0]

	switch d.kind {
	case dialogConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			d.reply <- true
		case "n", "N", "esc":
			d.reply <- false
		default:
			return m, nil
		}

	case dialogAlert:
		switch msg.String() {
		case "enter", "esc", " ":
			d.ack <- struct{}{}
		default:
			return m, nil
		}
	}

	m.dialogs = m.dialogs[1:]
	return m, nil
}

// answerAll declines every open dialog so blocked operations can return
func (m *Model) answerAll() {
	for _, d := range m.dialogs {
		switch d.kind {
		case dialogConfirm:
			d.reply <- false
		case dialogAlert:
			d.ack <- struct{}{}
		}
	}
	m.dialogs = nil
}
