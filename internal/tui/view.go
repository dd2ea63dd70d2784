package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/render"
	"github.com/futig/genie-client/internal/session"
)

const (
	emptyHistoryHint   = "Ask a question about your documents to get started."
	emptyDocumentsHint = "No documents uploaded yet. Press u to upload one."
	thinkingLabel      = "Thinking..."
	sliderSteps        = session.MaxResponseTimeout / session.ResponseTimeoutStep
)

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	switch {
	case len(m.dialogs) > 0:
		height := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
		body = lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.renderDialog(m.dialogs[0]))
	case m.snapshot.ActiveView == session.ViewDocuments:
		body = m.renderDocuments()
	default:
		body = m.renderChat()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	chatTab, docsTab := m.styles.Tab, m.styles.Tab
	if m.snapshot.ActiveView == session.ViewDocuments {
		docsTab = m.styles.ActiveTab
	} else {
		chatTab = m.styles.ActiveTab
	}

	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Header.Render("Genie"),
		chatTab.Render("Chat"),
		docsTab.Render(fmt.Sprintf("Documents (%d)", len(m.snapshot.Documents))),
	)
	return tabs + "\n"
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case len(m.dialogs) > 0 && m.dialogs[0].kind == dialogConfirm:
		help = "y confirm • n cancel"
	case len(m.dialogs) > 0:
		help = "enter dismiss"
	case m.picking:
		help = "↑/↓ move • enter select • ← back • esc cancel"
	case m.snapshot.ActiveView == session.ViewDocuments:
		help = "↑/↓ select • d delete • u upload • r refresh • tab chat • ctrl+c quit"
	case m.snapshot.SettingsOpen:
		help = "←/→ timeout • ctrl+o close settings • ctrl+l clear • ctrl+e export • ctrl+c quit"
	default:
		help = "enter send • alt+enter newline • tab documents • ctrl+o settings • ctrl+l clear • ctrl+e export • ctrl+c quit"
	}

	footer := m.styles.Footer.Render(help)
	if m.status != "" {
		footer = m.styles.Status.Render(m.status) + "\n" + footer
	}
	return footer
}

func (m Model) renderChat() string {
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.snapshot.Busy {
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render(thinkingLabel))
	}
	b.WriteString("\n")

	if m.snapshot.SettingsOpen {
		b.WriteString(m.renderSettings())
		b.WriteString("\n")
	}

	input := m.styles.Input
	if m.snapshot.Busy {
		input = m.styles.InputBusy
	}
	b.WriteString(input.Render(m.textarea.View()))

	return b.String()
}

func (m Model) renderSettings() string {
	timeout := m.snapshot.ResponseTimeout
	filled := timeout / session.ResponseTimeoutStep

	slider := m.styles.SliderFilled.Render(strings.Repeat("━", filled)) +
		m.styles.SliderEmpty.Render(strings.Repeat("─", sliderSteps-filled))

	lines := []string{
		"Response timeout",
		fmt.Sprintf("%s %s", slider, session.TimeoutLabel(timeout)),
		m.styles.Muted.Render(session.TimeoutDescription(timeout)),
	}
	return m.styles.Settings.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDocuments() string {
	if m.picking {
		return "Pick a document to upload (.pdf .xlsx .xls .csv)\n\n" + m.filepicker.View()
	}

	docs := m.snapshot.Documents
	if len(docs) == 0 {
		return m.styles.Muted.Render(emptyDocumentsHint)
	}

	var b strings.Builder
	for i, doc := range docs {
		if i == m.selected {
			b.WriteString(m.styles.SelectedDocument.Render("› " + doc.Name))
		} else {
			b.WriteString(m.styles.Document.Render(doc.Name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDialog(d dialog) string {
	var title, hint string
	switch d.kind {
	case dialogConfirm:
		title, hint = m.styles.DialogTitle.Render("Confirm"), "[y] Yes   [n] No"
	default:
		title, hint = m.styles.AlertTitle.Render("Notice"), "[enter] OK"
	}

	width := min(max(m.width/2, 30), 60)
	text := lipgloss.NewStyle().Width(width).Render(d.text)
	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, title, text, "", m.styles.Muted.Render(hint)))
}

func (m Model) renderHistory() string {
	history := m.snapshot.History
	if len(history) == 0 {
		return m.styles.Muted.Render(emptyHistoryHint)
	}

	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteString("\n")
		}

		if turn.Role == entity.RoleUser {
			b.WriteString(m.styles.UserLabel.Render("You") + "\n")
			b.WriteString(m.styles.UserMessage.Render(strings.Join(render.Lines(turn.Content), "\n")))
			b.WriteString("\n")
			continue
		}

		b.WriteString(m.styles.AssistantLabel.Render("Genie") + "\n")
		b.WriteString(m.renderMessage(turn.Content))
	}
	return b.String()
}

// renderMessage shows prose as plain text, one display line per newline,
// and hands only code segments to glamour for highlighting
func (m Model) renderMessage(content string) string {
	var b strings.Builder

	for _, seg := range render.Segments(content) {
		switch seg.Kind {
		case render.KindCode:
			b.WriteString(m.safeRenderMarkdown(render.Fenced(seg)))
		default:
			if strings.TrimSpace(seg.Text) == "" {
				continue
			}
			b.WriteString(m.styles.ReplyText.Render(strings.Join(render.Lines(seg.Text), "\n")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// safeRenderMarkdown falls back to the raw text when glamour fails or panics
func (m Model) safeRenderMarkdown(text string) (out string) {
	if m.renderer == nil {
		return text + "\n"
	}

	defer func() {
		if r := recover(); r != nil {
			out = text + "\n"
		}
	}()

	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return rendered
}
