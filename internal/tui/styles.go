package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary     = lipgloss.Color("#8BC34A")
	colorAccent      = lipgloss.Color("#2196F3")
	colorMuted       = lipgloss.Color("#6b7785")
	colorBorder      = lipgloss.Color("#2a3850")
	colorDestructive = lipgloss.Color("#e53935")
	colorWarning     = lipgloss.Color("#FFC107")
)

// Styles groups every lipgloss style the model renders with
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Footer    lipgloss.Style
	Status    lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserMessage    lipgloss.Style
	ReplyText      lipgloss.Style
	Muted          lipgloss.Style
	Spinner        lipgloss.Style

	Input     lipgloss.Style
	InputBusy lipgloss.Style

	Settings     lipgloss.Style
	SliderFilled lipgloss.Style
	SliderEmpty  lipgloss.Style

	Document         lipgloss.Style
	SelectedDocument lipgloss.Style

	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	AlertTitle  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Underline(true).
			Padding(0, 2),

		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1),

		Status: lipgloss.NewStyle().
			Foreground(colorWarning).
			Padding(0, 1),

		UserLabel: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			PaddingLeft(2),

		ReplyText: lipgloss.NewStyle().
			PaddingLeft(2),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true),

		Spinner: lipgloss.NewStyle().
			Foreground(colorPrimary),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary),

		InputBusy: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(colorMuted),

		Settings: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorBorder).
			Padding(0, 1),

		SliderFilled: lipgloss.NewStyle().
			Foreground(colorPrimary),

		SliderEmpty: lipgloss.NewStyle().
			Foreground(colorBorder),

		Document: lipgloss.NewStyle().
			PaddingLeft(2),

		SelectedDocument: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 3),

		DialogTitle: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1),

		AlertTitle: lipgloss.NewStyle().
			Foreground(colorDestructive).
			Bold(true).
			MarginBottom(1),
	}
}
