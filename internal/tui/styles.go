package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Pending   = lipgloss.Color("#FFE66D") // Yellow
	Failed    = lipgloss.Color("#FF6B6B") // Red
	Overdue   = lipgloss.Color("#FFB347") // Orange

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Tabs
	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Bold(true).
			Padding(0, 2)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Failed).
			Bold(true).
			Padding(0, 1)

	// List
	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	ItemReadStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	// Placeholders
	EmptyStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Failed).
			Padding(1, 2)

	// Auth messages
	MessageErrorStyle   = lipgloss.NewStyle().Foreground(Failed)
	MessageSuccessStyle = lipgloss.NewStyle().Foreground(Completed)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Failed).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(14)
)

// statusStyle colors a task or notification status
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed", "read", "sent":
		return lipgloss.NewStyle().Foreground(Completed)
	case "failed":
		return lipgloss.NewStyle().Foreground(Failed).Bold(true)
	case "in_progress":
		return lipgloss.NewStyle().Foreground(Primary)
	default:
		return lipgloss.NewStyle().Foreground(Pending)
	}
}

// FormatStatus returns a colored status label
func FormatStatus(status string) string {
	return statusStyle(status).Render(status)
}
