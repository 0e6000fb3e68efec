package report

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the report heading.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DA1F2"))

	// LabelStyle styles counter names.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Width(14)

	// ValueStyle styles counter values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5")).
			Bold(true)

	// DryRunStyle marks a report produced without touching the account.
	DryRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EED49F")).
			Bold(true).
			MarginLeft(1)

	// TimestampStyle styles tweet creation dates.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ErrorStyle styles erase failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// BoxStyle frames the whole report.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)
)
