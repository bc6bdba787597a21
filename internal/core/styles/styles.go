// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("#7aa2f7")
	ColorMuted   = lipgloss.Color("#565f89")
	ColorSuccess = lipgloss.Color("#9ece6a")
	ColorWarning = lipgloss.Color("#e0af68")
	ColorError   = lipgloss.Color("#f7768e")
)

var (
	// Title renders section headings.
	Title = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// Key renders ticket keys.
	Key = lipgloss.NewStyle().Bold(true)

	// Muted renders secondary detail lines.
	Muted = lipgloss.NewStyle().Foreground(ColorMuted)

	// Success, Warning, and Error color outcome words.
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Error   = lipgloss.NewStyle().Foreground(ColorError)

	// Panel frames verdict output.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
)

// ForVerdict colors a verdict status word.
func ForVerdict(status string) lipgloss.Style {
	switch status {
	case "DONE":
		return Success
	case "IN_PROGRESS":
		return Warning
	case "NOT_STARTED":
		return Error
	default:
		return Muted
	}
}

// ForTicketStatus colors a ticket lifecycle state.
func ForTicketStatus(status string) lipgloss.Style {
	switch status {
	case "completed":
		return Success
	case "in-progress":
		return Warning
	default:
		return lipgloss.NewStyle()
	}
}
