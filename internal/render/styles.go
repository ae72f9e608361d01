// Package render draws a board as columns of cards for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

var (
	colorFg      = lipgloss.Color("#c0caf5")
	colorMuted   = lipgloss.Color("#565f89")
	colorBorder  = lipgloss.Color("#3b4261")
	colorLow     = lipgloss.Color("#9ece6a")
	colorMedium  = lipgloss.Color("#e0af68")
	colorHigh    = lipgloss.Color("#ff9e64")
	colorUrgent  = lipgloss.Color("#f7768e")
	colorHeading = lipgloss.Color("#7aa2f7")
)

// priorityColor keys off the card's priority class so out-of-range values
// share the "no priority" look.
func priorityColor(class string) lipgloss.Color {
	switch class {
	case "priority-low":
		return colorLow
	case "priority-medium":
		return colorMedium
	case "priority-high":
		return colorHigh
	case "priority-urgent":
		return colorUrgent
	default:
		return colorMuted
	}
}

var (
	styleHeading = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
	styleID      = lipgloss.NewStyle().Foreground(colorMuted)
	styleTitle   = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleCard    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)
