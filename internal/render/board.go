package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/kanban-board/internal/board"
	"github.com/spec-kit/kanban-board/internal/domain"
)

// DefaultColumnWidth fits a typical ticket title on two lines.
const DefaultColumnWidth = 32

// Options controls layout.
type Options struct {
	ColumnWidth int
}

// Board renders the header line followed by the columns side by side.
func Board(view domain.GroupedView, cols []board.Column, opts Options) string {
	width := opts.ColumnWidth
	if width <= 0 {
		width = DefaultColumnWidth
	}

	header := styleMuted.Render(fmt.Sprintf("Group by: %s   Sort by: %s", view.GroupBy, view.SortBy))
	if len(cols) == 0 {
		return header + "\n" + styleMuted.Render("No tickets to show.") + "\n"
	}

	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		rendered = append(rendered, Column(col, width))
	}
	return header + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

// Column renders a heading and its cards stacked vertically.
func Column(col board.Column, width int) string {
	parts := make([]string, 0, len(col.Cards)+1)
	heading := fmt.Sprintf("%s %d", col.Label, len(col.Cards))
	parts = append(parts, styleHeading.Width(width).Render(heading))
	for _, card := range col.Cards {
		parts = append(parts, Card(card, width))
	}
	return lipgloss.NewStyle().MarginRight(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Card renders one ticket.
func Card(card board.Card, width int) string {
	// Border and padding take four cells.
	inner := width - 4
	if inner < 8 {
		inner = 8
	}

	lines := []string{
		styleID.Render(card.ID),
		styleTitle.Width(inner).Render(card.Title),
		styleMuted.Render(card.Status + " · " + card.UserName),
	}
	tag := lipgloss.NewStyle().Foreground(priorityColor(card.PriorityClass)).Render("● " + card.PriorityLabel)
	if len(card.Tags) > 0 {
		tag += " " + styleMuted.Render(strings.Join(card.Tags, ", "))
	}
	lines = append(lines, tag)

	return styleCard.Width(width - 2).Render(strings.Join(lines, "\n"))
}
