package domain

import "strings"

// GroupingMode selects how tickets are bucketed into columns.
type GroupingMode string

const (
	GroupByStatus   GroupingMode = "status"
	GroupByUser     GroupingMode = "user"
	GroupByPriority GroupingMode = "priority"
)

// DefaultGroupingMode applies when nothing valid was chosen.
const DefaultGroupingMode = GroupByStatus

// SortMode selects the ordering inside a column.
type SortMode string

const (
	SortByPriority SortMode = "priority"
	SortByTitle    SortMode = "title"
)

// DefaultSortMode applies when no preference has been stored yet.
const DefaultSortMode = SortByPriority

// GroupingModes lists the selectable grouping options in display order.
func GroupingModes() []GroupingMode {
	return []GroupingMode{GroupByStatus, GroupByUser, GroupByPriority}
}

// SortModes lists the selectable sort options in display order.
func SortModes() []SortMode {
	return []SortMode{SortByPriority, SortByTitle}
}

// ParseGroupingMode reports whether s names a known grouping mode.
func ParseGroupingMode(s string) (GroupingMode, bool) {
	mode := GroupingMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case GroupByStatus, GroupByUser, GroupByPriority:
		return mode, true
	}
	return DefaultGroupingMode, false
}

// ParseSortMode reports whether s names a known sort mode. Unknown values are
// returned unchanged so callers can still apply them as a no-op ordering.
func ParseSortMode(s string) (SortMode, bool) {
	mode := SortMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case SortByPriority, SortByTitle:
		return mode, true
	}
	return mode, false
}

// Group is one column of the board.
type Group struct {
	Label   string
	Tickets []Ticket
}

// GroupedView is the board: columns in the order their first ticket appeared.
type GroupedView struct {
	GroupBy GroupingMode
	SortBy  SortMode
	Groups  []Group
}

// Lookup returns the tickets under label.
func (v GroupedView) Lookup(label string) ([]Ticket, bool) {
	for _, g := range v.Groups {
		if g.Label == label {
			return g.Tickets, true
		}
	}
	return nil, false
}

// Labels returns the column labels in board order.
func (v GroupedView) Labels() []string {
	labels := make([]string, 0, len(v.Groups))
	for _, g := range v.Groups {
		labels = append(labels, g.Label)
	}
	return labels
}

// Len counts the tickets across all columns.
func (v GroupedView) Len() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Tickets)
	}
	return n
}
