// Package board turns a ticket snapshot into kanban columns.
package board

import (
	"cmp"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spec-kit/kanban-board/internal/domain"
)

// labelFunc derives the column label for a ticket.
type labelFunc func(domain.Ticket) string

// GroupAndSort buckets tickets by groupBy and orders every bucket by sortBy.
//
// Modes are matched case-insensitively and the view reports the modes
// applied. Unknown grouping modes group by status. Unknown sort modes keep
// input order. Nothing is grouped until both tickets and users are present, so an
// empty list on either side yields an empty view. Inputs are not modified.
func GroupAndSort(tickets []domain.Ticket, users []domain.User, groupBy domain.GroupingMode, sortBy domain.SortMode) domain.GroupedView {
	groupBy, _ = domain.ParseGroupingMode(string(groupBy))
	sortBy, _ = domain.ParseSortMode(string(sortBy))
	view := domain.GroupedView{GroupBy: groupBy, SortBy: sortBy, Groups: []domain.Group{}}
	if len(tickets) == 0 || len(users) == 0 {
		return view
	}

	label := labelerFor(groupBy, users)
	positions := make(map[string]int)
	for _, t := range tickets {
		key := label(t)
		pos, ok := positions[key]
		if !ok {
			pos = len(view.Groups)
			positions[key] = pos
			view.Groups = append(view.Groups, domain.Group{Label: key})
		}
		view.Groups[pos].Tickets = append(view.Groups[pos].Tickets, t)
	}

	order := comparatorFor(sortBy)
	if order == nil {
		return view
	}
	for i := range view.Groups {
		slices.SortStableFunc(view.Groups[i].Tickets, order)
	}
	return view
}

func labelerFor(mode domain.GroupingMode, users []domain.User) labelFunc {
	switch mode {
	case domain.GroupByUser:
		idx := domain.IndexUsers(users)
		return func(t domain.Ticket) string { return idx.Name(t.UserID) }
	case domain.GroupByPriority:
		// Raw value; the human label is applied when cards are rendered.
		return func(t domain.Ticket) string { return strconv.Itoa(t.Priority) }
	default:
		return func(t domain.Ticket) string { return t.Status }
	}
}

func comparatorFor(mode domain.SortMode) func(a, b domain.Ticket) int {
	switch mode {
	case domain.SortByPriority:
		return func(a, b domain.Ticket) int { return cmp.Compare(b.Priority, a.Priority) }
	case domain.SortByTitle:
		col := collate.New(language.English)
		return func(a, b domain.Ticket) int { return col.CompareString(a.Title, b.Title) }
	default:
		return nil
	}
}
