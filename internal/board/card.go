package board

import "github.com/spec-kit/kanban-board/internal/domain"

// Card is the display form of a ticket.
type Card struct {
	ID            string
	Title         string
	Status        string
	Tags          []string
	UserName      string
	Priority      int
	PriorityLabel string
	PriorityClass string
	PriorityIcon  string
}

// NewCard resolves the owner name and priority presentation for t.
func NewCard(t domain.Ticket, users domain.UserIndex) Card {
	level := domain.PriorityOf(t.Priority)
	return Card{
		ID:            t.ID,
		Title:         t.Title,
		Status:        t.Status,
		Tags:          t.Tag,
		UserName:      users.Name(t.UserID),
		Priority:      t.Priority,
		PriorityLabel: level.Label,
		PriorityClass: level.Class,
		PriorityIcon:  level.Icon,
	}
}

// Column is a labelled list of cards.
type Column struct {
	Label string
	Cards []Card
}

// Columns renders every group of view as cards.
func Columns(view domain.GroupedView, users []domain.User) []Column {
	idx := domain.IndexUsers(users)
	cols := make([]Column, 0, len(view.Groups))
	for _, g := range view.Groups {
		col := Column{Label: g.Label, Cards: make([]Card, 0, len(g.Tickets))}
		for _, t := range g.Tickets {
			col.Cards = append(col.Cards, NewCard(t, idx))
		}
		cols = append(cols, col)
	}
	return cols
}
