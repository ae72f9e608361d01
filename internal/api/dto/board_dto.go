package dto

import (
	"time"

	"github.com/spec-kit/kanban-board/internal/domain"
)

// BoardResponse is the grouped, sorted board.
type BoardResponse struct {
	GroupBy  domain.GroupingMode `json:"group_by"`
	SortBy   domain.SortMode     `json:"sort_by"`
	Groups   []GroupResponse     `json:"groups"`
	Snapshot SnapshotInfo        `json:"snapshot"`
}

// GroupResponse is one board column.
type GroupResponse struct {
	Label string         `json:"label"`
	Count int            `json:"count"`
	Cards []CardResponse `json:"cards"`
}

// CardResponse is a ticket as drawn on the board.
type CardResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	UserName      string   `json:"user_name"`
	Priority      int      `json:"priority"`
	PriorityLabel string   `json:"priority_label"`
	PriorityClass string   `json:"priority_class"`
	PriorityIcon  string   `json:"priority_icon"`
}

// SnapshotInfo describes where the board data came from.
type SnapshotInfo struct {
	Origin      string    `json:"origin"`
	LoadedAt    time.Time `json:"loaded_at"`
	TicketCount int       `json:"ticket_count"`
	UserCount   int       `json:"user_count"`
}

// PreferencesRequest payload.
type PreferencesRequest struct {
	GroupBy string `json:"group_by"`
	SortBy  string `json:"sort_by"`
}

// PreferencesResponse describes the stored modes and the options to choose from.
type PreferencesResponse struct {
	GroupBy         domain.GroupingMode     `json:"group_by"`
	SortBy          domain.SortMode         `json:"sort_by"`
	GroupingOptions []domain.GroupingMode   `json:"grouping_options"`
	SortOptions     []domain.SortMode       `json:"sort_options"`
	PriorityLevels  []PriorityLevelResponse `json:"priority_levels"`
}

// PriorityLevelResponse is one entry of the priority legend.
type PriorityLevelResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Class string `json:"class"`
	Icon  string `json:"icon"`
}

// TicketResponse is a raw ticket from the snapshot.
type TicketResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Priority int      `json:"priority"`
	UserID   string   `json:"user_id"`
	Tags     []string `json:"tags"`
}

// UserResponse is a raw user from the snapshot.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}
