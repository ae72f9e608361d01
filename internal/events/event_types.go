package events

import (
	"time"

	"github.com/spec-kit/kanban-board/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSnapshotReplaced   EventType = "snapshot_replaced"
	EventFetchFailed        EventType = "fetch_failed"
	EventPreferencesChanged EventType = "preferences_changed"
)

// Event represents a board event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// SnapshotReplacedPayload payload.
type SnapshotReplacedPayload struct {
	Origin      string `json:"origin"`
	TicketCount int    `json:"ticket_count"`
	UserCount   int    `json:"user_count"`
}

// FetchFailedPayload payload.
type FetchFailedPayload struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// PreferencesChangedPayload payload.
type PreferencesChangedPayload struct {
	GroupBy domain.GroupingMode `json:"group_by"`
	SortBy  domain.SortMode     `json:"sort_by"`
}
