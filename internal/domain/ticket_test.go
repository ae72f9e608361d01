package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRefAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		Tickets []Ticket `json:"tickets"`
		Users   []User   `json:"users"`
	}
	raw := `{
		"tickets": [
			{"id": "CAM-1", "title": "Fix login", "tag": ["Feature Request"], "userId": "usr-1", "status": "Todo", "priority": 4},
			{"id": "CAM-2", "title": "Audit logs", "userId": 7, "status": "Backlog", "priority": 1},
			{"id": "CAM-3", "title": "Orphan", "userId": null, "status": "Todo", "priority": 0}
		],
		"users": [{"id": "usr-1", "name": "Anoop Sharma", "available": false}, {"id": 7, "name": "Yogesh"}]
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	require.Len(t, payload.Tickets, 3)
	assert.Equal(t, UserRef("usr-1"), payload.Tickets[0].UserID)
	assert.Equal(t, UserRef("7"), payload.Tickets[1].UserID)
	assert.Equal(t, UserRef(""), payload.Tickets[2].UserID)
	assert.Equal(t, []string{"Feature Request"}, payload.Tickets[0].Tag)
	assert.Equal(t, UserRef("7"), payload.Users[1].ID)
}

func TestUserRefRejectsObjects(t *testing.T) {
	var ref UserRef
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &ref))
}

func TestPriorityOf(t *testing.T) {
	tests := []struct {
		priority int
		label    string
		class    string
	}{
		{0, "No Priority", "priority-no"},
		{1, "Low", "priority-low"},
		{2, "Medium", "priority-medium"},
		{3, "High", "priority-high"},
		{4, "Urgent", "priority-urgent"},
		{5, "No Priority", "priority-no"},
		{-1, "No Priority", "priority-no"},
	}
	for _, tt := range tests {
		level := PriorityOf(tt.priority)
		assert.Equal(t, tt.label, level.Label, "priority %d", tt.priority)
		assert.Equal(t, tt.class, level.Class, "priority %d", tt.priority)
	}
}

func TestUserIndexName(t *testing.T) {
	idx := IndexUsers([]User{
		{ID: "1", Name: "Alice"},
		{ID: "1", Name: "Shadowed"},
		{ID: "2", Name: ""},
	})

	assert.Equal(t, "Alice", idx.Name("1"))
	assert.Equal(t, UnknownUserLabel, idx.Name("2"))
	assert.Equal(t, UnknownUserLabel, idx.Name("99"))
}

func TestParseModes(t *testing.T) {
	mode, ok := ParseGroupingMode(" User ")
	assert.True(t, ok)
	assert.Equal(t, GroupByUser, mode)

	mode, ok = ParseGroupingMode("assignee")
	assert.False(t, ok)
	assert.Equal(t, GroupByStatus, mode)

	sortMode, ok := ParseSortMode("TITLE")
	assert.True(t, ok)
	assert.Equal(t, SortByTitle, sortMode)

	sortMode, ok = ParseSortMode("created")
	assert.False(t, ok)
	assert.Equal(t, SortMode("created"), sortMode)
}
