package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserRef identifies a user. The feed sends it either as a JSON number or a
// JSON string; both normalize to the same textual form.
type UserRef string

// UnmarshalJSON accepts strings and numbers.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = UserRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user reference must be a string or number: %w", err)
	}
	*r = UserRef(n.String())
	return nil
}

func (r UserRef) String() string {
	return string(r)
}

// Ticket is a single work item shown on the board.
type Ticket struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Tag      []string `json:"tag,omitempty"`
	UserID   UserRef  `json:"userId"`
	Status   string   `json:"status"`
	Priority int      `json:"priority"`
}

// PriorityLevel is the display form of a ticket priority.
type PriorityLevel struct {
	Value int
	Label string
	Class string
	Icon  string
}

var priorityLevels = [...]PriorityLevel{
	{Value: 0, Label: "No Priority", Class: "priority-no", Icon: "No-priority.svg"},
	{Value: 1, Label: "Low", Class: "priority-low", Icon: "Img - Low Priority.svg"},
	{Value: 2, Label: "Medium", Class: "priority-medium", Icon: "Img - Medium Priority.svg"},
	{Value: 3, Label: "High", Class: "priority-high", Icon: "Img - High Priority.svg"},
	{Value: 4, Label: "Urgent", Class: "priority-urgent", Icon: "SVG - Urgent Priority colour.svg"},
}

// PriorityOf maps a raw priority to its display level. Values outside 0..4
// fall back to the "no priority" level.
func PriorityOf(priority int) PriorityLevel {
	if priority < 0 || priority >= len(priorityLevels) {
		return priorityLevels[0]
	}
	return priorityLevels[priority]
}

// PriorityLevels lists every known level, lowest first.
func PriorityLevels() []PriorityLevel {
	out := make([]PriorityLevel, len(priorityLevels))
	copy(out, priorityLevels[:])
	return out
}

