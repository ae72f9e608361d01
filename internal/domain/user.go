package domain

// UnknownUserLabel is shown wherever a ticket's owner cannot be resolved.
const UnknownUserLabel = "Unknown User"

// User is a ticket owner as delivered by the feed.
type User struct {
	ID        UserRef `json:"id"`
	Name      string  `json:"name"`
	Available bool    `json:"available"`
}

// UserIndex resolves user references to display names.
type UserIndex map[UserRef]string

// IndexUsers builds an id to name index. When an id repeats, the first entry wins.
func IndexUsers(users []User) UserIndex {
	idx := make(UserIndex, len(users))
	for _, u := range users {
		if _, exists := idx[u.ID]; exists {
			continue
		}
		idx[u.ID] = u.Name
	}
	return idx
}

// Name returns the display name for ref, or UnknownUserLabel. A user with an
// empty name is treated as unresolved.
func (idx UserIndex) Name(ref UserRef) string {
	if name, ok := idx[ref]; ok && name != "" {
		return name
	}
	return UnknownUserLabel
}
