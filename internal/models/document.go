package models

import (
	"encoding/json"
	"time"
)

// Document is the single persisted unit holding every collection and the
// settings. Version is the optimistic-concurrency token: a save is accepted
// only when the stored version still equals the version the document was
// loaded with.
type Document struct {
	Version     int64        `json:"version"`
	Users       []User       `json:"users"`
	Posts       []Post       `json:"posts"`
	Messages    []Message    `json:"messages"`
	Stories     []Story      `json:"stories"`
	Novels      []Novel      `json:"novels"`
	Settings    Settings     `json:"settings"`
	Screenshots []Screenshot `json:"screenshots"`
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	b, err := json.Marshal(d)
	if err != nil {
		// Document holds only JSON-safe values.
		panic(err)
	}
	var c Document
	if err := json.Unmarshal(b, &c); err != nil {
		panic(err)
	}
	return &c
}

// UserByID returns the user with the given id, if any.
func (d *Document) UserByID(id ID) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// UserByUsername returns the user with the given name, if any.
func (d *Document) UserByUsername(username string) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// ResolveUser returns the referenced user or the UnknownUser placeholder.
func (d *Document) ResolveUser(id ID) User {
	if u, ok := d.UserByID(id); ok {
		return *u
	}
	return UnknownUser(id)
}

// PurgeExpired drops expired stories and screenshot logs older than
// ScreenshotRetention. It returns how many items were removed.
func (d *Document) PurgeExpired(now time.Time) int {
	before := len(d.Stories) + len(d.Screenshots)

	d.Stories = Filter(d.Stories, func(s Story) bool { return s.ActiveAt(now) })

	cutoff := now.Add(-ScreenshotRetention)
	d.Screenshots = Filter(d.Screenshots, func(s Screenshot) bool { return s.Timestamp.After(cutoff) })

	return before - len(d.Stories) - len(d.Screenshots)
}

// Filter returns the elements of items for which keep is true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
