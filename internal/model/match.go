package model

import "time"

// Match holds the location and kick-off time of the single upcoming match.
// At most one Match exists; writes replace it.
type Match struct {
	Location string
	Time     *time.Time // nil until scheduled
}

// DefaultMatch is returned when no match has been saved yet
func DefaultMatch() *Match {
	return &Match{Location: "", Time: nil}
}

// Clone returns a deep copy of the match
func (m *Match) Clone() *Match {
	c := Match{Location: m.Location}
	if m.Time != nil {
		t := *m.Time
		c.Time = &t
	}
	return &c
}
