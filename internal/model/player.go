package model

import "time"

// PlayerID uniquely identifies a registered player
type PlayerID string

// Team is the side a player has been assigned to for the match
type Team string

const (
	TeamNone Team = ""  // Not yet assigned
	TeamA    Team = "A" // First side
	TeamB    Team = "B" // Second side
)

// MaxNameLength is the longest player name accepted, in characters
const MaxNameLength = 25

// Player is a single registration for the upcoming match
type Player struct {
	ID       PlayerID
	Name     string // unique across players
	HasPaid  bool
	Team     Team
	ClientID string // originating device, unique when non-empty
	// CreatedAt is set once at registration
	CreatedAt time.Time
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
