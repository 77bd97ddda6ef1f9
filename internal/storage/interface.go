package storage

import (
	"context"

	"github.com/mcoot/kickoff/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations

	// ListPlayers returns every player, newest first
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	// CreatePlayer inserts a new player. It returns model.ErrNameTaken or
	// model.ErrClientIDRegistered if the insert would break uniqueness;
	// the check and the insert are atomic.
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// GetPlayerByName looks up a player by exact name
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	GetPlayerByClientID(ctx context.Context, clientID string) (*model.Player, error)
	// TogglePaid flips HasPaid and returns the updated player
	TogglePaid(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// DeletePlayer removes a player; deleting a missing player is not an error
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	// DeletePlayerByClientID removes and returns the player registered from
	// the given device, or model.ErrPlayerNotFound
	DeletePlayerByClientID(ctx context.Context, clientID string) (*model.Player, error)
	// AssignTeams sets every player's team from the assignment in a single
	// atomic operation. Players not in the assignment get model.TeamNone.
	AssignTeams(ctx context.Context, assignment model.TeamAssignment) error

	// Match operations
	GetMatch(ctx context.Context) (*model.Match, error)
	SaveMatch(ctx context.Context, match *model.Match) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
	Close() error
}
