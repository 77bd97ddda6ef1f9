// Package roster manages player registrations, payment and team assignment.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/mcoot/kickoff/internal/dependencies/clock"
	"github.com/mcoot/kickoff/internal/dependencies/random"
	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

// Errors
var (
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = fmt.Errorf("name must be at most %d characters", model.MaxNameLength)
	ErrClientIDRequired = errors.New("clientId is required")
	ErrNotRegistered    = errors.New("no player registered from this device")
)

// Service handles the player roster
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	metrics metrics.Metrics
	logger  *slog.Logger
}

// New creates a new roster Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	metrics metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		metrics: metrics,
		logger:  logger,
	}
}

// List returns all players, newest first
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// ValidateName checks a display name is present and short enough.
// Length is counted in characters, not bytes.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// Register adds a player. clientID may be empty.
func (s *Service) Register(ctx context.Context, name, clientID string) (*model.Player, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	// The store enforces both rules atomically; this lookup only makes a
	// taken name win over a taken device when both apply.
	if clientID != "" {
		if err := s.checkNameFree(ctx, name); err != nil {
			return nil, err
		}
	}

	player := &model.Player{
		ID:        model.PlayerID(s.random.NewID()),
		Name:      name,
		HasPaid:   false,
		Team:      model.TeamNone,
		ClientID:  clientID,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.metrics.IncRegistrations()
	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
		slog.Bool("has_client_id", clientID != ""),
	)

	return player, nil
}

func (s *Service) checkNameFree(ctx context.Context, name string) error {
	_, err := s.storage.GetPlayerByName(ctx, name)
	switch {
	case err == nil:
		return model.ErrNameTaken
	case errors.Is(err, model.ErrPlayerNotFound):
		return nil
	default:
		return err
	}
}

// CheckStatus reports whether a player is registered from the device.
// An empty clientID is never registered.
func (s *Service) CheckStatus(ctx context.Context, clientID string) (bool, error) {
	if clientID == "" {
		return false, nil
	}
	_, err := s.storage.GetPlayerByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Unregister removes the player registered from the device
func (s *Service) Unregister(ctx context.Context, clientID string) (*model.Player, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}

	player, err := s.storage.DeletePlayerByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}

	s.metrics.IncUnregistrations()
	s.logger.Info("player unregistered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
	)

	return player, nil
}

// TogglePaid flips a player's payment flag
func (s *Service) TogglePaid(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	player, err := s.storage.TogglePaid(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player payment toggled",
		slog.String("player_id", string(player.ID)),
		slog.Bool("has_paid", player.HasPaid),
	)

	return player, nil
}

// Delete removes a player by id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}

	s.metrics.IncPlayersDeleted()
	s.logger.Info("player deleted", slog.String("player_id", string(id)))

	return nil
}

// SplitTeams resets every player's team and assigns the given ids.
// An id in both lists ends up in team B; unknown ids are ignored.
func (s *Service) SplitTeams(ctx context.Context, teamA, teamB []model.PlayerID) error {
	assignment := model.NewTeamAssignment(teamA, teamB)

	if err := s.storage.AssignTeams(ctx, assignment); err != nil {
		return err
	}

	s.metrics.IncTeamSplits()
	s.logger.Info("teams split",
		slog.Int("team_a_requested", len(teamA)),
		slog.Int("team_b_requested", len(teamB)),
	)

	return nil
}
