package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*entry
	nameIndex     map[string]model.PlayerID
	clientIDIndex map[string]model.PlayerID
	match         *model.Match
	seq           uint64
}

// entry keeps insertion order so players created in the same instant
// still list newest first
type entry struct {
	player *model.Player
	seq    uint64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*entry),
		nameIndex:     make(map[string]model.PlayerID),
		clientIDIndex: make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*entry, 0, len(s.players))
	for _, e := range s.players {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.player.CreatedAt.Equal(b.player.CreatedAt) {
			return a.player.CreatedAt.After(b.player.CreatedAt)
		}
		return a.seq > b.seq
	})

	players := make([]*model.Player, len(entries))
	for i, e := range entries {
		players[i] = e.player.Clone()
	}
	return players, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nameIndex[player.Name]; ok {
		return model.ErrNameTaken
	}
	if player.ClientID != "" {
		if _, ok := s.clientIDIndex[player.ClientID]; ok {
			return model.ErrClientIDRegistered
		}
	}

	s.seq++
	s.players[player.ID] = &entry{player: player.Clone(), seq: s.seq}
	s.nameIndex[player.Name] = player.ID
	if player.ClientID != "" {
		s.clientIDIndex[player.ClientID] = player.ID
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return e.player.Clone(), nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	e, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return e.player.Clone(), nil
}

func (s *Storage) GetPlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.clientIDIndex[clientID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	e, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return e.player.Clone(), nil
}

func (s *Storage) TogglePaid(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	e.player.HasPaid = !e.player.HasPaid
	return e.player.Clone(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
	return nil
}

func (s *Storage) DeletePlayerByClientID(ctx context.Context, clientID string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.clientIDIndex[clientID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player := s.deleteLocked(id)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

// deleteLocked removes a player and its index entries. Caller holds mu.
func (s *Storage) deleteLocked(id model.PlayerID) *model.Player {
	e, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.players, id)
	delete(s.nameIndex, e.player.Name)
	if e.player.ClientID != "" {
		delete(s.clientIDIndex, e.player.ClientID)
	}
	return e.player
}

func (s *Storage) AssignTeams(ctx context.Context, assignment model.TeamAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.players {
		e.player.Team = assignment.TeamFor(id)
	}
	return nil
}

// Match operations

func (s *Storage) GetMatch(ctx context.Context) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.match == nil {
		return nil, model.ErrMatchNotFound
	}
	return s.match.Clone(), nil
}

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.match = match.Clone()
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// PlayerCount returns the number of stored players (for tests)
func (s *Storage) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
