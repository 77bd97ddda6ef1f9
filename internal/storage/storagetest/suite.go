// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

// Factory returns a fresh, empty storage for a single test
type Factory func(s *Suite) storage.Storage

// Suite runs the shared storage contract against one backend.
// Backends embed it or pass it to suite.Run with their own Factory.
type Suite struct {
	suite.Suite
	NewStorage Factory

	Storage storage.Storage
	Ctx     context.Context
	now     time.Time
}

// New creates a contract suite for the given backend factory
func New(factory Factory) *Suite {
	return &Suite{NewStorage: factory}
}

func (s *Suite) SetupTest() {
	s.Ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Storage = s.NewStorage(s)
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

// newPlayer builds a player created one second after the previous one
func (s *Suite) newPlayer(id, name, clientID string) *model.Player {
	s.now = s.now.Add(time.Second)
	return &model.Player{
		ID:        model.PlayerID(id),
		Name:      name,
		ClientID:  clientID,
		CreatedAt: s.now,
	}
}

func (s *Suite) mustCreate(id, name, clientID string) *model.Player {
	p := s.newPlayer(id, name, clientID)
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))
	return p
}

func (s *Suite) countPlayers() int {
	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	return len(players)
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	p := s.mustCreate("p1", "Alice", "device-1")

	got, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)
	s.Equal("Alice", got.Name)
	s.Equal("device-1", got.ClientID)
	s.False(got.HasPaid)
	s.Equal(model.TeamNone, got.Team)
	s.WithinDuration(p.CreatedAt, got.CreatedAt, time.Millisecond)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerDuplicateName() {
	s.mustCreate("p1", "Alice", "")

	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p2", "Alice", ""))
	s.ErrorIs(err, model.ErrNameTaken)
	s.Equal(1, s.countPlayers())
}

func (s *Suite) TestNameUniquenessIsCaseSensitive() {
	s.mustCreate("p1", "Alice", "")
	s.mustCreate("p2", "alice", "")
	s.Equal(2, s.countPlayers())
}

func (s *Suite) TestCreatePlayerDuplicateClientID() {
	s.mustCreate("p1", "Alice", "device-1")

	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p2", "Bob", "device-1"))
	s.ErrorIs(err, model.ErrClientIDRegistered)
	s.Equal(1, s.countPlayers())
}

func (s *Suite) TestPlayersWithoutClientIDDoNotConflict() {
	s.mustCreate("p1", "Alice", "")
	s.mustCreate("p2", "Bob", "")
	s.Equal(2, s.countPlayers())
}

func (s *Suite) TestConcurrentCreateWithSameNameAllowsOne() {
	const attempts = 8

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		p := s.newPlayer(fmt.Sprintf("p%d", i), "Alice", fmt.Sprintf("device-%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Storage.CreatePlayer(s.Ctx, p)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrNameTaken)
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.countPlayers())
}

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestListPlayersNewestFirst() {
	s.mustCreate("p1", "Alice", "")
	s.mustCreate("p2", "Bob", "")
	s.mustCreate("p3", "Carol", "")

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("p3"), players[0].ID)
	s.Equal(model.PlayerID("p2"), players[1].ID)
	s.Equal(model.PlayerID("p1"), players[2].ID)
}

func (s *Suite) TestGetPlayerByClientID() {
	s.mustCreate("p1", "Alice", "device-1")

	got, err := s.Storage.GetPlayerByClientID(s.Ctx, "device-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.ID)

	_, err = s.Storage.GetPlayerByClientID(s.Ctx, "device-2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerByName() {
	s.mustCreate("p1", "Alice", "device-1")
	s.mustCreate("p2", "Bob", "")

	got, err := s.Storage.GetPlayerByName(s.Ctx, "Bob")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p2"), got.ID)

	_, err = s.Storage.GetPlayerByName(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerByNameAfterDelete() {
	s.mustCreate("p1", "Alice", "")
	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "p1"))

	_, err := s.Storage.GetPlayerByName(s.Ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestTogglePaid() {
	s.mustCreate("p1", "Alice", "")

	updated, err := s.Storage.TogglePaid(s.Ctx, "p1")
	s.Require().NoError(err)
	s.True(updated.HasPaid)

	stored, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.True(stored.HasPaid)

	updated, err = s.Storage.TogglePaid(s.Ctx, "p1")
	s.Require().NoError(err)
	s.False(updated.HasPaid)
}

func (s *Suite) TestTogglePaidKeepsOtherFields() {
	s.mustCreate("p1", "Alice", "device-1")
	s.Require().NoError(s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{"p1": model.TeamA}))

	updated, err := s.Storage.TogglePaid(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", updated.Name)
	s.Equal("device-1", updated.ClientID)
	s.Equal(model.TeamA, updated.Team)
}

func (s *Suite) TestTogglePaidNotFound() {
	_, err := s.Storage.TogglePaid(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	s.mustCreate("p1", "Alice", "device-1")

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "p1"))

	_, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(0, s.countPlayers())
}

func (s *Suite) TestDeletePlayerReleasesNameAndDevice() {
	s.mustCreate("p1", "Alice", "device-1")
	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "p1"))

	s.mustCreate("p2", "Alice", "device-1")
	s.Equal(1, s.countPlayers())
}

func (s *Suite) TestDeleteMissingPlayerIsNotAnError() {
	s.NoError(s.Storage.DeletePlayer(s.Ctx, "missing"))
}

func (s *Suite) TestDeletePlayerByClientID() {
	s.mustCreate("p1", "Alice", "device-1")
	s.mustCreate("p2", "Bob", "device-2")

	deleted, err := s.Storage.DeletePlayerByClientID(s.Ctx, "device-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), deleted.ID)

	_, err = s.Storage.GetPlayerByClientID(s.Ctx, "device-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(1, s.countPlayers())
}

func (s *Suite) TestDeletePlayerByClientIDNotFound() {
	s.mustCreate("p1", "Alice", "device-1")

	_, err := s.Storage.DeletePlayerByClientID(s.Ctx, "device-2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(1, s.countPlayers())
}

// Team tests

func (s *Suite) teamOf(id model.PlayerID) model.Team {
	p, err := s.Storage.GetPlayer(s.Ctx, id)
	s.Require().NoError(err)
	return p.Team
}

func (s *Suite) TestAssignTeams() {
	s.mustCreate("p1", "Alice", "")
	s.mustCreate("p2", "Bob", "")
	s.mustCreate("p3", "Carol", "")

	err := s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{"p1": model.TeamA, "p2": model.TeamB})
	s.Require().NoError(err)

	s.Equal(model.TeamA, s.teamOf("p1"))
	s.Equal(model.TeamB, s.teamOf("p2"))
	s.Equal(model.TeamNone, s.teamOf("p3"))
}

func (s *Suite) TestAssignTeamsResetsPreviousAssignment() {
	s.mustCreate("p1", "Alice", "")
	s.mustCreate("p2", "Bob", "")
	s.Require().NoError(s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{"p1": model.TeamA, "p2": model.TeamB}))

	s.Require().NoError(s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{"p2": model.TeamA}))

	s.Equal(model.TeamNone, s.teamOf("p1"))
	s.Equal(model.TeamA, s.teamOf("p2"))
}

func (s *Suite) TestAssignTeamsIgnoresUnknownIDs() {
	s.mustCreate("p1", "Alice", "")

	err := s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{"ghost": model.TeamA, "p1": model.TeamB})
	s.Require().NoError(err)

	s.Equal(model.TeamB, s.teamOf("p1"))
	s.Equal(1, s.countPlayers())
}

func (s *Suite) TestAssignTeamsKeepsPayment() {
	s.mustCreate("p1", "Alice", "")
	_, err := s.Storage.TogglePaid(s.Ctx, "p1")
	s.Require().NoError(err)

	s.Require().NoError(s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{"p1": model.TeamA}))

	p, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.True(p.HasPaid)
}

func (s *Suite) TestAssignTeamsWithNoPlayers() {
	s.NoError(s.Storage.AssignTeams(s.Ctx, model.TeamAssignment{}))
}

// Match tests

func (s *Suite) TestGetMatchNotFound() {
	_, err := s.Storage.GetMatch(s.Ctx)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *Suite) TestSaveAndGetMatch() {
	kickoff := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, &model.Match{Location: "Pitch 3", Time: &kickoff}))

	got, err := s.Storage.GetMatch(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Pitch 3", got.Location)
	s.Require().NotNil(got.Time)
	s.WithinDuration(kickoff, *got.Time, 0)
}

func (s *Suite) TestSaveMatchOverwrites() {
	first := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, &model.Match{Location: "Pitch 3", Time: &first}))
	s.Require().NoError(s.Storage.SaveMatch(s.Ctx, &model.Match{Location: "Pitch 5", Time: nil}))

	got, err := s.Storage.GetMatch(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Pitch 5", got.Location)
	s.Nil(got.Time)
}

func (s *Suite) TestPing() {
	s.NoError(s.Storage.Ping(s.Ctx))
}
