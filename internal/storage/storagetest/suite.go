// Package storagetest holds the behavioural suite every storage backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/storage"
)

// Suite runs the shared storage tests against the backend returned by NewStorage.
// Backends embed it and set NewStorage before suite.Run.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
	Now     time.Time
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
	s.Now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) newPlayer(id, username string) *model.Player {
	return &model.Player{
		ID:        model.PlayerID(id),
		Username:  username,
		CreatedAt: s.Now,
		UpdatedAt: s.Now,
	}
}

// Create / get tests

func (s *Suite) TestCreateAndGetPlayer() {
	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), retrieved.ID)
	s.Equal("alice", retrieved.Username)
	s.Equal(0, retrieved.Score)
	s.True(s.Now.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerByUsername() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))

	retrieved, err := s.Storage.GetPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), retrieved.ID)
}

func (s *Suite) TestGetPlayerByUsernameIsCaseSensitive() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))

	_, err := s.Storage.GetPlayerByUsername(s.Ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerRejectsTakenUsername() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice")))

	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-2", "alice"))
	s.ErrorIs(err, model.ErrUsernameTaken)

	_, err = s.Storage.GetPlayer(s.Ctx, "p-2")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestCreatePlayerAcceptsEmptyUsername() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "")))

	retrieved, err := s.Storage.GetPlayerByUsername(s.Ctx, "")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), retrieved.ID)
}

func (s *Suite) TestReturnedPlayerIsACopy() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p-1")
	retrieved.Score = 999

	again, err := s.Storage.GetPlayer(s.Ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(0, again.Score)
}

// RaiseScore tests

func (s *Suite) TestRaiseScoreAppliesHigherScore() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))
	later := s.Now.Add(time.Minute)

	raised, err := s.Storage.RaiseScore(s.Ctx, "p-1", 50, later)
	s.Require().NoError(err)
	s.True(raised)

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p-1")
	s.Equal(50, retrieved.Score)
	s.True(later.Equal(retrieved.UpdatedAt))
}

func (s *Suite) TestRaiseScoreIgnoresLowerOrEqualScore() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))
	_, _ = s.Storage.RaiseScore(s.Ctx, "p-1", 50, s.Now)

	for _, score := range []int{10, 50, 0, -5} {
		raised, err := s.Storage.RaiseScore(s.Ctx, "p-1", score, s.Now)
		s.Require().NoError(err)
		s.False(raised, "score %d should not be applied", score)
	}

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p-1")
	s.Equal(50, retrieved.Score)
}

func (s *Suite) TestRaiseScoreNotFound() {
	raised, err := s.Storage.RaiseScore(s.Ctx, "nonexistent", 10, s.Now)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.False(raised)

	count, _ := s.Storage.CountPlayers(s.Ctx)
	s.Equal(0, count)
}

// List tests

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestListPlayersKeepsRegistrationOrder() {
	for i := 0; i < 5; i++ {
		p := s.newPlayer(fmt.Sprintf("p-%d", i), fmt.Sprintf("user%d", i))
		s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))
	}
	_, _ = s.Storage.RaiseScore(s.Ctx, "p-3", 30, s.Now)

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 5)
	for i, p := range players {
		s.Equal(model.PlayerID(fmt.Sprintf("p-%d", i)), p.ID)
	}
	s.Equal(30, players[3].Score)
}

func (s *Suite) TestConcurrentRaiseScoreKeepsMaximum() {
	_ = s.Storage.CreatePlayer(s.Ctx, s.newPlayer("p-1", "alice"))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, _ = s.Storage.RaiseScore(s.Ctx, "p-1", score, s.Now)
		}(i)
	}
	wg.Wait()

	retrieved, _ := s.Storage.GetPlayer(s.Ctx, "p-1")
	s.Equal(50, retrieved.Score)
}
