package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/storage"
	"github.com/mcoot/leaderboard-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		s.mini = miniredis.RunT(s.T())
		client := redis.NewClient(&redis.Options{
			Addr: s.mini.Addr(),
		})
		s.storage = NewWithClient(client, DefaultConfig())
		return s.storage
	}
	suite.Run(t, s)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestCreatePlayerWritesKeys() {
	p := &model.Player{ID: "p-1", Username: "alice", CreatedAt: s.Now, UpdatedAt: s.Now}
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, p))

	s.True(s.mini.Exists(playerKey("p-1")))
	id, err := s.mini.Get(usernameIndexKey("alice"))
	s.Require().NoError(err)
	s.Equal("p-1", id)

	roster, err := s.mini.List(rosterKey())
	s.Require().NoError(err)
	s.Equal([]string{"p-1"}, roster)
	s.Equal("0", s.mini.HGet(playerKey("p-1"), fieldScore))
}

func (s *StorageSuite) TestRaiseScoreUpdatesTimestamp() {
	p := &model.Player{ID: "p-1", Username: "alice", CreatedAt: s.Now, UpdatedAt: s.Now}
	_ = s.storage.CreatePlayer(s.Ctx, p)

	later := s.Now.Add(90 * time.Second)
	raised, err := s.storage.RaiseScore(s.Ctx, "p-1", 7, later)
	s.Require().NoError(err)
	s.True(raised)

	s.Equal("7", s.mini.HGet(playerKey("p-1"), fieldScore))
	retrieved, _ := s.storage.GetPlayer(s.Ctx, "p-1")
	s.True(later.Equal(retrieved.UpdatedAt))
	s.True(s.Now.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetPlayerWithCorruptScore() {
	s.mini.HSet(playerKey("p-1"), fieldID, "p-1", fieldUsername, "alice", fieldScore, "lots",
		fieldCreatedAt, "0", fieldUpdatedAt, "0")

	_, err := s.storage.GetPlayer(s.Ctx, "p-1")
	s.Error(err)
	s.NotErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersSkipsDanglingRosterEntries() {
	p := &model.Player{ID: "p-1", Username: "alice", CreatedAt: s.Now, UpdatedAt: s.Now}
	_ = s.storage.CreatePlayer(s.Ctx, p)
	_, _ = s.mini.Push(rosterKey(), "ghost")

	players, err := s.storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("p-1"), players[0].ID)
}

func (s *StorageSuite) TestCountPlayersSkipsDanglingRosterEntries() {
	p := &model.Player{ID: "p-1", Username: "alice", CreatedAt: s.Now, UpdatedAt: s.Now}
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, p))
	_, _ = s.mini.Push(rosterKey(), "ghost")

	count, err := s.storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	players, err := s.storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, count)
}

func (s *StorageSuite) TestStorageErrorsWhenServerDown() {
	s.mini.Close()

	_, err := s.storage.GetPlayer(s.Ctx, "p-1")
	s.Error(err)
	s.NotErrorIs(err, model.ErrPlayerNotFound)
}
