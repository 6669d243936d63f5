package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/storage"
	"github.com/mcoot/leaderboard-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage { return New() }
	suite.Run(t, s)
}

func (s *StorageSuite) TestListPlayersDoesNotAliasInternalSlice() {
	mem := s.Storage.(*Storage)
	_ = mem.CreatePlayer(s.Ctx, s.newAlice())

	players, _ := mem.ListPlayers(s.Ctx)
	players[0] = nil

	again, err := mem.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.NotNil(again[0])
}

func (s *StorageSuite) newAlice() *model.Player {
	return &model.Player{ID: "p-1", Username: "alice", CreatedAt: s.Now}
}
