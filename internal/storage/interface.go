package storage

import (
	"context"
	"time"

	"github.com/mcoot/leaderboard-go/internal/model"
)

// Storage defines the interface for the player collection
type Storage interface {
	// CreatePlayer inserts a new player, claiming its username.
	// Returns model.ErrUsernameTaken if the username already belongs to a player.
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)

	// RaiseScore sets the player's score to score only if it is strictly greater than
	// the stored one, and reports whether it did.
	RaiseScore(ctx context.Context, id model.PlayerID, score int, at time.Time) (bool, error)

	// ListPlayers returns every player in registration order
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	CountPlayers(ctx context.Context) (int, error)
}
