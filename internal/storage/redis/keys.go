package redis

import (
	"fmt"

	"github.com/mcoot/leaderboard-go/internal/model"
)

// Key prefix for all leaderboard data
const keyPrefix = "lboard"

// playerKey returns the key of the hash holding a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the key for the username -> player_id claim
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// rosterKey returns the key of the LIST of player ids in registration order
func rosterKey() string {
	return fmt.Sprintf("%s:roster", keyPrefix)
}
