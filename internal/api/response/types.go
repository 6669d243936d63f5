package response

import (
	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
)

// RegisterResponse is the response for registration.
// Player fields are only present when the username was available.
type RegisterResponse struct {
	Available bool    `json:"available"`
	UserID    *string `json:"userId,omitempty"`
	Username  *string `json:"username,omitempty"`
	Score     *int    `json:"score,omitempty"`
}

// RegisterResponseFromResult converts a registry.RegisterResult
func RegisterResponseFromResult(r *registry.RegisterResult) RegisterResponse {
	if !r.Available || r.Player == nil {
		return RegisterResponse{Available: false}
	}
	id := string(r.Player.ID)
	username := r.Player.Username
	score := r.Player.Score
	return RegisterResponse{
		Available: true,
		UserID:    &id,
		Username:  &username,
		Score:     &score,
	}
}

// PlayerResponse is a player's data together with their rank
type PlayerResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// PlayerResponseFromStanding converts a model.Standing
func PlayerResponseFromStanding(s *model.Standing) PlayerResponse {
	return PlayerResponse{
		UserID:   string(s.Player.ID),
		Username: s.Player.Username,
		Score:    s.Player.Score,
		Rank:     s.Rank,
	}
}

// LeaderboardEntry is a single leaderboard row
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// LeaderboardResponse is the response for the leaderboard endpoint
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardResponseFromModel converts leaderboard rows; the list is never null
func LeaderboardResponseFromModel(entries []model.LeaderboardEntry) LeaderboardResponse {
	rows := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardEntry{
			Rank:     e.Rank,
			Username: e.Username,
			Score:    e.Score,
		}
	}
	return LeaderboardResponse{Leaderboard: rows}
}

// MessageResponse carries a human readable outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}
