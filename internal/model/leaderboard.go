package model

// Standing is a player together with their current rank
type Standing struct {
	Player Player
	Rank   int // 1-based
}

// LeaderboardEntry is a single row of the leaderboard
type LeaderboardEntry struct {
	Rank     int
	Username string
	Score    int
}
