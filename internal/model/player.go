package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered leaderboard participant
type Player struct {
	ID        PlayerID
	Username  string // exact-match unique, immutable
	Score     int    // never decreases
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that can be handed out without sharing storage state
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
