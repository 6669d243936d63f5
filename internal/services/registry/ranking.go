package registry

import (
	"cmp"
	"slices"

	"github.com/mcoot/leaderboard-go/internal/model"
)

// rankPlayers orders players by score descending. The sort is stable, so players
// with equal scores keep the order they were given in (registration order).
func rankPlayers(players []*model.Player) []*model.Player {
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, func(a, b *model.Player) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// rankOf returns the 1-based rank of id within ranked, or 0 if it is absent
func rankOf(ranked []*model.Player, id model.PlayerID) int {
	idx := slices.IndexFunc(ranked, func(p *model.Player) bool {
		return p.ID == id
	})
	return idx + 1
}

// topEntries builds leaderboard rows for the first n ranked players
func topEntries(ranked []*model.Player, n int) []model.LeaderboardEntry {
	n = min(n, len(ranked))
	entries := make([]model.LeaderboardEntry, n)
	for i, p := range ranked[:n] {
		entries[i] = model.LeaderboardEntry{
			Rank:     i + 1,
			Username: p.Username,
			Score:    p.Score,
		}
	}
	return entries
}
