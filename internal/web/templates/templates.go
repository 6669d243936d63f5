// Package templates renders the HTML leaderboard views as templ components.
// Components live in .templ files; run `templ generate` after editing them.
package templates

import "github.com/mcoot/leaderboard-go/internal/model"

// LeaderboardID is the element id of the live leaderboard container
const LeaderboardID = "leaderboard"

// UpdateEvent is the SSE event name carrying a re-rendered LeaderboardTable
const UpdateEvent = "leaderboard-update"

// PageData holds the data for the leaderboard page
type PageData struct {
	Title   string
	Entries []model.LeaderboardEntry
	// EventsURL is the event stream the page subscribes to; empty disables live updates
	EventsURL string
}
