package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		o.printRegisterResult(v)
	case PlayerInfo:
		o.printPlayerInfo(v)
	case Leaderboard:
		o.printLeaderboard(v.Leaderboard)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RegisterResult response type (matches API)
type RegisterResult struct {
	Available bool   `json:"available"`
	UserID    string `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	Score     *int   `json:"score,omitempty"`
}

// PlayerInfo response type
type PlayerInfo struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Leaderboard response type
type Leaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

func (o *Output) printRegisterResult(r RegisterResult) {
	if !r.Available {
		fmt.Fprintln(o.w, "Username is already taken")
		return
	}
	fmt.Fprintf(o.w, "Registered: %s (%s)\n", r.Username, r.UserID)
}

func (o *Output) printPlayerInfo(p PlayerInfo) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Username, p.UserID)
	fmt.Fprintf(o.w, "Score: %d\n", p.Score)
	fmt.Fprintf(o.w, "Rank: %d\n", p.Rank)
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(o.w, "No players yet.")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", e.Rank, e.Username, e.Score)
	}
	_ = tw.Flush()
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Players: %d\n", h.Players)
}
