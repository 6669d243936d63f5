package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

const updateEvent = "leaderboard-update"

func newWatchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream leaderboard updates",
		Long: `Connect to the server's event stream and print the leaderboard every time it changes.

The current leaderboard is printed on connect. Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd.Context(), cmd.OutOrStdout(), count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many leaderboard updates (0 = unlimited)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time        time.Time          `json:"time"`
	Event       string             `json:"event"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
	Data        string             `json:"data,omitempty"`
}

func streamEvents(ctx context.Context, w io.Writer, count int) error {
	// SSE is on the web router, not the API router
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/events"

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	jsonOutput := cfg.Output == OutputJSON
	if !jsonOutput {
		fmt.Fprintf(w, "Connected to %s\n", cfg.ServerURL)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string
	updates := 0

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				if err := printEvent(w, currentEvent, strings.Join(dataLines, "\n"), jsonOutput); err != nil {
					return err
				}
				if currentEvent == updateEvent {
					updates++
					if count > 0 && updates >= count {
						return nil
					}
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			if !jsonOutput {
				fmt.Fprintln(w, "\nDisconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) error {
	now := time.Now()

	var entries []LeaderboardEntry
	if event == updateEvent {
		var err error
		entries, err = parseLeaderboardHTML(data)
		if err != nil {
			return fmt.Errorf("failed to parse leaderboard update: %w", err)
		}
	}

	if jsonOutput {
		evt := SSEEvent{Time: now, Event: event}
		if event == updateEvent {
			evt.Leaderboard = entries
			if evt.Leaderboard == nil {
				evt.Leaderboard = []LeaderboardEntry{}
			}
		} else {
			evt.Data = data
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	if event != updateEvent {
		fmt.Fprintf(w, "[%s] %s\n", timestamp, event)
		return nil
	}
	fmt.Fprintf(w, "[%s] leaderboard updated\n", timestamp)
	NewOutput(OutputText, w).printLeaderboard(entries)
	return nil
}

// parseLeaderboardHTML extracts rows from the rendered leaderboard table
func parseLeaderboardHTML(data string) ([]LeaderboardEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data))
	if err != nil {
		return nil, err
	}

	var entries []LeaderboardEntry
	var parseErr error
	doc.Find("tr.entry").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		rank, err := strconv.Atoi(strings.TrimSpace(row.Find(".rank").Text()))
		if err != nil {
			parseErr = fmt.Errorf("bad rank: %w", err)
			return false
		}
		score, err := strconv.Atoi(strings.TrimSpace(row.Find(".score").Text()))
		if err != nil {
			parseErr = fmt.Errorf("bad score: %w", err)
			return false
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     rank,
			Username: row.Find(".username").Text(),
			Score:    score,
		})
		return true
	})
	return entries, parseErr
}
