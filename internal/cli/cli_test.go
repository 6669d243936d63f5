package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/leaderboard-go/internal/api"
	"github.com/mcoot/leaderboard-go/internal/factory"
	"github.com/mcoot/leaderboard-go/internal/testutil"
	"github.com/mcoot/leaderboard-go/internal/web"
)

// newTestServer serves the API and web routers the way the server binary mounts them
func newTestServer(t *testing.T) (*httptest.Server, *factory.App) {
	t.Helper()

	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	go app.Hub.Run()

	logger := testutil.NopLogger()
	apiRouter := api.NewRouter(api.RouterConfig{Logger: logger, RegistryService: app.RegistryService})
	webRouter := web.NewRouter(web.RouterConfig{Logger: logger, RegistryService: app.RegistryService, Hub: app.Hub})

	mux := http.NewServeMux()
	mux.Handle("/players/", apiRouter)
	mux.Handle("/health", apiRouter)
	mux.Handle("/", webRouter)
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		app.Hub.Close()
		server.Close()
		_ = app.Close()
	})
	return server, app
}

// run executes lbctl with args against serverURL and returns stdout
func run(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	return runContext(t, context.Background(), serverURL, args...)
}

func runContext(t *testing.T, ctx context.Context, serverURL string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--server", serverURL}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func registerJSON(t *testing.T, serverURL, username string) RegisterResult {
	t.Helper()
	out, err := run(t, serverURL, "-o", "json", "register", username)
	require.NoError(t, err)
	var result RegisterResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	return result
}

func TestRegister(t *testing.T) {
	server, _ := newTestServer(t)

	result := registerJSON(t, server.URL, "alice")
	assert.True(t, result.Available)
	assert.Equal(t, "alice", result.Username)
	assert.NotEmpty(t, result.UserID)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0, *result.Score)

	dup := registerJSON(t, server.URL, "alice")
	assert.False(t, dup.Available)
	assert.Empty(t, dup.UserID)
}

func TestRegisterText(t *testing.T) {
	server, _ := newTestServer(t)

	out, err := run(t, server.URL, "register", "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Registered: alice ("))

	out, err = run(t, server.URL, "register", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Username is already taken\n", out)
}

func TestScoreAndPlayer(t *testing.T) {
	server, _ := newTestServer(t)
	alice := registerJSON(t, server.URL, "alice")
	bob := registerJSON(t, server.URL, "bob")

	_, err := run(t, server.URL, "score", alice.UserID, "50")
	require.NoError(t, err)
	_, err = run(t, server.URL, "score", bob.UserID, "70")
	require.NoError(t, err)
	// Lower scores are accepted but ignored
	_, err = run(t, server.URL, "score", alice.UserID, "10")
	require.NoError(t, err)

	out, err := run(t, server.URL, "-o", "json", "player", alice.UserID)
	require.NoError(t, err)
	var info PlayerInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, PlayerInfo{UserID: alice.UserID, Username: "alice", Score: 50, Rank: 2}, info)

	out, err = run(t, server.URL, "player", bob.UserID)
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 70")
	assert.Contains(t, out, "Rank: 1")
}

func TestScoreLegacy(t *testing.T) {
	server, _ := newTestServer(t)
	alice := registerJSON(t, server.URL, "alice")

	out, err := run(t, server.URL, "-o", "json", "score", "--legacy", alice.UserID, "40")
	require.NoError(t, err)
	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &msg))
	assert.NotEmpty(t, msg["message"])

	out, err = run(t, server.URL, "-o", "json", "player", alice.UserID)
	require.NoError(t, err)
	assert.Contains(t, out, `"score": 40`)
}

func TestScoreLegacyUnknownPlayer(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := run(t, server.URL, "score", "--legacy", "missing", "10")
	assert.ErrorContains(t, err, "Player not found. (HTTP 404)")
}

func TestScoreInvalidValue(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := run(t, server.URL, "score", "some-id", "lots")
	assert.ErrorContains(t, err, "invalid score")
}

func TestUnknownPlayer(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := run(t, server.URL, "player", "missing")
	assert.ErrorContains(t, err, "PLAYER_NOT_FOUND")

	_, err = run(t, server.URL, "score", "missing", "10")
	assert.ErrorContains(t, err, "PLAYER_NOT_FOUND")
}

func TestScoreIDNeedingEscape(t *testing.T) {
	server, _ := newTestServer(t)

	for _, id := range []string{"a/b", "two words", "q?x=1"} {
		_, err := run(t, server.URL, "score", id, "10")
		assert.ErrorContains(t, err, "PLAYER_NOT_FOUND", id)
	}
}

func TestLeaderboard(t *testing.T) {
	server, _ := newTestServer(t)

	out, err := run(t, server.URL, "leaderboard")
	require.NoError(t, err)
	assert.Equal(t, "No players yet.\n", out)

	for i, name := range []string{"alice", "bob", "carol"} {
		p := registerJSON(t, server.URL, name)
		_, err := run(t, server.URL, "score", p.UserID, strings.Repeat("1", i+1))
		require.NoError(t, err)
	}

	out, err = run(t, server.URL, "-o", "json", "leaderboard")
	require.NoError(t, err)
	var lb Leaderboard
	require.NoError(t, json.Unmarshal([]byte(out), &lb))
	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, Username: "carol", Score: 111},
		{Rank: 2, Username: "bob", Score: 11},
		{Rank: 3, Username: "alice", Score: 1},
	}, lb.Leaderboard)

	out, err = run(t, server.URL, "leaderboard")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"RANK", "PLAYER", "SCORE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "carol", "111"}, strings.Fields(lines[1]))
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)
	registerJSON(t, server.URL, "alice")

	out, err := run(t, server.URL, "-o", "json", "health")
	require.NoError(t, err)
	var health HealthResult
	require.NoError(t, json.Unmarshal([]byte(out), &health))
	assert.Equal(t, HealthResult{Status: "ok", Players: 1}, health)
}

func TestInvalidOutputFormat(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := run(t, server.URL, "-o", "yaml", "health")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestServerUnreachable(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "health")
	assert.ErrorContains(t, err, "request failed")
}

func TestWatch(t *testing.T) {
	server, app := newTestServer(t)
	registerJSON(t, server.URL, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		// The initial leaderboard plus one change
		out, err := runContext(t, ctx, server.URL, "-o", "json", "watch", "-n", "2")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool { return app.Hub.ClientCount() == 1 },
		2*time.Second, 5*time.Millisecond)
	// Register directly: the CLI's package state belongs to the running watch
	_, err := app.RegistryService.Register(context.Background(), "bob")
	require.NoError(t, err)

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		t.Fatal("watch did not finish")
	}
	require.NoError(t, r.err)

	lines := strings.Split(strings.TrimSpace(r.out), "\n")
	require.Len(t, lines, 3)

	var events []SSEEvent
	for _, line := range lines {
		var ev SSEEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	assert.Equal(t, "connected", events[0].Event)
	assert.Equal(t, updateEvent, events[1].Event)
	assert.Equal(t, []LeaderboardEntry{{Rank: 1, Username: "alice", Score: 0}}, events[1].Leaderboard)
	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, Username: "alice", Score: 0},
		{Rank: 2, Username: "bob", Score: 0},
	}, events[2].Leaderboard)
}

func TestParseLeaderboardHTML(t *testing.T) {
	entries, err := parseLeaderboardHTML(`<table><tbody>` +
		`<tr class="entry"><td class="rank">1</td><td class="username">a &amp; b</td><td class="score">9</td></tr>` +
		`</tbody></table>`)
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardEntry{{Rank: 1, Username: "a & b", Score: 9}}, entries)

	entries, err = parseLeaderboardHTML(`<p class="empty">No players yet.</p>`)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = parseLeaderboardHTML(`<table><tr class="entry"><td class="rank">x</td></tr></table>`)
	assert.Error(t, err)
}
