package sse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/leaderboard-go/internal/testutil"
)

// clientCountWithin polls for up to a second for the hub to report want clients
func clientCountWithin(hub *Hub, want int) int {
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return hub.ClientCount()
}

func TestServeSSE_InitialRunsAfterRegistration(t *testing.T) {
	hub := newRunningHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	clientsAtSnapshot := -1
	ServeSSE(rr, req, hub, func() ([]byte, error) {
		clientsAtSnapshot = clientCountWithin(hub, 1)
		// Ends the stream once the first flush is done
		cancel()
		return formatSSEMessage("snapshot", "state"), nil
	})

	if clientsAtSnapshot != 1 {
		t.Fatalf("ClientCount() when taking snapshot = %d, want 1", clientsAtSnapshot)
	}
	body := rr.Body.String()
	connected := strings.Index(body, "event: connected")
	snapshot := strings.Index(body, "event: snapshot\ndata: state\n\n")
	if connected < 0 || snapshot < connected {
		t.Errorf("expected connected event followed by snapshot, got %q", body)
	}
	if !strings.HasPrefix(body, "retry: 3000\n") {
		t.Errorf("expected retry hint first, got %q", body)
	}
}

func TestServeSSE_InitialError(t *testing.T) {
	hub := newRunningHub(t)
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rr := httptest.NewRecorder()

	ServeSSE(rr, req, hub, func() ([]byte, error) {
		return nil, errors.New("boom")
	})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if ct := rr.Header().Get("Content-Type"); ct == "text/event-stream" {
		t.Errorf("error response sent as event stream")
	}
	waitForClients(t, hub, 0)
}

func TestServeSSE_ClosedHub(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	hub.Close()

	called := false
	rr := httptest.NewRecorder()
	ServeSSE(rr, httptest.NewRequest(http.MethodGet, "/events", nil), hub, func() ([]byte, error) {
		called = true
		return nil, nil
	})

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if called {
		t.Error("initial called for a client the hub never accepted")
	}
}
