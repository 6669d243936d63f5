// Package handler contains the HTML and event-stream handlers for the web view.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/leaderboard-go/internal/services/registry"
	"github.com/mcoot/leaderboard-go/internal/web/sse"
	"github.com/mcoot/leaderboard-go/internal/web/templates"
)

const pageTitle = "Leaderboard"

// LeaderboardHandler serves the leaderboard page and its live update stream
type LeaderboardHandler struct {
	registry  *registry.Service
	hub       *sse.Hub
	eventsURL string
	logger    *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(registryService *registry.Service, hub *sse.Hub, eventsURL string, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		registry:  registryService,
		hub:       hub,
		eventsURL: eventsURL,
		logger:    logger,
	}
}

// Page handles GET /
func (h *LeaderboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registry.GetLeaderboard(r.Context())
	if err != nil {
		h.logger.Error("failed to load leaderboard", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := templates.PageData{Title: pageTitle, Entries: entries}
	if h.hub != nil {
		data.EventsURL = h.eventsURL
	}
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render leaderboard page", slog.Any("error", err))
	}
}

// Events handles GET /events. The current leaderboard is sent straight away
// so a page that reconnects catches up on changes it missed. It is read only
// after the hub has the client, so no change falls between the two.
func (h *LeaderboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.NotFound(w, r)
		return
	}

	sse.ServeSSE(w, r, h.hub, func() ([]byte, error) {
		entries, err := h.registry.GetLeaderboard(r.Context())
		if err != nil {
			h.logger.Error("failed to load leaderboard", slog.Any("error", err))
			return nil, err
		}
		update, err := sse.RenderUpdate(r.Context(), entries)
		if err != nil {
			h.logger.Error("failed to render leaderboard update", slog.Any("error", err))
			return nil, err
		}
		return update, nil
	})
}
