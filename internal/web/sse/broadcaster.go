package sse

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/web/templates"
)

// Broadcaster pushes re-rendered leaderboards to SSE clients.
// It satisfies registry.Observer.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// LeaderboardChanged renders the leaderboard table and broadcasts it as a leaderboard-update event
func (b *Broadcaster) LeaderboardChanged(ctx context.Context, entries []model.LeaderboardEntry) {
	msg, err := RenderUpdate(ctx, entries)
	if err != nil {
		b.logger.Error("sse failed to render leaderboard", slog.Any("error", err))
		return
	}
	b.hub.Broadcast(msg)
}

// RenderUpdate renders entries as a complete leaderboard-update event
func RenderUpdate(ctx context.Context, entries []model.LeaderboardEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.LeaderboardTable(entries).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return formatSSEMessage(templates.UpdateEvent, buf.String()), nil
}
