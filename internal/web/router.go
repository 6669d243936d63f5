// Package web serves the HTML leaderboard view.
package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/leaderboard-go/internal/middleware"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
	"github.com/mcoot/leaderboard-go/internal/web/handler"
	"github.com/mcoot/leaderboard-go/internal/web/sse"
)

// EventsPath is the route of the leaderboard event stream
const EventsPath = "/events"

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	RegistryService *registry.Service
	// Hub enables live updates; nil serves a static page
	Hub *sse.Hub
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	leaderboardHandler := handler.NewLeaderboardHandler(cfg.RegistryService, cfg.Hub, EventsPath, cfg.Logger)

	r.HandleFunc("/", leaderboardHandler.Page).Methods(http.MethodGet)
	r.HandleFunc(EventsPath, leaderboardHandler.Events).Methods(http.MethodGet)

	return r
}
