package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/leaderboard-go/internal/api/apierr"
	"github.com/mcoot/leaderboard-go/internal/api/handler"
	"github.com/mcoot/leaderboard-go/internal/middleware"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	RegistryService *registry.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(apierr.MethodNotAllowed)
	// Match on the escaped path so an id containing an encoded "/" stays one segment
	r.UseEncodedPath()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.RegistryService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.RegistryService)

	// Common middleware
	r.Use(middleware.Recovery(cfg.Logger, apierr.PanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	// Player routes. Registered with full paths on the root router: a method
	// mismatch inside a PathPrefix subrouter is reported as 404 by mux.
	r.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/players/players/{id}/score", playerHandler.UpdateScore).Methods(http.MethodPut)
	r.HandleFunc("/players/getPlayerData", playerHandler.GetPlayerData).Methods(http.MethodPost)
	r.HandleFunc("/players/leaderboard", playerHandler.Leaderboard).Methods(http.MethodGet)

	// Body-addressed score update kept for older clients
	r.HandleFunc("/players/updateScore", playerHandler.LegacyUpdateScore).Methods(http.MethodPost)

	// Health check endpoint
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}
