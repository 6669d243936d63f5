package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mcoot/leaderboard-go/internal/api/request"
	"github.com/mcoot/leaderboard-go/internal/api/response"
	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
)

// PlayerHandler handles the /players endpoints
type PlayerHandler struct {
	registry *registry.Service
	logger   *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(registry *registry.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
		logger:   logger,
	}
}

// Register handles POST /players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.registry.Register(r.Context(), req.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RegisterResponseFromResult(result))
}

// UpdateScore handles PUT /players/players/{id}/score
func (h *PlayerHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	rawID, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid player id"))
		return
	}
	id := model.PlayerID(rawID)

	var req request.UpdateScoreRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.registry.UpdateScore(r.Context(), id, req.NewScore); err != nil {
		h.fail(w, r, err)
		return
	}

	response.Empty(w, http.StatusOK)
}

// LegacyUpdateScore handles POST /players/updateScore
func (h *PlayerHandler) LegacyUpdateScore(w http.ResponseWriter, r *http.Request) {
	var req request.LegacyUpdateScoreRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	_, err := h.registry.UpdateScore(r.Context(), model.PlayerID(req.UserID), req.NewScore)
	if errors.Is(err, model.ErrPlayerNotFound) {
		// Older clients read a message body, not the error envelope
		response.JSON(w, http.StatusNotFound, response.MessageResponse{Message: "Player not found."})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Score updated successfully."})
}

// GetPlayerData handles POST /players/getPlayerData
func (h *PlayerHandler) GetPlayerData(w http.ResponseWriter, r *http.Request) {
	var req request.GetPlayerDataRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	standing, err := h.registry.GetPlayerData(r.Context(), model.PlayerID(req.UserID))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerResponseFromStanding(standing))
}

// Leaderboard handles GET /players/leaderboard
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registry.GetLeaderboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardResponseFromModel(entries))
}

// fail writes err and logs it when it is not an expected client error
func (h *PlayerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	WriteError(w, err)
}
