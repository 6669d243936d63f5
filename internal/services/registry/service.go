package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/leaderboard-go/internal/dependencies/clock"
	"github.com/mcoot/leaderboard-go/internal/dependencies/ids"
	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/storage"
)

// DefaultLeaderboardSize is the number of rows returned by GetLeaderboard
const DefaultLeaderboardSize = 10

// Config holds configuration for the registry service
type Config struct {
	LeaderboardSize int
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{
		LeaderboardSize: DefaultLeaderboardSize,
	}
}

// Observer is notified with the fresh leaderboard after every change to it
type Observer interface {
	LeaderboardChanged(ctx context.Context, entries []model.LeaderboardEntry)
}

// RegisterResult is the outcome of a registration attempt.
// Player is nil when the username was not available.
type RegisterResult struct {
	Available bool
	Player    *model.Player
}

// Service is the player registry: registration, score updates and ranking.
// All operations are serialized on a single mutex.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
	cfg     Config

	mu       sync.Mutex
	observer Observer
}

// New creates a new registry Service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, cfg Config, logger *slog.Logger) *Service {
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = DefaultLeaderboardSize
	}
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// SetObserver installs the observer notified of leaderboard changes
func (s *Service) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Register claims username for a new player with a score of zero.
// A taken username is not an error: the result reports Available=false.
func (s *Service) Register(ctx context.Context, username string) (*RegisterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.GetPlayerByUsername(ctx, username)
	if err == nil {
		s.logger.Debug("username not available", slog.String("username", username))
		return &RegisterResult{Available: false}, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID(s.ids.NewID()),
		Username:  username,
		Score:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Another process sharing the storage may have claimed it since the lookup
	err = s.storage.CreatePlayer(ctx, player)
	if errors.Is(err, model.ErrUsernameTaken) {
		return &RegisterResult{Available: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username))

	s.notifyLocked(ctx)
	return &RegisterResult{Available: true, Player: player}, nil
}

// UpdateScore raises the player's score to newScore if it is strictly higher.
// A lower or equal score is silently ignored; the returned bool reports whether
// the score changed. Returns model.ErrPlayerNotFound for an unknown id.
func (s *Service) UpdateScore(ctx context.Context, id model.PlayerID, newScore int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raised, err := s.storage.RaiseScore(ctx, id, newScore, s.clock.Now())
	if err != nil {
		return false, err
	}

	if !raised {
		s.logger.Debug("score update ignored",
			slog.String("player_id", string(id)),
			slog.Int("new_score", newScore))
		return false, nil
	}

	s.logger.Info("score raised",
		slog.String("player_id", string(id)),
		slog.Int("score", newScore))

	s.notifyLocked(ctx)
	return true, nil
}

// GetPlayerData returns the player together with their rank among all players.
// Returns model.ErrPlayerNotFound for an unknown id.
func (s *Service) GetPlayerData(ctx context.Context, id model.PlayerID) (*model.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	// The player was just read from the same collection, so it is always ranked
	ranked := rankPlayers(players)
	rank := rankOf(ranked, player.ID)
	if rank == 0 {
		return nil, fmt.Errorf("player %s missing from roster", player.ID)
	}

	return &model.Standing{
		Player: *ranked[rank-1],
		Rank:   rank,
	}, nil
}

// GetLeaderboard returns the top players by descending score with 1-based ranks
func (s *Service) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboardLocked(ctx)
}

// Count returns the number of registered players
func (s *Service) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.CountPlayers(ctx)
}

func (s *Service) leaderboardLocked(ctx context.Context) ([]model.LeaderboardEntry, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return topEntries(rankPlayers(players), s.cfg.LeaderboardSize), nil
}

// notifyLocked pushes the current leaderboard to the observer.
// Failures are logged only: the change itself has already been stored.
func (s *Service) notifyLocked(ctx context.Context) {
	if s.observer == nil {
		return
	}
	entries, err := s.leaderboardLocked(ctx)
	if err != nil {
		s.logger.Error("failed to build leaderboard for observer", slog.Any("error", err))
		return
	}
	s.observer.LeaderboardChanged(ctx, entries)
}
