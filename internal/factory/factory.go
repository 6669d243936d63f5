package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/leaderboard-go/internal/dependencies/clock"
	"github.com/mcoot/leaderboard-go/internal/dependencies/ids"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
	"github.com/mcoot/leaderboard-go/internal/storage"
	"github.com/mcoot/leaderboard-go/internal/storage/memory"
	redisstorage "github.com/mcoot/leaderboard-go/internal/storage/redis"
	"github.com/mcoot/leaderboard-go/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	RegistryService *registry.Service

	// Live updates. Hub.Run must be started by the caller.
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RegistryConfig holds registry settings (optional)
	// If zero value, defaults to registry.DefaultConfig()
	RegistryConfig registry.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}

	regCfg := cfg.RegistryConfig
	if regCfg.LeaderboardSize == 0 {
		regCfg = registry.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), ids.New(), regCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, idGen ids.Generator, regCfg registry.Config, logger *slog.Logger) *App {
	registryService := registry.New(store, clk, idGen, regCfg, logger)
	hub := sse.NewHub(logger)
	broadcaster := sse.NewBroadcaster(hub, logger)
	registryService.SetObserver(broadcaster)

	return &App{
		Storage:         store,
		Clock:           clk,
		IDs:             idGen,
		RegistryService: registryService,
		Hub:             hub,
		Broadcaster:     broadcaster,
	}
}

// Close disconnects SSE clients and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
