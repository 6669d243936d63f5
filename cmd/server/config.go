package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/leaderboard-go/internal/api"
	"github.com/mcoot/leaderboard-go/internal/factory"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
	redisstorage "github.com/mcoot/leaderboard-go/internal/storage/redis"
)

// config is everything the server reads from its environment
type config struct {
	LogLevel slog.Level
	Server   api.ServerConfig
	Factory  factory.Config
}

// loadConfig builds the server configuration from environment lookups
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		LogLevel: slog.LevelInfo,
		Server:   api.DefaultServerConfig(),
		Factory: factory.Config{
			StorageType:    getenv("STORAGE_TYPE"),
			RegistryConfig: registry.DefaultConfig(),
		},
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Port = port
	}

	if v := getenv("LEADERBOARD_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return config{}, fmt.Errorf("invalid LEADERBOARD_SIZE %q", v)
		}
		cfg.Factory.RegistryConfig.LeaderboardSize = size
	}

	if strings.EqualFold(cfg.Factory.StorageType, factory.StorageTypeRedis) {
		cfg.Factory.StorageType = factory.StorageTypeRedis
		redisURL := getenv("REDIS_URL")
		if redisURL == "" {
			return config{}, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.Factory.RedisConfig = &redisCfg
	}

	return cfg, nil
}
