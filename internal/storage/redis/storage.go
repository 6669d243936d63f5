package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/leaderboard-go/internal/model"
	"github.com/mcoot/leaderboard-go/internal/storage"
)

// Player hash fields
const (
	fieldID        = "id"
	fieldUsername  = "username"
	fieldScore     = "score"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// raiseScoreScript applies ARGV[1] as the new score only if it beats the stored one.
// Returns -1 if the player hash is missing, 1 if the score was raised, 0 otherwise.
var raiseScoreScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'score')
if not current then
	return -1
end
if tonumber(ARGV[1]) > tonumber(current) then
	redis.call('HSET', KEYS[1], 'score', ARGV[1], 'updated_at', ARGV[2])
	return 1
end
return 0
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	// The username claim is the uniqueness check; it must win before anything is written
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), string(player.ID), 0).Result()
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, playerKey(player.ID), encodePlayer(player))
	pipe.RPush(ctx, rosterKey(), string(player.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		// Release the claim so the username is not left pointing at nothing
		_ = s.client.Del(ctx, usernameIndexKey(player.Username)).Err()
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	fields, err := s.client.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return decodePlayer(fields)
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

func (s *Storage) RaiseScore(ctx context.Context, id model.PlayerID, score int, at time.Time) (bool, error) {
	result, err := raiseScoreScript.Run(ctx, s.client,
		[]string{playerKey(id)},
		score, at.UnixMicro(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("raise score: %w", err)
	}

	switch result {
	case -1:
		return false, model.ErrPlayerNotFound
	case 1:
		return true, nil
	default:
		return false, nil
	}
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.LRange(ctx, rosterKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	// Fetch all hashes in one round trip
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, playerKey(model.PlayerID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}

	players := make([]*model.Player, 0, len(cmds))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // roster entry whose hash write failed
		}
		player, err := decodePlayer(fields)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

// CountPlayers counts roster entries that have a player hash, so it agrees with ListPlayers
func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	ids, err := s.client.LRange(ctx, rosterKey(), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, playerKey(model.PlayerID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}

	count := 0
	for _, cmd := range cmds {
		count += int(cmd.Val())
	}
	return count, nil
}

func encodePlayer(p *model.Player) map[string]any {
	return map[string]any{
		fieldID:        string(p.ID),
		fieldUsername:  p.Username,
		fieldScore:     p.Score,
		fieldCreatedAt: p.CreatedAt.UnixMicro(),
		fieldUpdatedAt: p.UpdatedAt.UnixMicro(),
	}
}

func decodePlayer(fields map[string]string) (*model.Player, error) {
	score, err := strconv.Atoi(fields[fieldScore])
	if err != nil {
		return nil, fmt.Errorf("decode score of player %s: %w", fields[fieldID], err)
	}
	createdAt, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode created_at of player %s: %w", fields[fieldID], err)
	}
	updatedAt, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode updated_at of player %s: %w", fields[fieldID], err)
	}
	return &model.Player{
		ID:        model.PlayerID(fields[fieldID]),
		Username:  fields[fieldUsername],
		Score:     score,
		CreatedAt: time.UnixMicro(createdAt).UTC(),
		UpdatedAt: time.UnixMicro(updatedAt).UTC(),
	}, nil
}
