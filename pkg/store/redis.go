package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/graph"
)

const defaultKeySpace = "goalgraph:positions"

// RedisStore keeps positions in a single Redis hash, one field per node id.
// Useful when the graph source itself is read-only.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed store.
// An empty keySpace falls back to the default hash key.
func NewRedisStore(addr string, db int, keySpace string) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New(errors.ErrCodeStoreConfig, "redis address is required")
	}
	if keySpace == "" {
		keySpace = defaultKeySpace
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	return &RedisStore{client: client, key: keySpace}, nil
}

// Load retrieves all stored positions from the hash.
func (s *RedisStore) Load(ctx context.Context) (map[int64]graph.Point, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load positions")
	}

	positions := make(map[int64]graph.Point, len(fields))
	for field, raw := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		var p graph.Point
		if err := json.Unmarshal([]byte(raw), &p); err != nil || !p.Valid() {
			continue
		}
		positions[id] = p
	}
	return positions, nil
}

// SetPosition writes one node's position.
func (s *RedisStore) SetPosition(ctx context.Context, id int64, p graph.Point) error {
	if err := validPoint(p); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal position")
	}
	if err := s.client.HSet(ctx, s.key, strconv.FormatInt(id, 10), raw).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "set position for %d", id)
	}
	return nil
}

// Commit writes a batch of positions with a single pipelined round trip.
func (s *RedisStore) Commit(ctx context.Context, positions map[int64]graph.Point) error {
	if len(positions) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for id, p := range positions {
		if !p.Valid() {
			continue
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "marshal position")
		}
		pipe.HSet(ctx, s.key, strconv.FormatInt(id, 10), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "commit %d positions", len(positions))
	}
	return nil
}

// Close shuts down the client.
func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

var _ PositionStore = (*RedisStore)(nil)
