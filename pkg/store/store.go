// Package store persists node positions between engine runs.
//
// The layout engine reuses stored positions verbatim, so position
// persistence is what keeps a user's mental map stable across refreshes.
// Four backends are provided: in-memory (tests, single-process serving),
// Neo4j (positions written back onto the goal nodes themselves), Redis
// (positions in a hash, useful when the graph source is read-only), and a
// null store for pure one-shot runs.
package store

import (
	"context"
	"strings"

	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/graph"
)

// PositionStore is the persistence contract for node positions.
// Implementations must be safe for concurrent use.
type PositionStore interface {
	// Load retrieves all stored positions. Nodes without a stored position
	// are simply absent from the map.
	Load(ctx context.Context) (map[int64]graph.Point, error)

	// SetPosition stores a single node's position, typically from a manual
	// drag. Invalid (non-finite) points are rejected.
	SetPosition(ctx context.Context, id int64, p graph.Point) error

	// Commit stores a batch of computed positions after a layout pass.
	Commit(ctx context.Context, positions map[int64]graph.Point) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendNeo4j  = "neo4j"
	BackendRedis  = "redis"
)

// Config selects and parameterizes a store backend.
type Config struct {
	Backend string

	// Neo4j settings.
	URI      string
	Username string
	Password string

	// Redis settings.
	Addr     string
	DB       int
	KeySpace string
}

// Open creates the configured position store.
// An empty backend defaults to memory.
func Open(ctx context.Context, cfg Config) (PositionStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendNull:
		return NewNullStore(), nil
	case BackendNeo4j:
		return NewNeo4jStore(ctx, cfg.URI, cfg.Username, cfg.Password)
	case BackendRedis:
		return NewRedisStore(cfg.Addr, cfg.DB, cfg.KeySpace)
	default:
		return nil, errors.New(errors.ErrCodeStoreConfig, "unknown store backend %q", cfg.Backend)
	}
}

func validPoint(p graph.Point) error {
	if !p.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "position coordinates must be finite")
	}
	return nil
}
