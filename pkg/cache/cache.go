// Package cache provides caching for expensive pipeline stages.
//
// Layout computation dominates pipeline cost on large graphs, so the runner
// caches computed positions keyed by a hash of the normalized snapshot plus
// the layout tuning options. Any change to the nodes, edges, stored
// positions, or tuning produces a different key, so stale entries are never
// served; they simply age out via TTL.
package cache

import (
	"context"
	"time"
)

// Cache is the minimal byte-oriented cache contract.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKeyOpts captures the layout tuning that participates in the cache
// key. Fields mirror layout.Options; a copy lives here so the cache package
// does not depend on the layout package.
type LayoutKeyOpts struct {
	Spacing          float64 `json:"spacing"`
	MinDistance      float64 `json:"min_distance"`
	PeripheralFactor float64 `json:"peripheral_factor"`
	IsolatedRadius   float64 `json:"isolated_radius"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey generates a key for cached layout positions.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// AnalysisKey generates a key for a cached structural report.
	AnalysisKey(graphHash string) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for cached layout positions.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// AnalysisKey generates a key for a cached structural report.
func (k *DefaultKeyer) AnalysisKey(graphHash string) string {
	return hashKey("analysis", graphHash)
}
