package store

import (
	"context"
	"sync"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

// MemoryStore keeps positions in process memory.
// The default backend; suitable for tests and single-process serving.
type MemoryStore struct {
	mu        sync.RWMutex
	positions map[int64]graph.Point
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[int64]graph.Point)}
}

// Load returns a copy of all stored positions.
func (s *MemoryStore) Load(ctx context.Context) (map[int64]graph.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]graph.Point, len(s.positions))
	for id, p := range s.positions {
		out[id] = p
	}
	return out, nil
}

// SetPosition stores a single position.
func (s *MemoryStore) SetPosition(ctx context.Context, id int64, p graph.Point) error {
	if err := validPoint(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[id] = p
	return nil
}

// Commit stores a batch of positions.
func (s *MemoryStore) Commit(ctx context.Context, positions map[int64]graph.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range positions {
		if !p.Valid() {
			continue
		}
		s.positions[id] = p
	}
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ PositionStore = (*MemoryStore)(nil)
