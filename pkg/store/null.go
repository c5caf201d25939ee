package store

import (
	"context"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

// NullStore discards every write and loads nothing.
// Used for one-shot CLI runs where persistence is unwanted.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Load returns an empty position map.
func (s *NullStore) Load(ctx context.Context) (map[int64]graph.Point, error) {
	return map[int64]graph.Point{}, nil
}

// SetPosition does nothing.
func (s *NullStore) SetPosition(ctx context.Context, id int64, p graph.Point) error {
	return nil
}

// Commit does nothing.
func (s *NullStore) Commit(ctx context.Context, positions map[int64]graph.Point) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close(ctx context.Context) error {
	return nil
}

var _ PositionStore = (*NullStore)(nil)
