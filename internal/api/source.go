package api

import (
	"context"
	"slices"
	"sync"

	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/graph"
)

// Source supplies the current goal snapshot to the API.
type Source interface {
	Snapshot(ctx context.Context) (graph.Snapshot, error)
}

// MutableSource is a Source that also accepts new relationships.
type MutableSource interface {
	Source
	AddEdge(ctx context.Context, e graph.Edge) error
}

// MemorySource holds a snapshot in memory and accepts relationship writes.
type MemorySource struct {
	mu   sync.RWMutex
	snap graph.Snapshot
}

// NewMemorySource creates a source seeded with the given snapshot.
func NewMemorySource(snap graph.Snapshot) *MemorySource {
	return &MemorySource{snap: snap}
}

// Snapshot returns a copy of the held snapshot.
func (s *MemorySource) Snapshot(ctx context.Context) (graph.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return graph.Snapshot{
		Nodes: slices.Clone(s.snap.Nodes),
		Edges: slices.Clone(s.snap.Edges),
	}, nil
}

// AddEdge appends a validated relationship. Both endpoints must exist;
// duplicates are rejected.
func (s *MemorySource) AddEdge(ctx context.Context, e graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasNode := func(id int64) bool {
		for _, n := range s.snap.Nodes {
			if n.ID == id {
				return true
			}
		}
		return false
	}
	if !hasNode(e.From) {
		return errors.New(errors.ErrCodeNodeNotFound, "goal %d not found", e.From)
	}
	if !hasNode(e.To) {
		return errors.New(errors.ErrCodeNodeNotFound, "goal %d not found", e.To)
	}
	for _, existing := range s.snap.Edges {
		if existing == e {
			return errors.New(errors.ErrCodeInvalidInput,
				"relationship %d -> %d (%s) already exists", e.From, e.To, e.Relation)
		}
	}
	s.snap.Edges = append(s.snap.Edges, e)
	return nil
}

// FileSource re-reads a snapshot file on every request, so edits to the
// file show up without a restart. Read-only.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot reads the file.
func (s *FileSource) Snapshot(ctx context.Context) (graph.Snapshot, error) {
	return graph.ReadSnapshotFile(s.path)
}
