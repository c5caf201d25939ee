package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/goalgraph/goalgraph/pkg/cache"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/store"
)

func testSnapshot() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{
			{ID: 1, Name: "ship", Kind: graph.KindProject},
			{ID: 2, Name: "build", Kind: graph.KindTask},
			{ID: 3, Name: "test", Kind: graph.KindTask},
		},
		Edges: []graph.Edge{
			{From: 1, To: 2, Relation: graph.RelationChild},
			{From: 1, To: 3, Relation: graph.RelationChild},
			{From: 2, To: 3, Relation: graph.RelationQueue},
		},
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)

	result, err := runner.Execute(ctx, testSnapshot(), Options{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 3 {
		t.Errorf("stats = %d nodes %d edges, want 3/3", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if len(result.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(result.Positions))
	}
	if len(result.Nodes) != 3 {
		t.Fatalf("got %d projected nodes, want 3", len(result.Nodes))
	}
	if len(result.Edges) != 3 {
		t.Fatalf("got %d projected edges, want 3", len(result.Edges))
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}

	// Projections are sorted by id and carry the computed position.
	for i, n := range result.Nodes {
		if i > 0 && n.ID <= result.Nodes[i-1].ID {
			t.Errorf("nodes not sorted by id: %v", result.Nodes)
		}
		p := result.Positions[n.ID]
		if n.X != p.X || n.Y != p.Y {
			t.Errorf("node %d projection (%v,%v) != position %v", n.ID, n.X, n.Y, p)
		}
		if n.Size < baseNodeSize {
			t.Errorf("node %d size %v below base", n.ID, n.Size)
		}
	}

	// Node 1 has two children, so it must be the most important.
	if result.Nodes[0].Importance <= result.Nodes[2].Importance {
		t.Errorf("parent importance %v should exceed leaf %v",
			result.Nodes[0].Importance, result.Nodes[2].Importance)
	}

	// The chain has a root and a structural report to match.
	if len(result.Report.Roots) != 1 || result.Report.Roots[0] != 1 {
		t.Errorf("Roots = %v, want [1]", result.Report.Roots)
	}
	if len(result.Highlights.Sets) != 4 {
		t.Errorf("got %d highlight sets, want 4", len(result.Highlights.Sets))
	}
}

func TestExecuteLayoutCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(c, nil)
	snap := testSnapshot()

	first, err := runner.Execute(ctx, snap, Options{})
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run should miss the layout cache")
	}

	second, err := runner.Execute(ctx, snap, Options{})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	for id, p := range first.Positions {
		if second.Positions[id] != p {
			t.Errorf("cached position for %d differs: %v vs %v", id, second.Positions[id], p)
		}
	}

	// Refresh bypasses the cache.
	third, err := runner.Execute(ctx, snap, Options{Refresh: true})
	if err != nil {
		t.Fatalf("third Execute error: %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh run should not hit the layout cache")
	}

	// Different tuning produces a different key.
	tuned, err := runner.Execute(ctx, snap, Options{Spacing: 300})
	if err != nil {
		t.Fatalf("tuned Execute error: %v", err)
	}
	if tuned.CacheInfo.LayoutHit {
		t.Error("different tuning must not reuse the cached layout")
	}
}

func TestExecuteReusesStoredPositions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	if err := s.SetPosition(ctx, 2, graph.Point{X: 123, Y: -456}); err != nil {
		t.Fatalf("SetPosition error: %v", err)
	}
	// A position for a node absent from the snapshot must not leak in.
	if err := s.SetPosition(ctx, 99, graph.Point{X: 1, Y: 1}); err != nil {
		t.Fatalf("SetPosition error: %v", err)
	}
	runner := NewRunner(nil, s)

	result, err := runner.Execute(ctx, testSnapshot(), Options{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if p := result.Positions[2]; p.X != 123 || p.Y != -456 {
		t.Errorf("stored position not reused: %v", p)
	}
	if _, ok := result.Positions[99]; ok {
		t.Error("position for absent node leaked into the result")
	}
}

func TestExecuteSnapshotPositionWins(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	if err := s.SetPosition(ctx, 1, graph.Point{X: 1, Y: 1}); err != nil {
		t.Fatalf("SetPosition error: %v", err)
	}
	runner := NewRunner(nil, s)

	snap := testSnapshot()
	snap.Nodes[0].Position = &graph.Point{X: 50, Y: 60}

	result, err := runner.Execute(ctx, snap, Options{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if p := result.Positions[1]; p.X != 50 || p.Y != 60 {
		t.Errorf("snapshot position should win over stored: %v", p)
	}
}

func TestExecuteCommitsFreshPositions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	if err := s.SetPosition(ctx, 1, graph.Point{X: 5, Y: 5}); err != nil {
		t.Fatalf("SetPosition error: %v", err)
	}
	runner := NewRunner(nil, s)

	_, err := runner.Execute(ctx, testSnapshot(), Options{CommitPositions: true})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	// The commit runs in the background; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		positions, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if len(positions) == 3 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("commit never landed: %d positions stored", len(positions))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestContentHashSensitivity(t *testing.T) {
	snap := testSnapshot()
	prior := map[int64]graph.Point{}

	h1, err := contentHash(snap, prior)
	if err != nil {
		t.Fatalf("contentHash error: %v", err)
	}
	h2, _ := contentHash(snap, prior)
	if h1 != h2 {
		t.Error("contentHash should be deterministic")
	}

	// Prior positions participate in the hash.
	h3, _ := contentHash(snap, map[int64]graph.Point{1: {X: 9, Y: 9}})
	if h1 == h3 {
		t.Error("prior positions should change the hash")
	}

	// So does the edge list.
	snap.Edges = snap.Edges[:1]
	h4, _ := contentHash(snap, prior)
	if h1 == h4 {
		t.Error("edges should change the hash")
	}
}
