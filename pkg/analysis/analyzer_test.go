package analysis

import (
	"reflect"
	"slices"
	"testing"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

func buildGraph(ids []int64, edges []graph.Edge) *graph.Graph {
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = graph.Node{ID: id, Kind: graph.KindProject}
	}
	return graph.Build(nodes, edges)
}

func child(from, to int64) graph.Edge {
	return graph.Edge{From: from, To: to, Relation: graph.RelationChild}
}

func TestAnalyze_RootsAndLeaves(t *testing.T) {
	// A -> B -> C with no other edges.
	g := buildGraph([]int64{1, 2, 3}, []graph.Edge{child(1, 2), child(2, 3)})

	r := Analyze(g)

	if !slices.Equal(r.Roots, []int64{1}) {
		t.Errorf("Roots = %v, want [1]", r.Roots)
	}
	if !slices.Equal(r.Leaves, []int64{3}) {
		t.Errorf("Leaves = %v, want [3]", r.Leaves)
	}
	if len(r.MutualPairs) != 0 || len(r.Cycles) != 0 || len(r.SelfLoops) != 0 {
		t.Errorf("chain should have no other issues: %+v", r)
	}
}

func TestAnalyze_QueueEdgesIgnored(t *testing.T) {
	// Queue edges never affect root/leaf/cycle detection.
	g := buildGraph([]int64{1, 2}, []graph.Edge{
		{From: 1, To: 2, Relation: graph.RelationQueue},
		{From: 2, To: 1, Relation: graph.RelationQueue},
	})

	r := Analyze(g)

	if !slices.Equal(r.Roots, []int64{1, 2}) {
		t.Errorf("Roots = %v, want [1 2]", r.Roots)
	}
	if !slices.Equal(r.Leaves, []int64{1, 2}) {
		t.Errorf("Leaves = %v, want [1 2]", r.Leaves)
	}
	if len(r.MutualPairs) != 0 {
		t.Errorf("MutualPairs = %v, want none", r.MutualPairs)
	}
}

func TestAnalyze_MutualPairNotCycle(t *testing.T) {
	// A <-> B: mutual pair, never a cycle.
	g := buildGraph([]int64{1, 2}, []graph.Edge{child(1, 2), child(2, 1)})

	r := Analyze(g)

	if !reflect.DeepEqual(r.MutualPairs, []Pair{{A: 1, B: 2}}) {
		t.Errorf("MutualPairs = %v, want [{1 2}]", r.MutualPairs)
	}
	if len(r.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none (size-2 components are mutual pairs)", r.Cycles)
	}
}

func TestAnalyze_TriangleCycle(t *testing.T) {
	// A -> B -> C -> A.
	g := buildGraph([]int64{1, 2, 3},
		[]graph.Edge{child(1, 2), child(2, 3), child(3, 1)})

	r := Analyze(g)

	if !reflect.DeepEqual(r.Cycles, [][]int64{{1, 2, 3}}) {
		t.Errorf("Cycles = %v, want [[1 2 3]]", r.Cycles)
	}
	if !reflect.DeepEqual(r.Triangles, [][3]int64{{1, 2, 3}}) {
		t.Errorf("Triangles = %v, want [(1 2 3)]", r.Triangles)
	}
}

func TestAnalyze_SelfLoop(t *testing.T) {
	g := buildGraph([]int64{1}, []graph.Edge{child(1, 1)})

	r := Analyze(g)

	if !slices.Equal(r.SelfLoops, []int64{1}) {
		t.Errorf("SelfLoops = %v, want [1]", r.SelfLoops)
	}
	// The single-node SCC must not surface as a cycle; the self-loop list
	// is the only cycle path for a lone node.
	if len(r.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none", r.Cycles)
	}
}

func TestAnalyze_Scenario(t *testing.T) {
	// Nodes [1,2,3,4], edges 1->2, 2->3, 3->1, 4->1 (all child).
	g := buildGraph([]int64{1, 2, 3, 4},
		[]graph.Edge{child(1, 2), child(2, 3), child(3, 1), child(4, 1)})

	r := Analyze(g)

	if !slices.Equal(r.Roots, []int64{4}) {
		t.Errorf("Roots = %v, want [4]", r.Roots)
	}
	if !reflect.DeepEqual(r.Cycles, [][]int64{{1, 2, 3}}) {
		t.Errorf("Cycles = %v, want [[1 2 3]]", r.Cycles)
	}
	if !reflect.DeepEqual(r.Triangles, [][3]int64{{1, 2, 3}}) {
		t.Errorf("Triangles = %v, want [(1 2 3)]", r.Triangles)
	}
	if len(r.Leaves) != 0 {
		t.Errorf("Leaves = %v, want []", r.Leaves)
	}
	if len(r.MutualPairs) != 0 {
		t.Errorf("MutualPairs = %v, want []", r.MutualPairs)
	}
}

func TestAnalyze_LargeComponentWithoutTriangle(t *testing.T) {
	// 4-cycle: an SCC of size 4, but no exact 3-cycle.
	g := buildGraph([]int64{1, 2, 3, 4},
		[]graph.Edge{child(1, 2), child(2, 3), child(3, 4), child(4, 1)})

	r := Analyze(g)

	if !reflect.DeepEqual(r.Cycles, [][]int64{{1, 2, 3, 4}}) {
		t.Errorf("Cycles = %v, want [[1 2 3 4]]", r.Cycles)
	}
	if len(r.Triangles) != 0 {
		t.Errorf("Triangles = %v, want none", r.Triangles)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	g := buildGraph([]int64{1, 2, 3, 4, 5},
		[]graph.Edge{child(1, 2), child(2, 3), child(3, 1), child(4, 5), child(5, 4)})

	first := Analyze(g)
	second := Analyze(g)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyzeSubgraph_RestrictsEdges(t *testing.T) {
	// Full graph: 1 -> 2 -> 3 -> 1. Restricted to {2, 3}, the edge back to
	// 1 disappears: 2 -> 3 remains, so 2 is a root and 3 is a leaf.
	g := buildGraph([]int64{1, 2, 3},
		[]graph.Edge{child(1, 2), child(2, 3), child(3, 1)})

	r := AnalyzeSubgraph(g, []int64{2, 3})

	if !slices.Equal(r.Roots, []int64{2}) {
		t.Errorf("Roots = %v, want [2]", r.Roots)
	}
	if !slices.Equal(r.Leaves, []int64{3}) {
		t.Errorf("Leaves = %v, want [3]", r.Leaves)
	}
	if len(r.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none in the subgraph", r.Cycles)
	}
}

func TestAnalyzeSubgraph_UnknownIDsIgnored(t *testing.T) {
	g := buildGraph([]int64{1, 2}, []graph.Edge{child(1, 2)})

	r := AnalyzeSubgraph(g, []int64{1, 2, 99})

	if !slices.Equal(r.Roots, []int64{1}) {
		t.Errorf("Roots = %v, want [1]", r.Roots)
	}
}

func TestAnalyze_TwoSeparateTriangles(t *testing.T) {
	g := buildGraph([]int64{1, 2, 3, 10, 11, 12},
		[]graph.Edge{
			child(1, 2), child(2, 3), child(3, 1),
			child(10, 11), child(11, 12), child(12, 10),
		})

	r := Analyze(g)

	if len(r.Cycles) != 2 {
		t.Fatalf("Cycles = %v, want two components", r.Cycles)
	}
	if !slices.Equal(r.Cycles[0], []int64{1, 2, 3}) || !slices.Equal(r.Cycles[1], []int64{10, 11, 12}) {
		t.Errorf("Cycles = %v, want [[1 2 3] [10 11 12]]", r.Cycles)
	}
	if len(r.Triangles) != 2 {
		t.Errorf("Triangles = %v, want two", r.Triangles)
	}
}
