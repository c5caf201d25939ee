package analysis

import (
	"slices"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

// Pair is an unordered mutual pair, normalized so A < B.
type Pair struct {
	A int64 `json:"a"`
	B int64 `json:"b"`
}

// Report is the full analyzer output. All slices are sorted (cycles by
// their smallest member, members ascending) so reports compare stably.
//
// Cycles holds strongly connected components with at least three members.
// A two-node cycle appears in MutualPairs instead, and a single node is
// cyclic only through SelfLoops. Triangles lists exact directed 3-cycles;
// a triangle's node set always also appears in Cycles.
type Report struct {
	Roots       []int64    `json:"roots"`
	Leaves      []int64    `json:"leaves"`
	MutualPairs []Pair     `json:"mutual_pairs"`
	SelfLoops   []int64    `json:"self_loops"`
	Cycles      [][]int64  `json:"cycles"`
	Triangles   [][3]int64 `json:"triangles"`
}

// Analyze runs every detection pass over the whole graph.
func Analyze(g *graph.Graph) Report {
	return AnalyzeSubgraph(g, g.NodeIDs())
}

// AnalyzeSubgraph runs the detection passes restricted to the given node
// set: edges leading outside it are ignored, so a node with parents only
// outside the set counts as a root within it.
func AnalyzeSubgraph(g *graph.Graph, ids []int64) Report {
	inSet := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if g.HasNode(id) {
			inSet[id] = true
		}
	}
	sorted := make([]int64, 0, len(inSet))
	for id := range inSet {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)

	var r Report
	for _, id := range sorted {
		parents := restrict(g.Parents(id), inSet)
		children := restrict(g.Children(id), inSet)

		if len(parents) == 0 {
			r.Roots = append(r.Roots, id)
		}
		if len(children) == 0 {
			r.Leaves = append(r.Leaves, id)
		}
		for _, child := range children {
			if child == id {
				r.SelfLoops = append(r.SelfLoops, id)
				continue
			}
			// Mutual pair: record once, from the smaller endpoint.
			if id < child && slices.Contains(restrict(g.Children(child), inSet), id) {
				r.MutualPairs = append(r.MutualPairs, Pair{A: id, B: child})
			}
		}
	}

	r.Cycles = stronglyConnected(g, sorted, inSet)
	r.Triangles = triangles(g, sorted, inSet)
	return r
}

// restrict filters an adjacency slice to the node set under analysis.
func restrict(ids []int64, inSet map[int64]bool) []int64 {
	out := ids[:0:0]
	for _, id := range ids {
		if inSet[id] {
			out = append(out, id)
		}
	}
	return out
}
