package analysis

import "github.com/goalgraph/goalgraph/pkg/graph"

// triangles enumerates exact directed 3-cycles a -> b -> c -> a with
// pairwise distinct members, restricted to the node set under analysis.
// Each triangle is reported once, as the ordered triple discovered first
// (node ids are scanned ascending, so the first entry is the smallest
// member). Complexity is O(V * avg-degree^2), fine for graphs in the tens
// to low hundreds of nodes.
func triangles(g *graph.Graph, sorted []int64, inSet map[int64]bool) [][3]int64 {
	seen := make(map[[3]int64]bool)
	var out [][3]int64

	for _, a := range sorted {
		for _, b := range restrict(g.Children(a), inSet) {
			if b == a {
				continue
			}
			for _, c := range restrict(g.Children(b), inSet) {
				if c == a || c == b {
					continue
				}
				if !closesTriangle(g, c, a, inSet) {
					continue
				}
				key := normalizeTriple(a, b, c)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, [3]int64{a, b, c})
			}
		}
	}
	return out
}

// closesTriangle reports whether from has a child edge to to within the set.
func closesTriangle(g *graph.Graph, from, to int64, inSet map[int64]bool) bool {
	if !inSet[from] || !inSet[to] {
		return false
	}
	for _, child := range g.Children(from) {
		if child == to {
			return true
		}
	}
	return false
}

// normalizeTriple sorts three ids into a canonical dedup key.
func normalizeTriple(a, b, c int64) [3]int64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int64{a, b, c}
}
