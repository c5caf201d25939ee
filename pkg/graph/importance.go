package graph

// Scores holds the advisory importance values computed by Score.
// They feed node-size and edge-width styling only and never affect
// placement. Recomputed on every run, never persisted.
type Scores struct {
	Node map[int64]float64
	Edge map[EdgeKey]float64
}

// Score computes per-node and per-edge importance.
//
// Node importance is 2*recursiveDescendants(n) + (children + queueOut +
// parents); edge importance is the mean of its endpoint importances.
// Descendant counting is bounded by a per-call visited set, so a cyclic
// hierarchy terminates: a node revisited during its own descendant count
// contributes nothing further.
func Score(g *Graph) Scores {
	s := Scores{
		Node: make(map[int64]float64, g.NodeCount()),
		Edge: make(map[EdgeKey]float64, g.EdgeCount()),
	}

	for _, id := range g.NodeIDs() {
		desc := g.recursiveDescendants(id)
		direct := len(g.Children(id)) + len(g.QueueOut(id)) + len(g.Parents(id))
		s.Node[id] = float64(2*desc + direct)
	}

	for _, e := range g.Edges() {
		s.Edge[e.Key()] = (s.Node[e.From] + s.Node[e.To]) / 2
	}

	return s
}

// recursiveDescendants counts the nodes reachable from id via child edges,
// excluding id itself. The visited set is allocated per call; it both
// guarantees termination on cycles and keeps counts from leaking across
// calls.
func (g *Graph) recursiveDescendants(id int64) int {
	visited := map[int64]bool{id: true}

	var walk func(int64) int
	walk = func(n int64) int {
		count := 0
		for _, child := range g.Children(n) {
			if visited[child] {
				continue
			}
			visited[child] = true
			count += 1 + walk(child)
		}
		return count
	}

	return walk(id)
}
