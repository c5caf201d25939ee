package graph

import (
	"cmp"
	"slices"
)

// Graph is the normalized, immutable snapshot the engine operates on.
// It holds the surviving nodes plus four adjacency maps keyed by node id:
// children-by-parent and parents-by-child (child edges), and queue
// successors/predecessors (queue edges). All id slices are sorted so that
// every downstream pass iterates deterministically.
//
// Construct with Build; a zero Graph is empty but usable.
type Graph struct {
	nodes map[int64]*Node
	ids   []int64 // sorted node ids
	edges []Edge  // deduplicated, dangling-free

	children map[int64][]int64 // parent -> children (child edges)
	parents  map[int64][]int64 // child -> parents (child edges)
	queueOut map[int64][]int64 // predecessor -> successors (queue edges)
	queueIn  map[int64][]int64 // successor -> predecessors (queue edges)
}

// Build normalizes a raw node/edge list into a Graph.
//
// Duplicate node ids collapse (last record wins). Edges are dropped silently
// when they reference a node absent from nodes or carry a relation outside
// the closed enum; duplicate (from, to, relation) triples merge to one edge.
// Self-loops are kept as data - the relationship-creation boundary rejects
// them, but the analyzer must still see one that slipped through.
//
// Build has no side effects and runs in O(|nodes| + |edges|).
func Build(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:    make(map[int64]*Node, len(nodes)),
		children: make(map[int64][]int64),
		parents:  make(map[int64][]int64),
		queueOut: make(map[int64][]int64),
		queueIn:  make(map[int64][]int64),
	}

	for i := range nodes {
		n := nodes[i]
		if n.Position != nil && !n.Position.Valid() {
			n.Position = nil
		}
		g.nodes[n.ID] = &n
	}
	g.ids = make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		g.ids = append(g.ids, id)
	}
	slices.Sort(g.ids)

	type edgeIdent struct {
		key EdgeKey
		rel Relation
	}
	seen := make(map[edgeIdent]bool, len(edges))

	for _, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			continue
		}
		if _, ok := g.nodes[e.To]; !ok {
			continue
		}
		if e.Relation != RelationChild && e.Relation != RelationQueue {
			continue
		}
		ident := edgeIdent{key: e.Key(), rel: e.Relation}
		if seen[ident] {
			continue
		}
		seen[ident] = true
		g.edges = append(g.edges, e)

		switch e.Relation {
		case RelationChild:
			g.children[e.From] = append(g.children[e.From], e.To)
			g.parents[e.To] = append(g.parents[e.To], e.From)
		case RelationQueue:
			g.queueOut[e.From] = append(g.queueOut[e.From], e.To)
			g.queueIn[e.To] = append(g.queueIn[e.To], e.From)
		}
	}

	for _, adj := range []map[int64][]int64{g.children, g.parents, g.queueOut, g.queueIn} {
		for id := range adj {
			slices.Sort(adj[id])
		}
	}
	slices.SortFunc(g.edges, func(a, b Edge) int {
		switch {
		case a.From != b.From:
			return cmp.Compare(a.From, b.From)
		case a.To != b.To:
			return cmp.Compare(a.To, b.To)
		default:
			return cmp.Compare(a.Relation, b.Relation)
		}
	})

	return g
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of surviving edges across both relations.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id is present.
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int64) *Node { return g.nodes[id] }

// NodeIDs returns all node ids in ascending order.
// The returned slice must not be modified.
func (g *Graph) NodeIDs() []int64 { return g.ids }

// Edges returns the normalized edge list, sorted by (from, to, relation).
// The returned slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Children returns the child-edge targets of id, sorted ascending.
func (g *Graph) Children(id int64) []int64 { return g.children[id] }

// Parents returns the child-edge sources pointing at id, sorted ascending.
func (g *Graph) Parents(id int64) []int64 { return g.parents[id] }

// QueueOut returns the queue-edge successors of id, sorted ascending.
func (g *Graph) QueueOut(id int64) []int64 { return g.queueOut[id] }

// QueueIn returns the queue-edge predecessors of id, sorted ascending.
func (g *Graph) QueueIn(id int64) []int64 { return g.queueIn[id] }

// Degree returns the total connection count of id across both relations
// and both directions.
func (g *Graph) Degree(id int64) int {
	return len(g.children[id]) + len(g.parents[id]) + len(g.queueOut[id]) + len(g.queueIn[id])
}

// OutDegree returns outgoing child+queue edges of id.
func (g *Graph) OutDegree(id int64) int {
	return len(g.children[id]) + len(g.queueOut[id])
}

// InDegree returns incoming child+queue edges of id.
func (g *Graph) InDegree(id int64) int {
	return len(g.parents[id]) + len(g.queueIn[id])
}

// Neighbors returns every node connected to id by any edge in any
// direction, deduplicated and sorted ascending.
func (g *Graph) Neighbors(id int64) []int64 {
	set := make(map[int64]bool)
	for _, adj := range []map[int64][]int64{g.children, g.parents, g.queueOut, g.queueIn} {
		for _, other := range adj[id] {
			set[other] = true
		}
	}
	out := make([]int64, 0, len(set))
	for other := range set {
		out = append(out, other)
	}
	slices.Sort(out)
	return out
}

// PriorPositions collects the stored positions of all nodes that have one.
// The result is a fresh map; callers own it.
func (g *Graph) PriorPositions() map[int64]Point {
	prior := make(map[int64]Point)
	for id, n := range g.nodes {
		if n.Position != nil {
			prior[id] = *n.Position
		}
	}
	return prior
}
