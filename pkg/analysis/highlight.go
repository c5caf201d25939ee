package analysis

import (
	"cmp"
	"slices"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

// Category tags a highlight set with the structural issue it represents.
type Category string

// Issue categories.
const (
	CategoryRoot   Category = "root"
	CategoryLeaf   Category = "leaf"
	CategoryMutual Category = "mutual"
	CategoryCycle  Category = "cycle"
)

// HighlightSet is a node-id set and edge-key set for one issue category,
// ready for a renderer-side selection. Ephemeral: recomputed on every
// analysis pass, never persisted.
type HighlightSet struct {
	Category Category        `json:"category"`
	NodeIDs  []int64         `json:"node_ids"`
	EdgeKeys []graph.EdgeKey `json:"edge_keys"`
}

// Aggregate merges the analyzer report for the renderer: the per-category
// sets, their union as a single combined selection, and the categorized
// per-node issue list for a side panel (one node can carry several tags,
// e.g. both root and part of a cycle). CycleGroups lists each distinct
// cyclic node-set once, regardless of how many nodes it spans.
type Aggregate struct {
	Sets          []HighlightSet       `json:"sets"`
	CombinedNodes []int64              `json:"combined_nodes"`
	CombinedEdges []graph.EdgeKey      `json:"combined_edges"`
	NodeIssues    map[int64][]Category `json:"node_issues"`
	CycleGroups   [][]int64            `json:"cycle_groups"`
}

// Directional holds the ancestor/descendant edge sets for a focus node,
// used for hover emphasis (ancestor edges styled differently from
// descendant edges).
type Directional struct {
	AncestorEdges   []graph.EdgeKey `json:"ancestor_edges"`
	DescendantEdges []graph.EdgeKey `json:"descendant_edges"`
}

// AggregateHighlights turns a report into renderer highlight sets.
//
// Self-loops are folded into the cycle category (a self-loop is a size-1
// cycle), and triangles contribute their node-set alongside the strongly
// connected components. Mutual pairs stay in their own category so a 2-node
// cycle is never double-reported.
func AggregateHighlights(g *graph.Graph, r Report) Aggregate {
	agg := Aggregate{NodeIssues: make(map[int64][]Category)}

	rootSet := HighlightSet{Category: CategoryRoot, NodeIDs: slices.Clone(r.Roots)}
	leafSet := HighlightSet{Category: CategoryLeaf, NodeIDs: slices.Clone(r.Leaves)}

	mutualSet := HighlightSet{Category: CategoryMutual}
	for _, p := range r.MutualPairs {
		mutualSet.NodeIDs = append(mutualSet.NodeIDs, p.A, p.B)
		mutualSet.EdgeKeys = append(mutualSet.EdgeKeys,
			graph.EdgeKey{From: p.A, To: p.B},
			graph.EdgeKey{From: p.B, To: p.A})
	}

	cycleSet := HighlightSet{Category: CategoryCycle}
	groupSeen := make(map[string]bool)
	addGroup := func(members []int64) {
		key := groupKey(members)
		if groupSeen[key] {
			return
		}
		groupSeen[key] = true
		agg.CycleGroups = append(agg.CycleGroups, members)
	}
	for _, cycle := range r.Cycles {
		cycleSet.NodeIDs = append(cycleSet.NodeIDs, cycle...)
		cycleSet.EdgeKeys = append(cycleSet.EdgeKeys, internalEdges(g, cycle)...)
		addGroup(cycle)
	}
	for _, tri := range r.Triangles {
		members := []int64{tri[0], tri[1], tri[2]}
		slices.Sort(members)
		cycleSet.NodeIDs = append(cycleSet.NodeIDs, members...)
		cycleSet.EdgeKeys = append(cycleSet.EdgeKeys, internalEdges(g, members)...)
		addGroup(members)
	}
	for _, id := range r.SelfLoops {
		cycleSet.NodeIDs = append(cycleSet.NodeIDs, id)
		cycleSet.EdgeKeys = append(cycleSet.EdgeKeys, graph.EdgeKey{From: id, To: id})
		addGroup([]int64{id})
	}

	for _, set := range []*HighlightSet{&rootSet, &leafSet, &mutualSet, &cycleSet} {
		set.NodeIDs = dedupeIDs(set.NodeIDs)
		set.EdgeKeys = dedupeEdges(set.EdgeKeys)
		agg.Sets = append(agg.Sets, *set)
		for _, id := range set.NodeIDs {
			agg.NodeIssues[id] = append(agg.NodeIssues[id], set.Category)
		}
		agg.CombinedNodes = append(agg.CombinedNodes, set.NodeIDs...)
		agg.CombinedEdges = append(agg.CombinedEdges, set.EdgeKeys...)
	}
	agg.CombinedNodes = dedupeIDs(agg.CombinedNodes)
	agg.CombinedEdges = dedupeEdges(agg.CombinedEdges)

	return agg
}

// DirectionalHighlight computes the ancestor and descendant edge sets for a
// focus node: every edge on a path ending at the focus (backward walk) and
// every edge on a path starting at it (forward walk). The walks follow both
// child and queue edges and keep independent visited sets, so a node
// reachable in both directions is fully explored both ways. An unknown
// focus id yields empty sets.
func DirectionalHighlight(g *graph.Graph, focus int64) Directional {
	var d Directional
	if !g.HasNode(focus) {
		return d
	}
	d.AncestorEdges = walkEdges(g, focus, false)
	d.DescendantEdges = walkEdges(g, focus, true)
	return d
}

// walkEdges traverses from start following out-edges (forward) or in-edges
// (backward), collecting every traversed edge key.
func walkEdges(g *graph.Graph, start int64, forward bool) []graph.EdgeKey {
	visited := map[int64]bool{start: true}
	queue := []int64{start}
	var edges []graph.EdgeKey

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		var next []int64
		if forward {
			next = append(append([]int64{}, g.Children(id)...), g.QueueOut(id)...)
		} else {
			next = append(append([]int64{}, g.Parents(id)...), g.QueueIn(id)...)
		}
		for _, other := range next {
			if forward {
				edges = append(edges, graph.EdgeKey{From: id, To: other})
			} else {
				edges = append(edges, graph.EdgeKey{From: other, To: id})
			}
			if !visited[other] {
				visited[other] = true
				queue = append(queue, other)
			}
		}
	}
	return dedupeEdges(edges)
}

// internalEdges returns the child edges whose endpoints both lie in members.
func internalEdges(g *graph.Graph, members []int64) []graph.EdgeKey {
	inSet := make(map[int64]bool, len(members))
	for _, id := range members {
		inSet[id] = true
	}
	var out []graph.EdgeKey
	for _, id := range members {
		for _, child := range g.Children(id) {
			if inSet[child] && child != id {
				out = append(out, graph.EdgeKey{From: id, To: child})
			}
		}
	}
	return out
}

func dedupeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func dedupeEdges(keys []graph.EdgeKey) []graph.EdgeKey {
	if len(keys) == 0 {
		return nil
	}
	out := slices.Clone(keys)
	slices.SortFunc(out, func(a, b graph.EdgeKey) int {
		if a.From != b.From {
			return cmp.Compare(a.From, b.From)
		}
		return cmp.Compare(a.To, b.To)
	})
	return slices.Compact(out)
}

// groupKey builds a canonical string key for a sorted member set.
func groupKey(members []int64) string {
	key := make([]byte, 0, len(members)*8)
	for _, id := range members {
		for shift := 0; shift < 64; shift += 8 {
			key = append(key, byte(id>>shift))
		}
	}
	return string(key)
}
