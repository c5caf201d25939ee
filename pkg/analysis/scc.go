package analysis

import (
	"slices"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

// stronglyConnected finds the strongly connected components of the child
// subgraph induced by inSet, using Tarjan's algorithm, and returns the
// components with at least three members as cycles.
//
// Two-node components are deliberately not returned here - the analyzer
// reports them as mutual pairs. A single-node component is a cycle only
// through a self-loop, which is likewise reported separately.
//
// The traversal is iterative (explicit frames rather than recursion), so
// deep chains cannot exhaust the goroutine stack.
func stronglyConnected(g *graph.Graph, sorted []int64, inSet map[int64]bool) [][]int64 {
	index := 0
	indices := make(map[int64]int, len(sorted))
	lowlink := make(map[int64]int, len(sorted))
	onStack := make(map[int64]bool, len(sorted))
	var stack []int64
	var cycles [][]int64

	type frame struct {
		node  int64
		succ  []int64
		child int // index of the successor being explored
	}

	visit := func(root int64) {
		frames := []frame{{node: root, succ: restrict(g.Children(root), inSet)}}
		indices[root] = index
		lowlink[root] = index
		index++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]

			if f.child < len(f.succ) {
				next := f.succ[f.child]
				f.child++
				if _, seen := indices[next]; !seen {
					indices[next] = index
					lowlink[next] = index
					index++
					stack = append(stack, next)
					onStack[next] = true
					frames = append(frames, frame{node: next, succ: restrict(g.Children(next), inSet)})
				} else if onStack[next] {
					lowlink[f.node] = min(lowlink[f.node], indices[next])
				}
				continue
			}

			// All successors explored: pop a component if this is a root.
			if lowlink[f.node] == indices[f.node] {
				var component []int64
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					component = append(component, top)
					if top == f.node {
						break
					}
				}
				if len(component) >= 3 {
					slices.Sort(component)
					cycles = append(cycles, component)
				}
			}

			done := f.node
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				lowlink[parent.node] = min(lowlink[parent.node], lowlink[done])
			}
		}
	}

	for _, id := range sorted {
		if _, seen := indices[id]; !seen {
			visit(id)
		}
	}

	slices.SortFunc(cycles, func(a, b []int64) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		default:
			return 0
		}
	})
	return cycles
}
