package layout

import (
	"math"
	"sort"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

// goldenRatio drives the spiral fallback angle. Successive placements land
// at angle steps of pi*phi, which never repeats and spreads points evenly.
const goldenRatio = 1.618033988749895

// connectorBonus multiplies the centrality of nodes that have both incoming
// and outgoing edges, so hubs are placed before their satellites.
const connectorBonus = 3.0

// maxCollisionIterations caps the per-node separation loop.
const maxCollisionIterations = 10

// Options tunes the placement heuristic. The zero value is not usable -
// use DefaultOptions and override fields as needed.
type Options struct {
	// Spacing is the base distance unit between related nodes.
	Spacing float64
	// MinDistance is the best-effort minimum separation between any two
	// newly placed nodes.
	MinDistance float64
	// PeripheralFactor scales positions of sparsely connected nodes
	// (<= 2 total connections) and the spiral fallback radius.
	PeripheralFactor float64
	// IsolatedRadius is the radius of the ring holding edge-less nodes.
	IsolatedRadius float64
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Spacing:          150,
		MinDistance:      110,
		PeripheralFactor: 0.85,
		IsolatedRadius:   900,
	}
}

// Engine computes positions for a graph snapshot. It holds no per-run
// state, so a single Engine can serve any number of Layout calls.
type Engine struct {
	opts Options
}

// New creates an engine. Non-positive option fields fall back to defaults.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Spacing <= 0 {
		opts.Spacing = def.Spacing
	}
	if opts.MinDistance <= 0 {
		opts.MinDistance = def.MinDistance
	}
	if opts.PeripheralFactor <= 0 {
		opts.PeripheralFactor = def.PeripheralFactor
	}
	if opts.IsolatedRadius <= 0 {
		opts.IsolatedRadius = def.IsolatedRadius
	}
	return &Engine{opts: opts}
}

// Layout assigns a position to every node in g.
//
// Nodes with a valid prior position keep it exactly. The rest are placed in
// a single deterministic pass; see the package documentation for the
// algorithm. The returned map holds exactly one finite position per node id.
func (e *Engine) Layout(g *graph.Graph, prior map[int64]graph.Point) map[int64]graph.Point {
	positions := make(map[int64]graph.Point, g.NodeCount())
	var placed []int64 // placement order, also the deterministic scan order

	// Reuse pass: stored positions are fixed immediately.
	for _, id := range g.NodeIDs() {
		if p, ok := prior[id]; ok && p.Valid() {
			positions[id] = p
			placed = append(placed, id)
		}
	}

	groups := e.partition(g, positions)

	for _, grp := range groups {
		for idx, id := range grp.ids {
			var candidate graph.Point
			switch {
			case grp.name == groupIsolated:
				candidate = e.ringPosition(idx, len(grp.ids))
			case !e.hasPlacedNeighbor(g, id, positions):
				candidate = e.spiralPosition(len(placed))
			default:
				candidate = e.centroidPosition(g, id, positions)
				candidate = e.applyRepulsion(candidate, id, placed, positions)
			}
			candidate = e.resolveCollisions(candidate, id, placed, positions)
			positions[id] = candidate
			placed = append(placed, id)
		}
	}

	return positions
}

// =============================================================================
// Placement Order
// =============================================================================

const (
	groupRoots = iota
	groupConnectors
	groupOthers
	groupLeaves
	groupIsolated
)

type nodeGroup struct {
	name int
	ids  []int64
}

// partition splits the unplaced nodes into ordered groups and sorts each
// group by descending centrality (ties broken by id for determinism).
func (e *Engine) partition(g *graph.Graph, positions map[int64]graph.Point) []nodeGroup {
	groups := make([]nodeGroup, 5)
	for i := range groups {
		groups[i].name = i
	}

	for _, id := range g.NodeIDs() {
		if _, done := positions[id]; done {
			continue
		}
		grp := e.classify(g, id)
		groups[grp].ids = append(groups[grp].ids, id)
	}

	for i := range groups {
		ids := groups[i].ids
		sort.SliceStable(ids, func(a, b int) bool {
			ca, cb := centrality(g, ids[a]), centrality(g, ids[b])
			if ca != cb {
				return ca > cb
			}
			return ids[a] < ids[b]
		})
	}
	return groups
}

func (e *Engine) classify(g *graph.Graph, id int64) int {
	switch {
	case g.Degree(id) == 0:
		return groupIsolated
	case len(g.Parents(id)) == 0 && g.OutDegree(id) > 0:
		return groupRoots
	case g.InDegree(id) > 0 && g.OutDegree(id) > 0:
		return groupConnectors
	case g.OutDegree(id) == 0:
		return groupLeaves
	default:
		return groupOthers
	}
}

// centrality scores how structurally central a node is. Connector nodes
// (both in- and out-edges) get a 3x bonus; a lopsided in/out balance is
// penalized so pass-through chains rank below genuine hubs.
func centrality(g *graph.Graph, id int64) float64 {
	bonus := 1.0
	if g.InDegree(id) > 0 && g.OutDegree(id) > 0 {
		bonus = connectorBonus
	}
	imbalance := math.Abs(float64(g.OutDegree(id) - g.InDegree(id)))
	return float64(g.Degree(id))*bonus - 0.5*imbalance
}

// =============================================================================
// Fallback Positions
// =============================================================================

// spiralPosition places the n-th node (by current placement count) on a
// golden-angle spiral around the origin.
func (e *Engine) spiralPosition(placedCount int) graph.Point {
	angle := float64(placedCount) * math.Pi * goldenRatio
	radius := e.opts.Spacing * math.Sqrt(float64(placedCount)) * e.opts.PeripheralFactor
	return graph.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}

// ringPosition spaces isolated nodes evenly on a large fixed circle,
// indexed by their position within the isolated group.
func (e *Engine) ringPosition(idx, total int) graph.Point {
	angle := 2 * math.Pi * float64(idx) / float64(total)
	return graph.Point{
		X: e.opts.IsolatedRadius * math.Cos(angle),
		Y: e.opts.IsolatedRadius * math.Sin(angle),
	}
}

// =============================================================================
// Neighbor-Based Placement
// =============================================================================

func (e *Engine) hasPlacedNeighbor(g *graph.Graph, id int64, positions map[int64]graph.Point) bool {
	for _, other := range g.Neighbors(id) {
		if other == id {
			continue
		}
		if _, ok := positions[other]; ok {
			return true
		}
	}
	return false
}

// centroidPosition computes the centrality-weighted centroid of the node's
// already placed neighbors, applies the vertical hierarchy bias, and pulls
// sparsely connected nodes toward the periphery scale.
func (e *Engine) centroidPosition(g *graph.Graph, id int64, positions map[int64]graph.Point) graph.Point {
	var sumX, sumY, sumW float64
	for _, other := range g.Neighbors(id) {
		if other == id {
			continue
		}
		p, ok := positions[other]
		if !ok {
			continue
		}
		w := centrality(g, other)
		if w < 0.1 {
			w = 0.1
		}
		sumX += p.X * w
		sumY += p.Y * w
		sumW += w
	}

	candidate := graph.Point{X: sumX / sumW, Y: sumY / sumW}

	// More children than parents pushes a node downward, more parents than
	// children pulls it upward.
	bias := float64(len(g.Children(id))-len(g.Parents(id))) * e.opts.Spacing * 0.4
	candidate.Y += bias

	if g.Degree(id) <= 2 {
		candidate.X *= e.opts.PeripheralFactor
		candidate.Y *= e.opts.PeripheralFactor
	}
	return candidate
}

// applyRepulsion accumulates a separating force from every placed node
// within two spacing units: inverse-square below the minimum distance,
// linear falloff beyond it.
func (e *Engine) applyRepulsion(candidate graph.Point, id int64, placed []int64, positions map[int64]graph.Point) graph.Point {
	radius := 2 * e.opts.Spacing
	var forceX, forceY float64

	for _, other := range placed {
		p := positions[other]
		dx := candidate.X - p.X
		dy := candidate.Y - p.Y
		dist := math.Hypot(dx, dy)
		if dist >= radius {
			continue
		}
		if dist < 1e-9 {
			// Coincident points have no direction; separate along a
			// node-derived angle so the result stays deterministic.
			angle := separationAngle(id, other)
			dx, dy = math.Cos(angle), math.Sin(angle)
			dist = 1e-9
		} else {
			dx /= dist
			dy /= dist
		}

		var magnitude float64
		if dist < e.opts.MinDistance {
			magnitude = e.opts.MinDistance * e.opts.MinDistance / (dist * dist)
			if magnitude > e.opts.MinDistance {
				magnitude = e.opts.MinDistance
			}
		} else {
			magnitude = (radius - dist) / radius * e.opts.Spacing * 0.25
		}
		forceX += dx * magnitude
		forceY += dy * magnitude
	}

	candidate.X += forceX
	candidate.Y += forceY
	return candidate
}

// resolveCollisions pushes the candidate directly away from any placed node
// closer than the minimum distance, by the exact overlap amount, for at
// most maxCollisionIterations rounds.
func (e *Engine) resolveCollisions(candidate graph.Point, id int64, placed []int64, positions map[int64]graph.Point) graph.Point {
	for iter := 0; iter < maxCollisionIterations; iter++ {
		collided := false
		for _, other := range placed {
			p := positions[other]
			dx := candidate.X - p.X
			dy := candidate.Y - p.Y
			dist := math.Hypot(dx, dy)
			if dist >= e.opts.MinDistance {
				continue
			}
			collided = true

			var angle float64
			if dist < 1e-9 {
				angle = separationAngle(id, other)
			} else {
				angle = math.Atan2(dy, dx)
			}
			overlap := e.opts.MinDistance - dist
			candidate.X += overlap * math.Cos(angle)
			candidate.Y += overlap * math.Sin(angle)
		}
		if !collided {
			break
		}
	}
	return candidate
}

// separationAngle derives a stable angle from two node ids, used when two
// points coincide and there is no geometric direction to push along.
func separationAngle(a, b int64) float64 {
	return float64((a*31+b*17)%360) * math.Pi / 180
}
