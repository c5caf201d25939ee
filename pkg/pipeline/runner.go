package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goalgraph/goalgraph/pkg/analysis"
	"github.com/goalgraph/goalgraph/pkg/cache"
	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/layout"
	"github.com/goalgraph/goalgraph/pkg/store"
)

// Runner executes the pipeline stages with caching and position persistence.
type Runner struct {
	cache cache.Cache
	keyer cache.Keyer
	store store.PositionStore
}

// NewRunner creates a pipeline runner.
// A nil cache disables caching; a nil store disables position persistence.
func NewRunner(c cache.Cache, s store.PositionStore) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if s == nil {
		s = store.NewNullStore()
	}
	return &Runner{
		cache: c,
		keyer: cache.NewDefaultKeyer(),
		store: s,
	}
}

// Execute runs the full build → layout → analyze pass over a snapshot.
func (r *Runner) Execute(ctx context.Context, snap graph.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	// Stage 1: Build
	buildStart := time.Now()
	g := snap.Build()
	prior, err := r.loadPrior(ctx, g)
	if err != nil {
		return nil, err
	}
	hash, err := contentHash(snap, prior)
	if err != nil {
		return nil, err
	}
	result := &Result{Graph: g, GraphHash: hash}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.BuildTime = time.Since(buildStart)
	logger.Debug("graph built",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(), "hash", hash[:12])

	// Stage 2: Layout
	layoutStart := time.Now()
	positions, hit := r.cachedPositions(ctx, g, hash, opts)
	if !hit {
		positions = layout.New(opts.LayoutOptions()).Layout(g, prior)
		r.storePositions(ctx, hash, positions, opts)
	}
	result.Positions = positions
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)
	logger.Debug("layout computed", "cache_hit", hit, "took", result.Stats.LayoutTime)

	if opts.CommitPositions {
		r.commitPositions(positions, prior, logger)
	}

	// Stage 3: Analyze
	analyzeStart := time.Now()
	result.Report = analysis.Analyze(g)
	result.Highlights = analysis.AggregateHighlights(g, result.Report)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)

	scores := graph.Score(g)
	result.Nodes = projectNodes(g, positions, scores)
	result.Edges = projectEdges(g, scores)

	return result, nil
}

// loadPrior merges store-held positions with those embedded in the snapshot.
// Snapshot positions win: they are what the user most recently saw.
func (r *Runner) loadPrior(ctx context.Context, g *graph.Graph) (map[int64]graph.Point, error) {
	prior, err := r.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load stored positions")
	}
	for id, p := range g.PriorPositions() {
		prior[id] = p
	}
	// Positions for nodes absent from this snapshot must not leak in.
	for id := range prior {
		if !g.HasNode(id) {
			delete(prior, id)
		}
	}
	return prior, nil
}

func (r *Runner) cachedPositions(ctx context.Context, g *graph.Graph, hash string, opts Options) (map[int64]graph.Point, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.cache.Get(ctx, r.keyer.LayoutKey(hash, opts.LayoutKeyOpts()))
	if err != nil || !hit {
		return nil, false
	}
	var positions map[int64]graph.Point
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, false
	}
	// A cached entry must cover exactly the current node set.
	if len(positions) != g.NodeCount() {
		return nil, false
	}
	for _, id := range g.NodeIDs() {
		if _, ok := positions[id]; !ok {
			return nil, false
		}
	}
	return positions, true
}

func (r *Runner) storePositions(ctx context.Context, hash string, positions map[int64]graph.Point, opts Options) {
	data, err := json.Marshal(positions)
	if err != nil {
		return
	}
	_ = r.cache.Set(ctx, r.keyer.LayoutKey(hash, opts.LayoutKeyOpts()), data, opts.CacheTTL)
}

// commitPositions persists newly computed positions in the background so a
// slow backend never delays the response. Only nodes that gained a position
// this run are written; reused priors are already stored.
func (r *Runner) commitPositions(positions, prior map[int64]graph.Point, logger *log.Logger) {
	fresh := make(map[int64]graph.Point)
	for id, p := range positions {
		if _, had := prior[id]; !had {
			fresh[id] = p
		}
	}
	if len(fresh) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultCommitTimeout)
		defer cancel()
		err := store.RetryWithBackoff(ctx, func() error {
			if err := r.store.Commit(ctx, fresh); err != nil {
				return store.Retryable(err)
			}
			return nil
		})
		if err != nil {
			logger.Warn("position commit failed", "count", len(fresh), "err", err)
		}
	}()
}

// contentHash hashes the snapshot together with the effective prior
// positions. encoding/json emits map keys in sorted order, so the payload is
// deterministic.
func contentHash(snap graph.Snapshot, prior map[int64]graph.Point) (string, error) {
	payload := struct {
		Snapshot graph.Snapshot        `json:"snapshot"`
		Prior    map[int64]graph.Point `json:"prior"`
	}{snap, prior}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash snapshot")
	}
	return cache.Hash(data), nil
}

// =============================================================================
// Renderer Projections
// =============================================================================

// projectNodes maps importance onto node size: the base diameter plus a
// square-root ramp, so a hub is visibly larger without dwarfing the graph.
func projectNodes(g *graph.Graph, positions map[int64]graph.Point, scores graph.Scores) []PositionedNode {
	nodes := make([]PositionedNode, 0, g.NodeCount())
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		p := positions[id]
		imp := scores.Node[id]
		nodes = append(nodes, PositionedNode{
			ID:         id,
			Name:       n.Name,
			Kind:       n.Kind,
			Completed:  n.Completed,
			X:          p.X,
			Y:          p.Y,
			Size:       baseNodeSize + 4*math.Sqrt(imp),
			Importance: imp,
		})
	}
	return nodes
}

// projectEdges maps edge importance onto stroke width (capped) and opacity.
func projectEdges(g *graph.Graph, scores graph.Scores) []StyledEdge {
	edges := make([]StyledEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		imp := scores.Edge[e.Key()]
		width := baseEdgeWidth + imp/8
		if width > 4 {
			width = 4
		}
		opacity := 0.35 + imp/40
		if opacity > 0.9 {
			opacity = 0.9
		}
		edges = append(edges, StyledEdge{
			From:     e.From,
			To:       e.To,
			Relation: e.Relation,
			Width:    width,
			Opacity:  opacity,
		})
	}
	return edges
}
