// Package pipeline provides the core goalgraph engine pipeline.
//
// This package implements the complete build → layout → analyze pass that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Normalize the raw node/edge snapshot into a graph
//  2. Layout: Compute positions, reusing stored ones where present
//  3. Analyze: Detect structural issues and derive highlight sets
//
// Layout results are cached by a hash of the snapshot plus the tuning
// options; the other stages are cheap enough to always run.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, store)
//	result, err := runner.Execute(ctx, snapshot, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, n := range result.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goalgraph/goalgraph/pkg/analysis"
	"github.com/goalgraph/goalgraph/pkg/cache"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCacheTTL is how long cached layout positions stay valid.
	DefaultCacheTTL = time.Hour

	// DefaultCommitTimeout bounds the background position commit after a
	// layout pass.
	DefaultCommitTimeout = 10 * time.Second

	// baseNodeSize is the rendered diameter of a zero-importance node.
	baseNodeSize = 18.0

	// baseEdgeWidth is the rendered stroke width of a zero-importance edge.
	baseEdgeWidth = 1.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout tuning. Zero fields fall back to layout defaults.
	Spacing          float64 `json:"spacing,omitempty"`
	MinDistance      float64 `json:"min_distance,omitempty"`
	PeripheralFactor float64 `json:"peripheral_factor,omitempty"`
	IsolatedRadius   float64 `json:"isolated_radius,omitempty"`

	// Refresh bypasses the layout cache.
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL overrides the layout cache TTL. Zero means DefaultCacheTTL.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// CommitPositions persists computed positions back to the store after
	// the layout stage.
	CommitPositions bool `json:"commit_positions,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	def := layout.DefaultOptions()
	if o.Spacing <= 0 {
		o.Spacing = def.Spacing
	}
	if o.MinDistance <= 0 {
		o.MinDistance = def.MinDistance
	}
	if o.PeripheralFactor <= 0 {
		o.PeripheralFactor = def.PeripheralFactor
	}
	if o.IsolatedRadius <= 0 {
		o.IsolatedRadius = def.IsolatedRadius
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions converts the tuning fields into engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Spacing:          o.Spacing,
		MinDistance:      o.MinDistance,
		PeripheralFactor: o.PeripheralFactor,
		IsolatedRadius:   o.IsolatedRadius,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Spacing:          o.Spacing,
		MinDistance:      o.MinDistance,
		PeripheralFactor: o.PeripheralFactor,
		IsolatedRadius:   o.IsolatedRadius,
	}
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// PositionedNode is a node with its computed position and visual weight,
// ready for a renderer.
type PositionedNode struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name,omitempty"`
	Kind       graph.Kind `json:"kind"`
	Completed  bool       `json:"completed,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Size       float64    `json:"size"`
	Importance float64    `json:"importance"`
}

// StyledEdge is an edge with its derived stroke styling.
type StyledEdge struct {
	From     int64          `json:"from"`
	To       int64          `json:"to"`
	Relation graph.Relation `json:"relationship_type"`
	Width    float64        `json:"width"`
	Opacity  float64        `json:"opacity"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the normalized graph the run operated on.
	Graph *graph.Graph

	// GraphHash is the content hash of the snapshot plus prior positions.
	GraphHash string

	// Positions maps every node id to its computed position.
	Positions map[int64]graph.Point

	// Nodes and Edges are the renderer-ready projections, sorted by id.
	Nodes []PositionedNode
	Edges []StyledEdge

	// Report is the structural analysis of the full graph.
	Report analysis.Report

	// Highlights aggregates the report into renderer highlight sets.
	Highlights analysis.Aggregate

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	BuildTime   time.Duration
	LayoutTime  time.Duration
	AnalyzeTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout positions came from cache
}
