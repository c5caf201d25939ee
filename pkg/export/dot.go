// Package export renders a pipeline result to Graphviz DOT and SVG.
//
// Positions computed by the layout engine are pinned (pos="x,y!"), so the
// exported picture matches what an interactive client shows instead of
// letting Graphviz re-layout the graph.
package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/goalgraph/goalgraph/pkg/analysis"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/pipeline"
)

// Options configures DOT export.
type Options struct {
	// Detailed includes kind and importance in node labels.
	// When false, only the node name (or id) is shown.
	Detailed bool

	// Highlights colors nodes by their structural issue category.
	Highlights bool
}

// dotScale converts layout pixels to Graphviz points.
const dotScale = 0.75

// Category fill colors for highlighted nodes.
var categoryColors = map[analysis.Category]string{
	analysis.CategoryRoot:   "lightblue",
	analysis.CategoryLeaf:   "lightyellow",
	analysis.CategoryMutual: "orange",
	analysis.CategoryCycle:  "lightcoral",
}

// ToDOT converts a pipeline result to Graphviz DOT format with pinned
// positions. The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(result *pipeline.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range result.Nodes {
		attrs := nodeAttrs(n, result.Highlights, opts)
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range result.Edges {
		attrs := []string{fmt.Sprintf("penwidth=%.2f", e.Width)}
		if e.Relation == graph.RelationQueue {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n pipeline.PositionedNode, highlights analysis.Aggregate, opts Options) []string {
	label := n.Name
	if label == "" {
		label = strconv.FormatInt(n.ID, 10)
	}
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s / %.0f", label, n.Kind, n.Importance)
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		// Graphviz Y grows upward; layout Y grows downward.
		fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X*dotScale, -n.Y*dotScale),
		fmt.Sprintf("width=%.2f", n.Size/72),
	}
	if opts.Highlights {
		if color := highlightColor(highlights, n.ID); color != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%s", color))
		}
	}
	return attrs
}

// highlightColor picks the color of the most severe category a node carries.
// Cycle beats mutual beats root beats leaf.
func highlightColor(highlights analysis.Aggregate, id int64) string {
	categories := highlights.NodeIssues[id]
	for _, c := range []analysis.Category{
		analysis.CategoryCycle,
		analysis.CategoryMutual,
		analysis.CategoryRoot,
		analysis.CategoryLeaf,
	} {
		for _, got := range categories {
			if got == c {
				return categoryColors[c]
			}
		}
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
