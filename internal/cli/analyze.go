package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalgraph/goalgraph/pkg/analysis"
	"github.com/goalgraph/goalgraph/pkg/graph"
)

// newAnalyzeCmd creates the analyze command for structural issue detection.
func newAnalyzeCmd() *cobra.Command {
	var (
		subgraph string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [snapshot.json]",
		Short: "Detect structural issues in a goal snapshot",
		Long: `Detect structural issues in a goal snapshot.

Reports roots (no incoming relationships), leaves (no outgoing), mutual
pairs, self-references, circular dependencies, and triangles. Only child
relationships participate; queue relationships never form cycles.

With --subgraph, the analysis is restricted to the given goal ids: only
relationships between two selected goals count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], subgraph, asJSON)
		},
	}

	cmd.Flags().StringVar(&subgraph, "subgraph", "", "comma-separated goal ids to restrict the analysis to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")

	return cmd
}

func runAnalyze(ctx context.Context, input, subgraph string, asJSON bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	snap, err := graph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	g := snap.Build()

	var report analysis.Report
	if subgraph == "" {
		report = analysis.Analyze(g)
	} else {
		ids, err := parseIDList(subgraph)
		if err != nil {
			return err
		}
		report = analysis.AnalyzeSubgraph(g, ids)
	}
	prog.done(fmt.Sprintf("Analyzed %d goals", g.NodeCount()))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(g, report)
	return nil
}

func printReport(g *graph.Graph, r analysis.Report) {
	fmt.Println(StyleTitle.Render("Structural Analysis"))
	printNewline()

	printIDList("Roots", g, r.Roots)
	printIDList("Leaves", g, r.Leaves)
	printIDList("Self-references", g, r.SelfLoops)

	if len(r.MutualPairs) > 0 {
		printWarning("%d mutual pair(s)", len(r.MutualPairs))
		for _, p := range r.MutualPairs {
			printDetail("%s <> %s", goalLabel(g, p.A), goalLabel(g, p.B))
		}
	} else {
		printInfo("No mutual pairs")
	}

	if len(r.Cycles) > 0 {
		printWarning("%d circular dependency group(s)", len(r.Cycles))
		for _, cycle := range r.Cycles {
			printDetail("%s", joinLabels(g, cycle))
		}
	} else {
		printInfo("No circular dependencies")
	}

	if len(r.Triangles) > 0 {
		printWarning("%d triangle(s)", len(r.Triangles))
		for _, tri := range r.Triangles {
			printDetail("%s", joinLabels(g, tri[:]))
		}
	}
}

func printIDList(label string, g *graph.Graph, ids []int64) {
	if len(ids) == 0 {
		printInfo("No %s", strings.ToLower(label))
		return
	}
	printInfo("%s (%d)", label, len(ids))
	for _, id := range ids {
		printDetail("%s", goalLabel(g, id))
	}
}

func goalLabel(g *graph.Graph, id int64) string {
	if n := g.Node(id); n != nil && n.Name != "" {
		return fmt.Sprintf("%s (#%d)", n.Name, id)
	}
	return fmt.Sprintf("#%d", id)
}

func joinLabels(g *graph.Graph, ids []int64) string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = goalLabel(g, id)
	}
	return strings.Join(labels, ", ")
}

func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid goal id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
