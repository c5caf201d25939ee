package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalgraph/goalgraph/pkg/cache"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/pipeline"
)

// newLayoutCmd creates the layout command for computing node positions.
func newLayoutCmd() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Compute node positions for a goal snapshot",
		Long: `Compute node positions for a goal snapshot.

The layout command takes a snapshot.json file (the raw node/edge list) and
computes a position for every goal. Goals with stored positions keep them;
the rest are placed around their neighbors. The output is a layout.json file
that can be exported to DOT/SVG using the 'export' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even on a cache hit")

	cmd.Flags().Float64Var(&opts.Spacing, "spacing", 0, "base distance between related goals")
	cmd.Flags().Float64Var(&opts.MinDistance, "min-distance", 0, "minimum separation between goals")
	cmd.Flags().Float64Var(&opts.PeripheralFactor, "peripheral-factor", 0, "scale applied to sparsely connected goals")
	cmd.Flags().Float64Var(&opts.IsolatedRadius, "isolated-radius", 0, "ring radius for goals without relationships")

	return cmd
}

// layoutFile is the output format of the layout command: renderer-ready
// nodes and edges.
type layoutFile struct {
	Nodes []pipeline.PositionedNode `json:"nodes"`
	Edges []pipeline.StyledEdge     `json:"edges"`
}

// runLayout loads the snapshot, computes positions, and writes the output.
func runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := graph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := writeLayoutFile(layoutFile{Nodes: result.Nodes, Edges: result.Edges}, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Export", "goalgraph export "+input)

	return nil
}

func writeLayoutFile(lf layoutFile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(lf)
}

// newRunner builds a pipeline runner with the local file cache, or no cache
// at all when disabled.
func newRunner(noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return pipeline.NewRunner(cache.NewNullCache(), nil), nil
	}
	c, err := cache.NewFileCache(filepath.Join(base, "goalgraph"))
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil), nil
}
