package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalgraph/goalgraph/pkg/export"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/pipeline"
)

// newExportCmd creates the export command for DOT/SVG output.
func newExportCmd() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
	)
	exportOpts := export.Options{}

	cmd := &cobra.Command{
		Use:   "export [snapshot.json]",
		Short: "Export a goal snapshot as DOT or SVG",
		Long: `Export a goal snapshot as DOT or SVG.

Positions are computed (or taken from the cache) and pinned in the output,
so the picture matches what an interactive client shows. With --highlights,
goals are colored by their structural issue category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], output, format, exportOpts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&exportOpts.Detailed, "detailed", false, "include kind and importance in labels")
	cmd.Flags().BoolVar(&exportOpts.Highlights, "highlights", false, "color goals by structural issue")

	return cmd
}

func runExport(ctx context.Context, input, output, format string, exportOpts export.Options, noCache bool) error {
	if format != "dot" && format != "svg" {
		return fmt.Errorf("unknown format %q (must be dot or svg)", format)
	}

	snap, err := graph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	opts := pipeline.Options{Logger: loggerFromContext(ctx)}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	dot := export.ToDOT(result, exportOpts)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = export.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Export complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)

	return nil
}
