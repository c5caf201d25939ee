package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the goalgraph CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (layout,
// analyze, issues, export, serve), configures logging based on the
// --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "goalgraph",
		Short:        "Goalgraph lays out and analyzes goal networks",
		Long:         `Goalgraph computes stable positions for goal networks and detects structural issues like cycles, orphaned roots, and mutual dependencies.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("goalgraph %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLayoutCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newIssuesCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
