package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalgraph/goalgraph/internal/api"
	"github.com/goalgraph/goalgraph/internal/config"
	"github.com/goalgraph/goalgraph/pkg/cache"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/pipeline"
	"github.com/goalgraph/goalgraph/pkg/store"
)

// newServeCmd creates the serve command running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		reload     bool
	)

	cmd := &cobra.Command{
		Use:   "serve [snapshot.json]",
		Short: "Serve the goal network over HTTP",
		Long: `Serve the goal network over HTTP.

Loads the snapshot and exposes the network, position, highlight, and
relationship endpoints. By default the snapshot is held in memory and
accepts relationship writes; with --reload it is re-read from disk on every
request and becomes read-only.

Configuration (store backend, cache directory, layout tuning) is read from
a TOML file given with --config; without one, an in-memory position store
and no cache are used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], configPath, listen, reload)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&reload, "reload", false, "re-read the snapshot file on every request (read-only)")

	return cmd
}

func runServe(ctx context.Context, input, configPath, listen string, reload bool) error {
	logger := loggerFromContext(ctx)

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	var source api.Source
	if reload {
		source = api.NewFileSource(input)
	} else {
		snap, err := graph.ReadSnapshotFile(input)
		if err != nil {
			return fmt.Errorf("load snapshot %s: %w", input, err)
		}
		source = api.NewMemorySource(snap)
	}

	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	var c cache.Cache = cache.NewNullCache()
	if cfg.Cache.Dir != "" {
		c, err = cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("open cache %s: %w", cfg.Cache.Dir, err)
		}
	}

	opts := cfg.PipelineOptions()
	opts.CommitPositions = true
	srv := api.NewServer(source, pipeline.NewRunner(c, st), st, opts, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("serving goal network", "addr", cfg.Server.Listen, "store", cfg.Store.Backend)
	printInfo("Listening on %s", cfg.Server.Listen)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
