// Package api exposes the goalgraph engine over HTTP.
//
// Endpoints:
//
//	GET  /health                      - liveness probe
//	GET  /api/network                 - full positioned network payload
//	GET  /api/network/export          - DOT or SVG export of the network
//	PUT  /api/network/{id}/position   - store a manually dragged position
//	GET  /api/network/{id}/highlight  - directional highlight for one goal
//	POST /api/relationships           - create a validated relationship
//
// The network payload excludes task-kind goals; tasks belong to day-to-day
// views, not the strategic map.
package api

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goalgraph/goalgraph/pkg/pipeline"
	"github.com/goalgraph/goalgraph/pkg/store"
)

// Server wires the pipeline, position store, and snapshot source into an
// HTTP handler.
type Server struct {
	source Source
	runner *pipeline.Runner
	store  store.PositionStore
	opts   pipeline.Options
	logger *log.Logger
}

// NewServer creates a server. A nil logger discards output.
func NewServer(source Source, runner *pipeline.Runner, st store.PositionStore, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if st == nil {
		st = store.NewNullStore()
	}
	opts.Logger = logger
	return &Server{
		source: source,
		runner: runner,
		store:  st,
		opts:   opts,
		logger: logger,
	}
}

// Routes builds the chi router with all endpoints and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/network", s.handleNetwork)
		r.Get("/network/export", s.handleExport)
		r.Put("/network/{id}/position", s.handleSetPosition)
		r.Get("/network/{id}/highlight", s.handleHighlight)
		r.Post("/relationships", s.handleCreateRelationship)
	})

	return r
}
