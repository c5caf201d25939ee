package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goalgraph/goalgraph/pkg/analysis"
	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/export"
	"github.com/goalgraph/goalgraph/pkg/graph"
	"github.com/goalgraph/goalgraph/pkg/pipeline"
)

// networkResponse is the GET /api/network payload.
type networkResponse struct {
	Nodes      []pipeline.PositionedNode `json:"nodes"`
	Edges      []pipeline.StyledEdge     `json:"edges"`
	Report     analysis.Report           `json:"report"`
	Highlights analysis.Aggregate        `json:"highlights"`
	Stats      networkStats              `json:"stats"`
}

type networkStats struct {
	NodeCount      int  `json:"node_count"`
	EdgeCount      int  `json:"edge_count"`
	LayoutCacheHit bool `json:"layout_cache_hit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	result, err := s.run(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, networkResponse{
		Nodes:      result.Nodes,
		Edges:      result.Edges,
		Report:     result.Report,
		Highlights: result.Highlights,
		Stats: networkStats{
			NodeCount:      result.Stats.NodeCount,
			EdgeCount:      result.Stats.EdgeCount,
			LayoutCacheHit: result.CacheInfo.LayoutHit,
		},
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.run(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := export.Options{
		Detailed:   r.URL.Query().Get("detailed") == "true",
		Highlights: r.URL.Query().Get("highlights") == "true",
	}
	dot := export.ToDOT(result, opts)

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := export.RenderSVG(dot)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", format))
	}
}

// positionRequest is the PUT /api/network/{id}/position body.
type positionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body positionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode position body"))
		return
	}
	p := graph.Point{X: body.X, Y: body.Y}
	if !p.Valid() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "position coordinates must be finite"))
		return
	}

	g, err := s.networkGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !g.HasNode(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "goal %d not found", id))
		return
	}

	if err := s.store.SetPosition(r.Context(), id, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.networkGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !g.HasNode(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "goal %d not found", id))
		return
	}

	respondJSON(w, http.StatusOK, analysis.DirectionalHighlight(g, id))
}

// relationshipRequest is the POST /api/relationships body.
type relationshipRequest struct {
	From     int64  `json:"from"`
	To       int64  `json:"to"`
	Relation string `json:"relationship_type"`
}

func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	var body relationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode relationship body"))
		return
	}

	rel, err := graph.ValidateRelationship(body.From, body.To, body.Relation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mutable, ok := s.source.(MutableSource)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "snapshot source is read-only"))
		return
	}

	edge := graph.Edge{From: body.From, To: body.To, Relation: rel}
	if err := mutable.AddEdge(r.Context(), edge); err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, edge)
}

// =============================================================================
// Helpers
// =============================================================================

// run executes the pipeline over the task-filtered snapshot.
func (s *Server) run(r *http.Request) (*pipeline.Result, error) {
	snap, err := s.source.Snapshot(r.Context())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load snapshot")
	}
	opts := s.opts
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	return s.runner.Execute(r.Context(), filterTasks(snap), opts)
}

// networkGraph builds the task-filtered graph without running layout.
func (s *Server) networkGraph(r *http.Request) (*graph.Graph, error) {
	snap, err := s.source.Snapshot(r.Context())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load snapshot")
	}
	return filterTasks(snap).Build(), nil
}

// filterTasks drops task-kind goals and every edge touching one.
func filterTasks(snap graph.Snapshot) graph.Snapshot {
	keep := make(map[int64]bool, len(snap.Nodes))
	var nodes []graph.Node
	for _, n := range snap.Nodes {
		if n.Kind == graph.KindTask {
			continue
		}
		keep[n.ID] = true
		nodes = append(nodes, n)
	}
	var edges []graph.Edge
	for _, e := range snap.Edges {
		if keep[e.From] && keep[e.To] {
			edges = append(edges, e)
		}
	}
	return graph.Snapshot{Nodes: nodes, Edges: edges}
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid goal id %q", raw)
	}
	return id, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	respondJSON(w, status, errorResponse{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidRelation, errors.ErrCodeInvalidKind,
		errors.ErrCodeSelfRelation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeStore, errors.ErrCodeStoreConfig:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
