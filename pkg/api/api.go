// Package api provides the HTTP API for labeling runs.
//
// # Overview
//
// The API exposes the same pipeline the CLI uses:
//
//   - POST /v1/placements: one greedy pass at a fixed size
//   - POST /v1/thresholds: batched threshold search, result stored under a run ID
//   - GET /v1/thresholds/{id}: fetch a stored run
//   - GET /v1/thresholds: list recent runs
//   - GET /healthz: liveness probe
//
// Points are submitted inline as JSON; results come back as the same rows
// the CSV export writes, plus run metadata. Search results are cached
// through the runner, so resubmitting an identical point set is cheap.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	srv := api.NewServer(runner, store.NewMemoryStore(), logger)
//	http.ListenAndServe(":8080", srv.Router())
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmelv/labelgrid/pkg/observability"
	"github.com/dmelv/labelgrid/pkg/pipeline"
	"github.com/dmelv/labelgrid/pkg/store"
)

// Server wires the pipeline runner and run store into HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server.
// If runner is nil, an uncached runner is used.
// If st is nil, runs are kept in memory.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/placements", s.handlePlacement)
		r.Post("/thresholds", s.handleThresholds)
		r.Get("/thresholds", s.handleListRuns)
		r.Get("/thresholds/{id}", s.handleGetRun)
	})
	return r
}

// logRequests records request timing on the logger and the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)
		observability.HTTP().OnRequestComplete(req.Context(), req.Method, req.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
