package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmelv/labelgrid/pkg/csvio"
	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/pipeline"
	"github.com/dmelv/labelgrid/pkg/store"
)

// PlacementRequest asks for one greedy pass at a shared size.
type PlacementRequest struct {
	Points  []geom.Point `json:"points"`
	Size    float64      `json:"size"`
	Refresh bool         `json:"refresh,omitempty"`
}

// PlacementResponse carries the per-point outcome of a placement pass.
type PlacementResponse struct {
	Rows     []csvio.Row `json:"rows"`
	Labeled  int         `json:"labeled"`
	CacheHit bool        `json:"cache_hit"`
}

// ThresholdRequest asks for a batched threshold search.
type ThresholdRequest struct {
	Points       []geom.Point `json:"points"`
	SMin         float64      `json:"smin,omitempty"`
	SMax         float64      `json:"smax,omitempty"`
	EpsRel       float64      `json:"eps_rel,omitempty"`
	Growth       float64      `json:"growth,omitempty"`
	MaxGrowth    int          `json:"max_growth,omitempty"`
	MaxRefine    int          `json:"max_refine,omitempty"`
	PreSamples   int          `json:"pre_samples,omitempty"`
	SingleSample bool         `json:"single_sample,omitempty"`
	Refresh      bool         `json:"refresh,omitempty"`
}

func (r *ThresholdRequest) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Points:       r.Points,
		SMin:         r.SMin,
		SMax:         r.SMax,
		EpsRel:       r.EpsRel,
		Growth:       r.Growth,
		MaxGrowth:    r.MaxGrowth,
		MaxRefine:    r.MaxRefine,
		PreSamples:   r.PreSamples,
		SingleSample: r.SingleSample,
		Refresh:      r.Refresh,
	}
}

// ThresholdResponse carries a stored run plus cache info for this request.
type ThresholdResponse struct {
	Run      *store.Run `json:"run"`
	CacheHit bool       `json:"cache_hit"`
}

// ListResponse carries recent runs without their rows.
type ListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// RunSummary is a run without its per-point rows.
type RunSummary struct {
	ID         string  `json:"id"`
	CreatedAt  string  `json:"created_at"`
	PointsHash string  `json:"points_hash"`
	PointCount int     `json:"point_count"`
	Coverage   float64 `json:"coverage"`
	Trials     int     `json:"trials"`
}

func (s *Server) handlePlacement(w http.ResponseWriter, req *http.Request) {
	var body PlacementRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}

	rows, hit, err := s.runner.PlaceWithCacheInfo(req.Context(), body.Points, body.Size, body.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	labeled := 0
	for _, row := range rows {
		if row.Labeled {
			labeled++
		}
	}
	writeJSON(w, http.StatusOK, PlacementResponse{Rows: rows, Labeled: labeled, CacheHit: hit})
}

func (s *Server) handleThresholds(w http.ResponseWriter, req *http.Request) {
	var body ThresholdRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	if len(body.Points) == 0 {
		writeError(w, errors.New(errors.ErrCodeNoPoints, "points are required"))
		return
	}

	result, err := s.runner.Execute(req.Context(), body.pipelineOptions())
	if err != nil {
		writeError(w, err)
		return
	}

	run := store.NewRun(result.PointsHash, result.Rows, result.Stats.Trials, result.Stats.Coverage)
	if err := s.store.Put(req.Context(), run); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store run"))
		return
	}

	writeJSON(w, http.StatusCreated, ThresholdResponse{Run: run, CacheHit: result.CacheInfo.SearchHit})
}

func (s *Server) handleGetRun(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := errors.ValidateRunID(id); err != nil {
		writeError(w, err)
		return
	}

	run, err := s.store.Get(req.Context(), id)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load run"))
		return
	}
	if run == nil {
		writeError(w, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, ThresholdResponse{Run: run})
}

func (s *Server) handleListRuns(w http.ResponseWriter, req *http.Request) {
	limit := 0
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.store.List(req.Context(), limit)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list runs"))
		return
	}

	resp := ListResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, RunSummary{
			ID:         run.ID,
			CreatedAt:  run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			PointsHash: run.PointsHash,
			PointCount: run.PointCount,
			Coverage:   run.Coverage,
			Trials:     run.Trials,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// errorBody is the JSON error payload.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusForCode maps error codes onto HTTP status codes.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNoPoints:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeRunNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusForCode(errors.GetCode(err)), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
