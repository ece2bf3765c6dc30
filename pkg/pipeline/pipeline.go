// Package pipeline provides the core labeling pipeline for Labelgrid.
//
// This package implements the complete load → search → export pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read anchor points from a CSV file or an inline point set
//  2. Search: Resolve the per-point threshold label sizes
//  3. Export: Write the per-point results as CSV rows
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:  "points.csv",
//	    Output: "labels.csv",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Run individual stages:
//
//	// Search only, with points already in hand
//	res, err := runner.Search(ctx, points, searchOpts)
//
//	// One placement pass at a fixed size
//	rows, err := runner.Place(ctx, points, 0.5)
package pipeline

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dmelv/labelgrid/pkg/cache"
	"github.com/dmelv/labelgrid/pkg/csvio"
	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/place"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the labeling pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Points takes precedence over Input when both are set.
	Input  string       `json:"input,omitempty"`
	Points []geom.Point `json:"points,omitempty"`

	// Search options. Zero values fall back to the search defaults.
	SMin       float64 `json:"smin,omitempty"`
	SMax       float64 `json:"smax,omitempty"`
	EpsRel     float64 `json:"eps_rel,omitempty"`
	Growth     float64 `json:"growth,omitempty"`
	MaxGrowth  int     `json:"max_growth,omitempty"`
	MaxRefine  int     `json:"max_refine,omitempty"`
	PreSamples int     `json:"pre_samples,omitempty"`

	// SingleSample skips the log-spaced pre-sampling sweep, leaving the
	// growth ladder to bracket on its own (default: false = sweep on).
	SingleSample bool `json:"single_sample,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Export options
	Output string `json:"output,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Points is the loaded point set in input order.
	Points []geom.Point

	// PointsHash is the content hash of the point set.
	PointsHash string

	// Search is the per-point threshold outcome.
	Search *place.SearchResult

	// Rows are the export records, one per point in input order.
	Rows []csvio.Row

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PointCount  int
	SkippedRows int
	Trials      int
	Coverage    float64
	LoadTime    time.Duration
	SearchTime  time.Duration
	WriteTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SearchHit    bool // Whether the search result came from cache
	PlacementHit bool // Whether a single placement pass came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSearch(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && o.Points == nil {
		return errors.New(errors.ErrCodeInvalidOptions, "input file or inline points required")
	}
	if o.Input != "" {
		if err := errors.ValidatePath(o.Input); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForSearch checks the search parameters.
func (o *Options) ValidateForSearch() error {
	if err := errors.ValidateSearchRange(o.SMin, o.SMax); err != nil {
		return err
	}
	if o.Growth != 0 {
		if err := errors.ValidateGrowth(o.Growth); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SearchOptions maps the pipeline options onto the search tuning.
// Zero values stay zero so the search applies its own defaults.
func (o *Options) SearchOptions() place.SearchOptions {
	return place.SearchOptions{
		SMin:        o.SMin,
		SMax:        o.SMax,
		EpsRel:      o.EpsRel,
		Growth:      o.Growth,
		MaxGrowth:   o.MaxGrowth,
		MaxRefine:   o.MaxRefine,
		MultiSample: !o.SingleSample,
		PreSamples:  o.PreSamples,
	}
}

// SearchKeyOpts returns cache key options for the threshold search.
func (o *Options) SearchKeyOpts() cache.SearchKeyOpts {
	return cache.SearchKeyOpts{
		SMin:        o.SMin,
		SMax:        o.SMax,
		EpsRel:      o.EpsRel,
		Growth:      o.Growth,
		MaxGrowth:   o.MaxGrowth,
		MaxRefine:   o.MaxRefine,
		MultiSample: !o.SingleSample,
		PreSamples:  o.PreSamples,
	}
}

// =============================================================================
// Point Hashing
// =============================================================================

// HashPoints returns a stable content hash of a point set, suitable for
// cache keys. Order matters: permuted inputs hash differently, matching
// the index-order tie-breaking of the placement passes.
func HashPoints(points []geom.Point) string {
	buf := make([]byte, 0, len(points)*16)
	var scratch [8]byte
	for _, p := range points {
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(p.X))
		buf = append(buf, scratch[:]...)
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(p.Y))
		buf = append(buf, scratch[:]...)
	}
	return cache.Hash(buf)
}
