package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dmelv/labelgrid/pkg/cache"
	"github.com/dmelv/labelgrid/pkg/csvio"
	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/observability"
	"github.com/dmelv/labelgrid/pkg/place"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → search → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	points, skipped, err := r.Load(ctx, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Input, len(points), skipped, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Points = points
	result.PointsHash = HashPoints(points)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.PointCount = len(points)
	result.Stats.SkippedRows = skipped

	r.Logger.Info("loaded points",
		"points", len(points),
		"skipped", skipped,
		"duration", result.Stats.LoadTime)

	// Stage 2: Search
	searchStart := time.Now()
	observability.Pipeline().OnSearchStart(ctx, len(points))
	res, searchHit, err := r.SearchWithCacheInfo(ctx, points, opts)
	searchTime := time.Since(searchStart)
	if err != nil {
		observability.Pipeline().OnSearchComplete(ctx, len(points), 0, 0, searchTime, err)
		return nil, fmt.Errorf("search: %w", err)
	}
	observability.Pipeline().OnSearchComplete(ctx, len(points), res.Trials(), res.Coverage(), searchTime, nil)
	result.Search = res
	result.Stats.SearchTime = searchTime
	result.Stats.Trials = res.Trials()
	result.Stats.Coverage = res.Coverage()
	result.CacheInfo.SearchHit = searchHit

	r.Logger.Info("resolved thresholds",
		"trials", res.Trials(),
		"coverage", fmt.Sprintf("%.1f%%", res.Coverage()*100),
		"duration", result.Stats.SearchTime)

	// Stage 3: Export
	writeStart := time.Now()
	result.Rows = csvio.RowsFromSearch(points, res)
	if opts.Output != "" {
		if err := csvio.ExportRows(opts.Output, result.Rows); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	result.Stats.WriteTime = time.Since(writeStart)

	if opts.Output != "" {
		r.Logger.Info("wrote results",
			"path", opts.Output,
			"rows", len(result.Rows),
			"duration", result.Stats.WriteTime)
	}

	return result, nil
}

// Load reads the point set from the options, either inline or from the
// input file. Returns the points, the count of skipped malformed rows,
// and an error when the set is empty.
func (r *Runner) Load(ctx context.Context, opts Options) ([]geom.Point, int, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, 0, err
	}

	points := opts.Points
	skipped := 0
	if points == nil {
		var err error
		points, skipped, err = csvio.ImportPoints(opts.Input)
		if err != nil {
			return nil, 0, err
		}
	}
	if len(points) == 0 {
		return nil, skipped, errors.New(errors.ErrCodeNoPoints, "no valid points in input")
	}
	return points, skipped, nil
}

// SearchWithCacheInfo runs the threshold search with caching and returns cache hit info.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, points []geom.Point, opts Options) (*place.SearchResult, bool, error) {
	if err := opts.ValidateForSearch(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.SearchKey(HashPoints(points), opts.SearchKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached place.SearchResult
			if err := json.Unmarshal(data, &cached); err == nil && len(cached.Size) == len(points) {
				observability.Cache().OnCacheHit(ctx, "search")
				return &cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "search")
	}

	res := place.Search(points, opts.SearchOptions())

	// Cache the result
	if !opts.Refresh {
		if data, err := json.Marshal(res); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLSearch) == nil {
				observability.Cache().OnCacheSet(ctx, "search", len(data))
			}
		}
	}

	return res, false, nil // Cache miss
}

// Search is a convenience wrapper that calls SearchWithCacheInfo and discards the cache hit info.
func (r *Runner) Search(ctx context.Context, points []geom.Point, opts Options) (*place.SearchResult, error) {
	res, _, err := r.SearchWithCacheInfo(ctx, points, opts)
	return res, err
}

// PlaceWithCacheInfo runs one placement pass at a shared size with caching
// and returns cache hit info.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, points []geom.Point, size float64, refresh bool) ([]csvio.Row, bool, error) {
	if size <= 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidOptions, "size must be positive")
	}
	if len(points) == 0 {
		return nil, false, errors.New(errors.ErrCodeNoPoints, "no points to place")
	}

	cacheKey := r.Keyer.PlacementKey(HashPoints(points), size)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []csvio.Row
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) == len(points) {
				observability.Cache().OnCacheHit(ctx, "place")
				return cached, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "place")
	}

	placeStart := time.Now()
	cs := geom.GenerateCandidates(points, size)
	rects := place.PlaceOnce(cs)
	rows := csvio.RowsFromPlacement(cs)
	observability.Pipeline().OnPlaceComplete(ctx, len(points), len(rects), size, time.Since(placeStart))

	if !refresh {
		if data, err := json.Marshal(rows); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLPlacement) == nil {
				observability.Cache().OnCacheSet(ctx, "place", len(data))
			}
		}
	}

	return rows, false, nil // Cache miss
}

// Place is a convenience wrapper that calls PlaceWithCacheInfo and discards the cache hit info.
func (r *Runner) Place(ctx context.Context, points []geom.Point, size float64) ([]csvio.Row, error) {
	rows, _, err := r.PlaceWithCacheInfo(ctx, points, size, false)
	return rows, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
