package place

import (
	"math"
	"sort"

	"github.com/dmelv/labelgrid/pkg/geom"
)

// Search tuning defaults, shared with the CLI flag definitions.
const (
	DefaultSMin      = 1e-4
	DefaultEpsRel    = 6e-5
	DefaultGrowth    = 1.2
	DefaultMaxGrowth = 56
	DefaultMaxRefine = 64
)

// SearchOptions tune the threshold search. The zero value of any field
// falls back to a sensible default at search time, so callers usually
// start from DefaultSearchOptions and override selectively.
type SearchOptions struct {
	// SMin and SMax bound the sizes tried. SMax <= 0 derives the bound
	// from the point span.
	SMin float64
	SMax float64

	// EpsRel is the resolution tolerance relative to the search range.
	EpsRel float64

	// Growth is the multiplicative step of the growth phase and also
	// shapes the automatic pre-sample count.
	Growth float64

	MaxGrowth int
	MaxRefine int

	// MultiSample prepends a log-spaced sweep over the whole range to the
	// growth phase, which brackets non-monotone survival patterns the
	// growth ladder alone would miss.
	MultiSample bool

	// PreSamples is the sweep trial count; <= 0 derives it from the
	// range and growth factor.
	PreSamples int
}

// DefaultSearchOptions returns the standard tuning with the sweep enabled.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		SMin:        DefaultSMin,
		EpsRel:      DefaultEpsRel,
		Growth:      DefaultGrowth,
		MaxGrowth:   DefaultMaxGrowth,
		MaxRefine:   DefaultMaxRefine,
		MultiSample: true,
	}
}

func (o SearchOptions) withDefaults(points []geom.Point) SearchOptions {
	if o.SMin <= 0 {
		o.SMin = DefaultSMin
	}
	if o.SMin < geom.MinSize {
		o.SMin = geom.MinSize
	}
	if o.SMax <= 0 {
		o.SMax = geom.Span(points)
	}
	if o.SMax < o.SMin {
		o.SMax = o.SMin
	}
	if o.Growth <= 1 {
		o.Growth = DefaultGrowth
	}
	if o.MaxGrowth <= 0 {
		o.MaxGrowth = DefaultMaxGrowth
	}
	if o.MaxRefine <= 0 {
		o.MaxRefine = DefaultMaxRefine
	}
	if o.EpsRel <= 0 {
		o.EpsRel = DefaultEpsRel
	}
	return o
}

// SearchResult holds the per-point outcome of a threshold search plus the
// effective parameters and trial counts, mostly for reporting.
type SearchResult struct {
	// Size is the largest size at which point i still received a label,
	// resolved to within Eps. Points that were never labeled keep SMin
	// here and false in Labeled.
	Size    []float64
	Corner  []geom.Corner
	Labeled []bool

	SMin float64
	SMax float64
	Eps  float64

	SweepRuns  int
	GrowthRuns int
	RefineRuns int
}

// Trials returns the total number of placement passes the search ran.
func (r *SearchResult) Trials() int {
	return r.SweepRuns + r.GrowthRuns + r.RefineRuns
}

// Coverage returns the labeled fraction of the point set, in [0, 1].
func (r *SearchResult) Coverage() float64 {
	if len(r.Labeled) == 0 {
		return 0
	}
	n := 0
	for _, ok := range r.Labeled {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(r.Labeled))
}

// Search computes, per point, the largest label size at which the point
// still receives a label when the whole set is placed together at that
// size under a fixed corner assignment.
//
// Every trial is one full placement pass at a single shared size, so a
// search over n points costs trials, not n searches. Per-point intervals
// [lo, hi] are narrowed in three sequential phases: an optional log-spaced
// sweep, a multiplicative growth ladder over the points still open, then
// batched bisection where each round runs one trial at the median of the
// open intervals' midpoints.
func Search(points []geom.Point, opts SearchOptions) *SearchResult {
	n := len(points)
	opts = opts.withDefaults(points)

	res := &SearchResult{
		Size:    make([]float64, n),
		Corner:  make([]geom.Corner, n),
		Labeled: make([]bool, n),
		SMin:    opts.SMin,
		SMax:    opts.SMax,
		Eps:     (opts.SMax-opts.SMin)*opts.EpsRel + 1e-6,
	}
	if n == 0 {
		return res
	}

	corners := ChooseFixedCorners(points)
	cs := geom.GenerateCandidates(points, opts.SMin)

	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := 0; i < n; i++ {
		lo[i] = opts.SMin
		hi[i] = opts.SMax
		res.Size[i] = opts.SMin
		res.Corner[i] = geom.TopLeft
	}

	trial := func(s float64) []bool {
		cs.SetSize(s)
		PlaceFixed(cs, corners)
		alive := make([]bool, n)
		for i := 0; i < n; i++ {
			alive[i] = cs.Chosen(i) != nil
		}
		return alive
	}

	mark := func(i int, s float64) {
		lo[i] = s
		res.Size[i] = s
		res.Corner[i] = corners[i]
		res.Labeled[i] = true
	}

	if opts.MultiSample {
		k := opts.PreSamples
		if k <= 0 {
			k = int(math.Ceil(math.Log(opts.SMax/opts.SMin) / math.Log(opts.Growth)))
			if k < 8 {
				k = 8
			}
		}
		logLo := math.Log(opts.SMin)
		logHi := math.Log(opts.SMax)
		for t := 0; t < k; t++ {
			f := 0.0
			if k > 1 {
				f = float64(t) / float64(k-1)
			}
			s := math.Exp(logLo + f*(logHi-logLo))
			alive := trial(s)
			res.SweepRuns++
			for i := 0; i < n; i++ {
				if alive[i] {
					if s >= lo[i] {
						mark(i, s)
					}
				} else if s < hi[i] {
					hi[i] = s
				}
			}
		}
	}

	// Growth ladder, over the points still open. After a sweep this
	// tightens lo within the bracketed intervals; without one it does the
	// initial bracketing on its own.
	grow := make([]bool, n)
	for i := range grow {
		grow[i] = true
	}
	s := opts.SMin
	for g := 0; g < opts.MaxGrowth; g++ {
		any := false
		for i := 0; i < n; i++ {
			if grow[i] && (s >= hi[i] || hi[i]-lo[i] <= res.Eps) {
				grow[i] = false
			}
			if grow[i] {
				any = true
			}
		}
		if !any || s >= opts.SMax {
			break
		}
		alive := trial(s)
		res.GrowthRuns++
		for i := 0; i < n; i++ {
			if !grow[i] {
				continue
			}
			if alive[i] {
				if s >= lo[i] {
					mark(i, s)
				}
			} else {
				if s < hi[i] {
					hi[i] = s
				}
				grow[i] = false
			}
		}
		s *= opts.Growth
		if s > opts.SMax {
			s = opts.SMax
		}
	}

	// Batched bisection: one trial per round at the median midpoint of
	// the still-open intervals. A trial outside a point's bracket leaves
	// that point untouched.
	mids := make([]float64, 0, n)
	for round := 0; round < opts.MaxRefine; round++ {
		mids = mids[:0]
		for i := 0; i < n; i++ {
			if hi[i]-lo[i] > res.Eps {
				mids = append(mids, 0.5*(lo[i]+hi[i]))
			}
		}
		if len(mids) == 0 {
			break
		}
		sort.Float64s(mids)
		s := mids[len(mids)/2]
		alive := trial(s)
		res.RefineRuns++
		for i := 0; i < n; i++ {
			if hi[i]-lo[i] <= res.Eps || s <= lo[i] || s >= hi[i] {
				continue
			}
			if alive[i] {
				mark(i, s)
			} else {
				hi[i] = s
			}
		}
	}

	return res
}
