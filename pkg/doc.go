// Package pkg provides the core libraries for Labelgrid point labeling.
//
// # Overview
//
// Labelgrid places square, axis-aligned labels at point anchors so that
// no label overlaps another label or covers a foreign point. The pkg
// directory is organized into four main areas:
//
//  1. [geom] / [spatial] - Geometry primitives and spatial indices
//  2. [place] - Placement algorithms and threshold search
//  3. [pipeline] / [api] / [store] - Orchestration and persistence
//  4. [cache] / [errors] / [observability] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through Labelgrid:
//
//	CSV input (x,y rows)
//	         ↓
//	    [csvio] package (parse and validate points)
//	         ↓
//	    [geom] package (candidate boxes + spatial grid)
//	         ↓
//	    [place] package (greedy placement + threshold search)
//	         ↓
//	    CSV/JSON output, HTTP API, or terminal visualization
//
// # Quick Start
//
// Find each point's largest label size and place the labels:
//
//	import (
//	    "github.com/dmelv/labelgrid/pkg/geom"
//	    "github.com/dmelv/labelgrid/pkg/place"
//	)
//
//	points := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
//
//	// 1. Search per-point size thresholds
//	res := place.Search(points, place.SearchOptions{SMax: 1})
//
//	// 2. Place labels at a fixed size
//	cs := geom.GenerateCandidates(points, 0.25)
//	rects := place.PlaceOnce(cs)
//
// # Main Packages
//
// ## Geometry and Placement
//
// [geom] - Points, rectangles, corner candidates, and the uniform grid
// index used for overlap and containment queries.
//
// [spatial] - Spatial index structures backing the conflict queries.
//
// [place] - Greedy candidate placement, monotone size-change updates,
// and the batched threshold search (sweep, growth ladder, bisection).
//
// ## Orchestration
//
// [pipeline] - Load → search → export runner shared by the CLI and the
// HTTP API, with cache integration and hook-driven observability.
//
// [api] - HTTP handlers for placements, threshold runs, and run
// retrieval, built on chi.
//
// [csvio] - CSV import of points and export of search/placement rows.
//
// ## Infrastructure
//
// [cache] - Result cache with file, Redis, and null backends plus
// deterministic key derivation.
//
// [store] - Threshold run persistence with memory and MongoDB backends.
//
// [errors] - Coded errors carrying stable codes and user-facing
// messages.
//
// [observability] - Hook registry for pipeline, cache, and HTTP events.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/place/...     # Specific package
//	go test -run Example        # Examples only
//
// [geom]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/geom
// [spatial]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/spatial
// [place]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/place
// [pipeline]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/api
// [csvio]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/csvio
// [cache]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/cache
// [store]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/store
// [errors]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/dmelv/labelgrid/pkg/buildinfo
package pkg
