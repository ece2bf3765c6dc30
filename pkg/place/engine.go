// Package place implements greedy label placement over candidate sets: a
// stateless single pass, a monotone session that keeps placements stable
// across size changes, and a batched per-point threshold search.
package place

import (
	"math"
	"sort"

	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/spatial"
)

// PlaceOnce runs one stateless greedy pass considering all four candidates
// of every point. Points are visited densest neighborhood first; each point
// takes the feasible candidate closest to the labels already placed, or no
// label when every candidate collides. Returned rectangles are in commit
// order; per-point results are read back via cs.Chosen.
func PlaceOnce(cs *geom.CandidateSet) []geom.Rect {
	return placePass(cs, nil)
}

// PlaceFixed runs one greedy pass where each point may only use its
// assigned corner. The threshold search runs its trials through here so
// that discovered sizes stay meaningful under a stable corner assignment.
func PlaceFixed(cs *geom.CandidateSet, corners []geom.Corner) []geom.Rect {
	return placePass(cs, corners)
}

func placePass(cs *geom.CandidateSet, corners []geom.Corner) []geom.Rect {
	cs.ResetValid()
	if len(cs.Points) == 0 {
		return nil
	}

	grid := spatial.NewPointGrid(cs.Points, cs.Size)
	placed := spatial.NewRectIndex(cs.Size)
	out := make([]geom.Rect, 0, len(cs.Points))

	for _, i := range passOrder(grid, cs.Points) {
		var chosen *geom.Candidate
		bestGap := math.Inf(1)
		for k := range cs.PerPoint[i] {
			cand := &cs.PerPoint[i][k]
			if corners != nil && cand.Corner != corners[i] {
				continue
			}
			r := cand.AABB()
			if grid.AnyInside(r, i) || placed.OverlapsAny(r) {
				continue
			}
			g := placed.MinGapToAny(r)
			if chosen == nil || g < bestGap {
				chosen = cand
				bestGap = g
			}
		}
		if chosen == nil {
			continue
		}
		chosen.Valid = true
		r := chosen.AABB()
		placed.Insert(r)
		out = append(out, r)
	}
	return out
}

// passOrder returns point indices sorted densest 3x3 neighborhood first.
// Equal densities keep input order, which makes passes deterministic.
func passOrder(grid *spatial.PointGrid, points []geom.Point) []int {
	density := make([]int, len(points))
	for i, p := range points {
		density[i] = grid.Density(p.X, p.Y)
	}
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return density[order[a]] > density[order[b]]
	})
	return order
}
