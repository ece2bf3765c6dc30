// Package spatial provides the uniform-grid and quadtree indices that keep
// the placement engine's collision and containment queries sub-linear.
//
// Both index families bucket geometry by cell key floor(coordinate/cellSize).
// An entry appears in every cell its extent intersects, and only those.
package spatial

import (
	"math"

	"github.com/dmelv/labelgrid/pkg/geom"
)

type cellKey struct {
	X int
	Y int
}

func cellOf(v, cellSize float64) int {
	return int(math.Floor(v / cellSize))
}

// PointGrid is a uniform grid over anchor points. It answers open-interior
// containment queries, local density estimates, and quadrant-restricted
// nearest-neighbor (orthant clearance) queries.
//
// The grid is built once per point set and cell size; it is not safe for
// concurrent mutation but is read-only after construction.
type PointGrid struct {
	points []geom.Point
	cell   float64
	cells  map[cellKey][]int

	// Cell-space bounding box of the point set, used to bound ring
	// expansion in clearance queries.
	minCX, minCY int
	maxCX, maxCY int
}

// DefaultCellSize picks a cell size so an average query touches O(1) cells:
// the point span divided by the grid resolution sqrt(N).
func DefaultCellSize(points []geom.Point) float64 {
	n := len(points)
	if n == 0 {
		return 1
	}
	return geom.Span(points) / math.Max(1, math.Sqrt(float64(n)))
}

// NewPointGrid buckets points into cells of the given size. Non-positive
// cell sizes fall back to DefaultCellSize.
func NewPointGrid(points []geom.Point, cellSize float64) *PointGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize(points)
	}
	g := &PointGrid{
		points: points,
		cell:   cellSize,
		cells:  make(map[cellKey][]int, len(points)),
	}
	for i, p := range points {
		k := cellKey{X: cellOf(p.X, cellSize), Y: cellOf(p.Y, cellSize)}
		g.cells[k] = append(g.cells[k], i)
		if i == 0 {
			g.minCX, g.maxCX = k.X, k.X
			g.minCY, g.maxCY = k.Y, k.Y
			continue
		}
		g.minCX = min(g.minCX, k.X)
		g.maxCX = max(g.maxCX, k.X)
		g.minCY = min(g.minCY, k.Y)
		g.maxCY = max(g.maxCY, k.Y)
	}
	return g
}

// CellSize returns the grid's cell side length.
func (g *PointGrid) CellSize() float64 { return g.cell }

// AnyInside reports whether any point other than exclude lies strictly
// inside r. Pass exclude < 0 to consider every point.
func (g *PointGrid) AnyInside(r geom.Rect, exclude int) bool {
	x0, x1 := cellOf(r.XMin, g.cell), cellOf(r.XMax, g.cell)
	y0, y1 := cellOf(r.YMin, g.cell), cellOf(r.YMax, g.cell)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, i := range g.cells[cellKey{X: cx, Y: cy}] {
				if i == exclude {
					continue
				}
				p := g.points[i]
				if geom.ContainsOpen(r, p.X, p.Y) {
					return true
				}
			}
		}
	}
	return false
}

// Density counts points in the 3x3 cell neighborhood around (x, y). It is a
// difficulty heuristic for ordering, not a correctness primitive.
func (g *PointGrid) Density(x, y float64) int {
	cx, cy := cellOf(x, g.cell), cellOf(y, g.cell)
	n := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			n += len(g.cells[cellKey{X: cx + dx, Y: cy + dy}])
		}
	}
	return n
}

const clearanceEps = 1e-12

// OrthantClearance returns the Chebyshev distance from point i to its
// nearest neighbor in the quadrant indicated by the axis signs sx, sy
// (each -1 or +1). Neighbors on the quadrant's boundary axes count.
// Returns +Inf when the quadrant is empty.
//
// Cells are scanned in expanding square rings away from the point's cell,
// restricted to the quadrant; the scan stops as soon as the closest cell of
// the current ring can no longer beat the best distance found.
func (g *PointGrid) OrthantClearance(i int, sx, sy int) float64 {
	p := g.points[i]
	cx, cy := cellOf(p.X, g.cell), cellOf(p.Y, g.cell)

	// Rings beyond the populated cell range cannot contain points.
	spanX := g.maxCX - cx
	if sx < 0 {
		spanX = cx - g.minCX
	}
	spanY := g.maxCY - cy
	if sy < 0 {
		spanY = cy - g.minCY
	}
	maxRing := max(spanX, spanY)

	best := math.Inf(1)
	for ring := 0; ring <= maxRing; ring++ {
		if float64(ring)*g.cell >= best-clearanceEps {
			break
		}
		g.scanRing(i, p, cx, cy, sx, sy, ring, &best)
	}
	return best
}

// scanRing visits the quadrant cells at Chebyshev cell distance ring from
// (cx, cy) and tightens best with any qualifying neighbor.
func (g *PointGrid) scanRing(i int, p geom.Point, cx, cy, sx, sy, ring int, best *float64) {
	for a := 0; a <= ring; a++ {
		for b := 0; b <= ring; b++ {
			if a != ring && b != ring {
				continue // interior of the ring, already scanned
			}
			k := cellKey{X: cx + sx*a, Y: cy + sy*b}
			for _, j := range g.cells[k] {
				if j == i {
					continue
				}
				q := g.points[j]
				dx := q.X - p.X
				dy := q.Y - p.Y
				if float64(sx)*dx < 0 || float64(sy)*dy < 0 {
					continue
				}
				d := math.Max(math.Abs(dx), math.Abs(dy))
				if d < *best {
					*best = d
				}
			}
		}
	}
}
