package spatial

import (
	"math"

	"github.com/dmelv/labelgrid/pkg/geom"
)

// RectIndex is the capability contract shared by the grid and quadtree
// rectangle indices. Implementations must agree on overlap results, and
// MinGapToAny must return 0 whenever a stored rectangle overlaps or touches
// the query.
type RectIndex interface {
	// Insert adds a rectangle to the index.
	Insert(geom.Rect)
	// OverlapsAny reports whether any stored rectangle strictly overlaps r.
	OverlapsAny(geom.Rect) bool
	// MinGapToAny returns the smallest gap between r and any stored
	// rectangle, or +Inf when the index is empty.
	MinGapToAny(geom.Rect) float64
}

// NewRectIndex returns the default rectangle index for a placement pass:
// the uniform grid. The quadtree variant stays available behind the same
// interface for workloads where its pruning wins.
func NewRectIndex(cellSize float64) RectIndex {
	return NewRectGrid(cellSize)
}

// RectGrid buckets rectangles by every grid cell their extent touches.
type RectGrid struct {
	cell  float64
	cells map[cellKey][]geom.Rect
	count int

	minCX, minCY int
	maxCX, maxCY int
}

// NewRectGrid creates an empty grid index with the given cell size.
func NewRectGrid(cellSize float64) *RectGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &RectGrid{
		cell:  cellSize,
		cells: make(map[cellKey][]geom.Rect),
	}
}

// Len returns the number of inserted rectangles.
func (g *RectGrid) Len() int { return g.count }

// Insert adds r to every cell its extent touches.
func (g *RectGrid) Insert(r geom.Rect) {
	x0, x1 := cellOf(r.XMin, g.cell), cellOf(r.XMax, g.cell)
	y0, y1 := cellOf(r.YMin, g.cell), cellOf(r.YMax, g.cell)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := cellKey{X: cx, Y: cy}
			g.cells[k] = append(g.cells[k], r)
		}
	}
	if g.count == 0 {
		g.minCX, g.maxCX = x0, x1
		g.minCY, g.maxCY = y0, y1
	} else {
		g.minCX = min(g.minCX, x0)
		g.maxCX = max(g.maxCX, x1)
		g.minCY = min(g.minCY, y0)
		g.maxCY = max(g.maxCY, y1)
	}
	g.count++
}

// OverlapsAny scans only the cells the query extent touches.
func (g *RectGrid) OverlapsAny(r geom.Rect) bool {
	if g.count == 0 {
		return false
	}
	x0, x1 := cellOf(r.XMin, g.cell), cellOf(r.XMax, g.cell)
	y0, y1 := cellOf(r.YMin, g.cell), cellOf(r.YMax, g.cell)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, s := range g.cells[cellKey{X: cx, Y: cy}] {
				if geom.Overlaps(r, s) {
					return true
				}
			}
		}
	}
	return false
}

// MinGapToAny expands square rings of cells around the query extent until
// the nearest possible cell of the next ring cannot beat the best gap found.
// Only the perimeter cells of each ring are visited, clamped to the range
// of populated cells, and the expansion starts at the first ring that can
// reach that range at all, so a query far from every stored rectangle costs
// a walk to the populated area rather than a scan of the empty cells in
// between. A rectangle spanning several cells may be visited more than
// once; the minimum is unaffected.
func (g *RectGrid) MinGapToAny(r geom.Rect) float64 {
	if g.count == 0 {
		return math.Inf(1)
	}
	x0, x1 := cellOf(r.XMin, g.cell), cellOf(r.XMax, g.cell)
	y0, y1 := cellOf(r.YMin, g.cell), cellOf(r.YMax, g.cell)

	best := math.Inf(1)
	scan := func(cxLo, cxHi, cyLo, cyHi int) {
		cxLo, cxHi = max(cxLo, g.minCX), min(cxHi, g.maxCX)
		cyLo, cyHi = max(cyLo, g.minCY), min(cyHi, g.maxCY)
		for cx := cxLo; cx <= cxHi; cx++ {
			for cy := cyLo; cy <= cyHi; cy++ {
				for _, s := range g.cells[cellKey{X: cx, Y: cy}] {
					if d := geom.Gap(r, s); d < best {
						best = d
					}
				}
			}
		}
	}

	// first is the smallest ring whose expanded square reaches the
	// populated cell range; last is the ring at which the square has
	// covered it entirely.
	dx := max(0, g.minCX-x1, x0-g.maxCX)
	dy := max(0, g.minCY-y1, y0-g.maxCY)
	first := max(dx, dy)
	last := max(first, x0-g.minCX, g.maxCX-x1, y0-g.minCY, g.maxCY-y1)

	for ring := first; ring <= last; ring++ {
		// Cells in ring > r are at least (ring-1)*cell away from the
		// query extent.
		if !math.IsInf(best, 1) && float64(ring-1)*g.cell > best {
			break
		}
		if ring == 0 {
			scan(x0, x1, y0, y1)
		} else {
			scan(x0-ring, x1+ring, y0-ring, y0-ring)
			scan(x0-ring, x1+ring, y1+ring, y1+ring)
			scan(x0-ring, x0-ring, y0-ring+1, y1+ring-1)
			scan(x1+ring, x1+ring, y0-ring+1, y1+ring-1)
		}
		if best == 0 {
			return 0
		}
	}
	return best
}

var _ RectIndex = (*RectGrid)(nil)
