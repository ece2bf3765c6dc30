package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/dmelv/labelgrid/pkg/geom"
)

// newIndexes returns one of each implementation over the same world region.
func newIndexes() (grid *RectGrid, tree *Quadtree) {
	return NewRectGrid(1), NewQuadtree(geom.Rect{XMin: -50, YMin: -50, XMax: 50, YMax: 50})
}

func TestRectIndexEmpty(t *testing.T) {
	grid, tree := newIndexes()
	q := geom.Rect{XMin: 0, YMin: 0, XMax: 1, YMax: 1}

	for name, idx := range map[string]RectIndex{"grid": grid, "quadtree": tree} {
		if idx.OverlapsAny(q) {
			t.Errorf("%s: OverlapsAny on empty index = true", name)
		}
		if g := idx.MinGapToAny(q); !math.IsInf(g, 1) {
			t.Errorf("%s: MinGapToAny on empty index = %v, want +Inf", name, g)
		}
	}
}

func TestRectIndexOverlapAndGap(t *testing.T) {
	stored := geom.Rect{XMin: 0, YMin: 0, XMax: 1, YMax: 1}
	tests := []struct {
		name    string
		query   geom.Rect
		overlap bool
		gap     float64
	}{
		{"identical", stored, true, 0},
		{"partial overlap", geom.Rect{XMin: 0.5, YMin: 0.5, XMax: 2, YMax: 2}, true, 0},
		{"edge touch", geom.Rect{XMin: 1, YMin: 0, XMax: 2, YMax: 1}, false, 0},
		{"corner touch", geom.Rect{XMin: 1, YMin: 1, XMax: 2, YMax: 2}, false, 0},
		{"separated horizontally", geom.Rect{XMin: 4, YMin: 0, XMax: 5, YMax: 1}, false, 3},
		{"separated diagonally", geom.Rect{XMin: 4, YMin: 5, XMax: 5, YMax: 6}, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, tree := newIndexes()
			for name, idx := range map[string]RectIndex{"grid": grid, "quadtree": tree} {
				idx.Insert(stored)
				if got := idx.OverlapsAny(tt.query); got != tt.overlap {
					t.Errorf("%s: OverlapsAny = %v, want %v", name, got, tt.overlap)
				}
				if got := idx.MinGapToAny(tt.query); math.Abs(got-tt.gap) > 1e-12 {
					t.Errorf("%s: MinGapToAny = %v, want %v", name, got, tt.gap)
				}
			}
		})
	}
}

// TestRectIndexEquivalence pins the contract that both implementations give
// identical overlap answers and matching gaps on randomized workloads.
func TestRectIndexEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	grid, tree := newIndexes()

	randRect := func() geom.Rect {
		x := rng.Float64()*80 - 40
		y := rng.Float64()*80 - 40
		w := rng.Float64()*3 + 0.05
		h := rng.Float64()*3 + 0.05
		return geom.Rect{XMin: x, YMin: y, XMax: x + w, YMax: y + h}
	}

	for i := 0; i < 200; i++ {
		r := randRect()
		grid.Insert(r)
		tree.Insert(r)
	}

	for i := 0; i < 500; i++ {
		q := randRect()
		gOver, tOver := grid.OverlapsAny(q), tree.OverlapsAny(q)
		if gOver != tOver {
			t.Fatalf("query %d: overlap mismatch grid=%v quadtree=%v for %+v", i, gOver, tOver, q)
		}
		gGap, tGap := grid.MinGapToAny(q), tree.MinGapToAny(q)
		if math.Abs(gGap-tGap) > 1e-9 {
			t.Fatalf("query %d: gap mismatch grid=%v quadtree=%v for %+v", i, gGap, tGap, q)
		}
		if gOver && gGap != 0 {
			t.Fatalf("query %d: overlapping query must have zero gap, got %v", i, gGap)
		}
	}
}

// TestRectGridMinGapFarQuery pins that a query separated from the stored
// rectangles by many empty cells resolves by walking toward the populated
// area instead of scanning the cells in between. With a 1e-4 cell the query
// below sits ~1e4 cells away; a per-cell scan would not finish.
func TestRectGridMinGapFarQuery(t *testing.T) {
	grid := NewRectGrid(1e-4)
	grid.Insert(geom.Rect{XMin: 0, YMin: 0, XMax: 1e-4, YMax: 1e-4})

	q := geom.Rect{XMin: 1, YMin: 0, XMax: 1 + 1e-4, YMax: 1e-4}
	want := 1 - 1e-4
	if got := grid.MinGapToAny(q); math.Abs(got-want) > 1e-12 {
		t.Errorf("MinGapToAny = %v, want %v", got, want)
	}

	// Same answer when the query sits on the other side and diagonally.
	q = geom.Rect{XMin: -1, YMin: -1, XMax: -1 + 1e-4, YMax: -1 + 1e-4}
	got := grid.MinGapToAny(q)
	if math.IsInf(got, 1) || got <= 0 {
		t.Errorf("diagonal far query gap = %v, want finite positive", got)
	}
}

func TestQuadtreeOutOfBoundsInsert(t *testing.T) {
	tree := NewQuadtree(geom.Rect{XMin: 0, YMin: 0, XMax: 10, YMax: 10})
	outside := geom.Rect{XMin: 100, YMin: 100, XMax: 101, YMax: 101}
	tree.Insert(outside)

	if !tree.OverlapsAny(geom.Rect{XMin: 100.5, YMin: 100.5, XMax: 102, YMax: 102}) {
		t.Error("rect outside world bounds must still be queryable")
	}
	if g := tree.MinGapToAny(geom.Rect{XMin: 103, YMin: 100, XMax: 104, YMax: 101}); g != 2 {
		t.Errorf("gap to overflow rect = %v, want 2", g)
	}
}

func TestQuadtreeSplits(t *testing.T) {
	tree := NewQuadtree(geom.Rect{XMin: 0, YMin: 0, XMax: 16, YMax: 16})
	// Enough small rects in one quadrant to force subdivision.
	for i := 0; i < 32; i++ {
		x := float64(i%8) * 0.4
		y := float64(i/8) * 0.4
		tree.Insert(geom.Rect{XMin: x, YMin: y, XMax: x + 0.2, YMax: y + 0.2})
	}
	if tree.Len() != 32 {
		t.Fatalf("Len = %d, want 32", tree.Len())
	}
	if !tree.OverlapsAny(geom.Rect{XMin: 0.05, YMin: 0.05, XMax: 0.1, YMax: 0.1}) {
		t.Error("expected overlap in the crowded quadrant")
	}
	if tree.OverlapsAny(geom.Rect{XMin: 12, YMin: 12, XMax: 13, YMax: 13}) {
		t.Error("unexpected overlap in the empty quadrant")
	}
}
