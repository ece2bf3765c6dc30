package spatial

import (
	"math"

	"github.com/dmelv/labelgrid/pkg/geom"
)

const (
	quadtreeLeafCap  = 8
	quadtreeMaxDepth = 12
)

// Quadtree indexes rectangles by recursive subdivision of a fixed world
// region. A rectangle lives at the shallowest node that fully contains it;
// gap queries prune subtrees whose bounds are already farther away than the
// best gap found.
//
// Rectangles outside the world bounds are kept in a flat overflow list so
// the index stays correct for out-of-range inserts.
type Quadtree struct {
	root     *qnode
	overflow []geom.Rect
	count    int
}

type qnode struct {
	bounds   geom.Rect
	depth    int
	rects    []geom.Rect
	children *[4]qnode
}

// NewQuadtree creates an empty quadtree covering bounds.
func NewQuadtree(bounds geom.Rect) *Quadtree {
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		bounds = geom.Rect{XMin: bounds.XMin, YMin: bounds.YMin, XMax: bounds.XMin + 1, YMax: bounds.YMin + 1}
	}
	return &Quadtree{root: &qnode{bounds: bounds}}
}

// Len returns the number of inserted rectangles.
func (t *Quadtree) Len() int { return t.count }

// Insert adds r to the tree.
func (t *Quadtree) Insert(r geom.Rect) {
	t.count++
	if !contains(t.root.bounds, r) {
		t.overflow = append(t.overflow, r)
		return
	}
	t.root.insert(r)
}

// OverlapsAny reports whether any stored rectangle strictly overlaps r.
func (t *Quadtree) OverlapsAny(r geom.Rect) bool {
	for _, s := range t.overflow {
		if geom.Overlaps(r, s) {
			return true
		}
	}
	return t.root.overlapsAny(r)
}

// MinGapToAny returns the smallest gap between r and any stored rectangle,
// +Inf when the tree is empty.
func (t *Quadtree) MinGapToAny(r geom.Rect) float64 {
	best := math.Inf(1)
	for _, s := range t.overflow {
		if d := geom.Gap(r, s); d < best {
			best = d
		}
	}
	t.root.minGap(r, &best)
	return best
}

func contains(outer, inner geom.Rect) bool {
	return inner.XMin >= outer.XMin && inner.XMax <= outer.XMax &&
		inner.YMin >= outer.YMin && inner.YMax <= outer.YMax
}

func (n *qnode) insert(r geom.Rect) {
	if n.children != nil {
		for i := range n.children {
			if contains(n.children[i].bounds, r) {
				n.children[i].insert(r)
				return
			}
		}
		n.rects = append(n.rects, r)
		return
	}

	n.rects = append(n.rects, r)
	if len(n.rects) > quadtreeLeafCap && n.depth < quadtreeMaxDepth {
		n.split()
	}
}

func (n *qnode) split() {
	midX := 0.5 * (n.bounds.XMin + n.bounds.XMax)
	midY := 0.5 * (n.bounds.YMin + n.bounds.YMax)
	n.children = &[4]qnode{
		{bounds: geom.Rect{XMin: n.bounds.XMin, YMin: n.bounds.YMin, XMax: midX, YMax: midY}, depth: n.depth + 1},
		{bounds: geom.Rect{XMin: midX, YMin: n.bounds.YMin, XMax: n.bounds.XMax, YMax: midY}, depth: n.depth + 1},
		{bounds: geom.Rect{XMin: n.bounds.XMin, YMin: midY, XMax: midX, YMax: n.bounds.YMax}, depth: n.depth + 1},
		{bounds: geom.Rect{XMin: midX, YMin: midY, XMax: n.bounds.XMax, YMax: n.bounds.YMax}, depth: n.depth + 1},
	}

	kept := n.rects[:0]
	for _, r := range n.rects {
		moved := false
		for i := range n.children {
			if contains(n.children[i].bounds, r) {
				n.children[i].insert(r)
				moved = true
				break
			}
		}
		if !moved {
			kept = append(kept, r)
		}
	}
	n.rects = kept
}

func (n *qnode) overlapsAny(r geom.Rect) bool {
	// Stored rectangles are contained in bounds, so a query that does not
	// reach the node's interior cannot overlap any of them.
	if !geom.Overlaps(n.bounds, r) {
		return false
	}
	for _, s := range n.rects {
		if geom.Overlaps(r, s) {
			return true
		}
	}
	if n.children == nil {
		return false
	}
	for i := range n.children {
		if n.children[i].overlapsAny(r) {
			return true
		}
	}
	return false
}

func (n *qnode) minGap(r geom.Rect, best *float64) {
	// The gap to the node's bounds is a lower bound for every rectangle
	// stored below it.
	if geom.Gap(n.bounds, r) >= *best {
		return
	}
	for _, s := range n.rects {
		if d := geom.Gap(r, s); d < *best {
			*best = d
			if *best == 0 {
				return
			}
		}
	}
	if n.children == nil {
		return
	}
	for i := range n.children {
		n.children[i].minGap(r, best)
		if *best == 0 {
			return
		}
	}
}

var _ RectIndex = (*Quadtree)(nil)
