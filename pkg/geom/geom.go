// Package geom defines the rectangle and label-candidate model used by the
// placement engine.
//
// All collision predicates are strict: rectangles that merely share an edge
// are not in collision, and a point sitting exactly on a rectangle edge is
// not considered covered. The gap metric complements this by returning zero
// for touching or overlapping rectangles.
package geom

import "math"

// MinSize is the smallest label side length the engine will work with.
// Requested sizes at or below zero are clamped here so that degenerate
// zero-area rectangles never enter collision tests.
const MinSize = 1e-6

// Point is an immutable 2D coordinate. Points carry no identity of their
// own; a point is identified by its index in the slice it arrived in.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Corner names the quadrant used when ranking a placement direction for a
// point. The label rectangle itself hangs off the opposite side of the
// anchor, see Candidate.AABB.
type Corner int

// Corner values match the integers used in the CSV exchange format.
const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Corners lists all corners in scan order. Tie-breaks throughout the engine
// favor earlier entries.
var Corners = [4]Corner{TopLeft, TopRight, BottomRight, BottomLeft}

// String returns the corner name.
func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return "invalid"
	}
}

// Signs returns the corner's quadrant direction as a pair of axis signs:
// TopLeft is (-1,+1), TopRight (+1,+1), BottomRight (+1,-1), BottomLeft
// (-1,-1).
func (c Corner) Signs() (sx, sy int) {
	switch c {
	case TopLeft:
		return -1, +1
	case TopRight:
		return +1, +1
	case BottomRight:
		return +1, -1
	default:
		return -1, -1
	}
}

// Rect is an axis-aligned box.
type Rect struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// Candidate is one proposed square label anchored at a point's corner.
// Each point owns exactly four candidates, one per corner; Point records the
// owning index so ownership never has to be derived from slice arithmetic.
type Candidate struct {
	Anchor Point
	Point  int
	Corner Corner
	Size   float64
	Valid  bool
}

// AABB derives the candidate's rectangle. The anchor sits at the
// rectangle's named corner, so the label body hangs into the opposite
// quadrant: a TopLeft candidate's anchor is the rectangle's top-left
// vertex and the square extends below and to the right of the point.
func (c Candidate) AABB() Rect {
	return cornerRect(c.Anchor, c.Size, c.Corner)
}

func cornerRect(p Point, size float64, corner Corner) Rect {
	s := size
	if s < MinSize {
		s = MinSize
	}
	xmin := p.X
	if corner == TopRight || corner == BottomRight {
		xmin = p.X - s
	}
	ymin := p.Y
	if corner == TopLeft || corner == TopRight {
		ymin = p.Y - s
	}
	return Rect{XMin: xmin, YMin: ymin, XMax: xmin + s, YMax: ymin + s}
}

// Overlaps reports whether a and b share interior area. Edge-touching
// rectangles do not overlap.
func Overlaps(a, b Rect) bool {
	return a.XMin < b.XMax && a.XMax > b.XMin &&
		a.YMin < b.YMax && a.YMax > b.YMin
}

// ContainsOpen reports whether (x, y) lies strictly inside r. A point on an
// edge is not contained.
func ContainsOpen(r Rect, x, y float64) bool {
	return x > r.XMin && x < r.XMax && y > r.YMin && y < r.YMax
}

// Gap returns the Euclidean distance between two rectangles, or 0 if they
// touch or overlap. The distance is taken along each axis where the
// rectangles are separated, so diagonally separated rectangles get the
// corner-to-corner distance.
func Gap(a, b Rect) float64 {
	dx := axisGap(a.XMin, a.XMax, b.XMin, b.XMax)
	dy := axisGap(a.YMin, a.YMax, b.YMin, b.YMax)
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Hypot(dx, dy)
}

func axisGap(aMin, aMax, bMin, bMax float64) float64 {
	if aMax < bMin {
		return bMin - aMax
	}
	if bMax < aMin {
		return aMin - bMax
	}
	return 0
}

// CandidateSet holds the four candidates of every point in a placement pass.
// Candidates for point i live in PerPoint[i], ordered by corner scan order.
type CandidateSet struct {
	Points   []Point
	Size     float64
	PerPoint [][4]Candidate
}

// GenerateCandidates produces four candidates per point, one per corner,
// all at the same clamped size and all initially invalid.
func GenerateCandidates(points []Point, size float64) *CandidateSet {
	if size < MinSize {
		size = MinSize
	}
	cs := &CandidateSet{
		Points:   points,
		Size:     size,
		PerPoint: make([][4]Candidate, len(points)),
	}
	for i, p := range points {
		for k, corner := range Corners {
			cs.PerPoint[i][k] = Candidate{
				Anchor: p,
				Point:  i,
				Corner: corner,
				Size:   size,
			}
		}
	}
	return cs
}

// SetSize updates every candidate to the clamped size. Monotone passes
// reuse one candidate set across sizes instead of regenerating it.
func (cs *CandidateSet) SetSize(size float64) {
	if size < MinSize {
		size = MinSize
	}
	cs.Size = size
	for i := range cs.PerPoint {
		for k := range cs.PerPoint[i] {
			cs.PerPoint[i][k].Size = size
		}
	}
}

// ResetValid marks every candidate invalid. Called at the start of each
// placement pass.
func (cs *CandidateSet) ResetValid() {
	for i := range cs.PerPoint {
		for k := range cs.PerPoint[i] {
			cs.PerPoint[i][k].Valid = false
		}
	}
}

// CornerCandidate returns point i's candidate for the given corner.
func (cs *CandidateSet) CornerCandidate(i int, c Corner) *Candidate {
	return &cs.PerPoint[i][int(c)]
}

// Chosen returns the valid candidate for point i, or nil if the point
// received no label in the last pass.
func (cs *CandidateSet) Chosen(i int) *Candidate {
	for k := range cs.PerPoint[i] {
		if cs.PerPoint[i][k].Valid {
			return &cs.PerPoint[i][k]
		}
	}
	return nil
}

// Bounds returns the bounding box of a point set, or a zero rect for an
// empty set.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	b := Rect{XMin: points[0].X, YMin: points[0].Y, XMax: points[0].X, YMax: points[0].Y}
	for _, p := range points[1:] {
		b.XMin = math.Min(b.XMin, p.X)
		b.YMin = math.Min(b.YMin, p.Y)
		b.XMax = math.Max(b.XMax, p.X)
		b.YMax = math.Max(b.YMax, p.Y)
	}
	return b
}

// Span returns the larger side of the point set's bounding box, with a floor
// of 1 so degenerate sets still produce usable search ranges.
func Span(points []Point) float64 {
	b := Bounds(points)
	span := math.Max(b.Width(), b.Height())
	if span <= 0 {
		return 1
	}
	return span
}
