package place

import (
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/spatial"
)

// State carries placement decisions between monotone passes: the fixed
// corner of every point, which points currently hold a label and in what
// order they acquired it, and the size of the previous pass. The caller
// owns the state; one State serves one point set at a time.
//
// The zero value works but treats the first pass as a rebuild; NewState is
// clearer about intent.
type State struct {
	lastSize float64
	corners  []geom.Corner
	active   []int
	usedOnce []bool
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{lastSize: -1}
}

// Reset drops every carried decision so the next pass rebuilds from
// scratch, corners included.
func (s *State) Reset() {
	s.lastSize = -1
	s.corners = nil
	s.active = nil
	s.usedOnce = nil
}

// Active returns the indices of points holding a label after the last
// pass, in activation order. The slice is owned by the state.
func (s *State) Active() []int { return s.active }

// PlaceMonotone runs one size-aware pass over the candidate set.
//
// Labels placed in earlier passes are re-validated first, in activation
// order, each at its fixed corner; a label that no longer fits simply
// drops out. Only when the size shrank (or the state is fresh) does the
// pass then try to activate labels for the remaining points. Growing can
// therefore only thin the active set, never churn it, which keeps zooming
// visually stable.
//
// A point-set cardinality change invalidates the carried decisions and
// triggers a full rebuild, fixed corners included.
func PlaceMonotone(cs *geom.CandidateSet, size float64, s *State) []geom.Rect {
	n := len(cs.Points)
	if s.corners == nil || len(s.corners) != n {
		s.corners = ChooseFixedCorners(cs.Points)
		s.active = nil
		s.usedOnce = make([]bool, n)
		s.lastSize = -1
	}

	cs.SetSize(size)
	size = cs.Size
	cs.ResetValid()

	shrinking := s.lastSize < 0 || size < s.lastSize

	grid := spatial.NewPointGrid(cs.Points, size)
	placed := spatial.NewRectIndex(size)
	out := make([]geom.Rect, 0, n)
	kept := make([]bool, n)
	next := make([]int, 0, n)

	commit := func(c *geom.Candidate) {
		c.Valid = true
		r := c.AABB()
		placed.Insert(r)
		out = append(out, r)
	}

	for _, i := range s.active {
		c := cs.CornerCandidate(i, s.corners[i])
		r := c.AABB()
		if grid.AnyInside(r, i) || placed.OverlapsAny(r) {
			continue
		}
		commit(c)
		kept[i] = true
		next = append(next, i)
	}

	if shrinking {
		for _, i := range passOrder(grid, cs.Points) {
			if kept[i] {
				continue
			}
			c := cs.CornerCandidate(i, s.corners[i])
			r := c.AABB()
			if grid.AnyInside(r, i) || placed.OverlapsAny(r) {
				continue
			}
			commit(c)
			s.usedOnce[i] = true
			next = append(next, i)
		}
	}

	s.active = next
	s.lastSize = size
	return out
}
