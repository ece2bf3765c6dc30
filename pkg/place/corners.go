package place

import (
	"math"

	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/spatial"
)

// ChooseFixedCorners assigns every point the corner whose quadrant has the
// most clearance to the point's nearest neighbor in that direction. A
// quadrant with no neighbor at all wins immediately; otherwise ties go to
// the earlier corner in scan order, so an isolated point always gets
// TopLeft.
//
// The assignment depends only on the point set, never on a label size, so
// it can be computed once and reused across every pass of a session.
func ChooseFixedCorners(points []geom.Point) []geom.Corner {
	grid := spatial.NewPointGrid(points, 0)
	corners := make([]geom.Corner, len(points))
	for i := range points {
		best := math.Inf(-1)
		chosen := geom.TopLeft
		for _, c := range geom.Corners {
			sx, sy := c.Signs()
			d := grid.OrthantClearance(i, sx, sy)
			if math.IsInf(d, 1) {
				chosen = c
				break
			}
			if d > best {
				best = d
				chosen = c
			}
		}
		corners[i] = chosen
	}
	return corners
}
