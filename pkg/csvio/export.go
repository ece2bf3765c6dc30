package csvio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/place"
)

// Header is the fixed first line of every result file.
const Header = "x,y,side,size,corner"

// InfToken marks a point that received no feasible label.
const InfToken = "INF"

// Row is one output record: a point, its label size, and its corner.
// Labeled false means the size columns are written as INF.
type Row struct {
	Point   geom.Point  `json:"point"`
	Size    float64     `json:"size"`
	Corner  geom.Corner `json:"corner"`
	Labeled bool        `json:"labeled"`
}

// RowsFromSearch adapts a threshold search result into output rows, one
// per point in input order.
func RowsFromSearch(points []geom.Point, res *place.SearchResult) []Row {
	rows := make([]Row, len(points))
	for i, p := range points {
		rows[i] = Row{
			Point:   p,
			Size:    res.Size[i],
			Corner:  res.Corner[i],
			Labeled: res.Labeled[i],
		}
	}
	return rows
}

// RowsFromPlacement adapts a single placement pass into output rows.
// Unlabeled points keep the shared pass size with Labeled false.
func RowsFromPlacement(cs *geom.CandidateSet) []Row {
	rows := make([]Row, len(cs.Points))
	for i, p := range cs.Points {
		rows[i] = Row{Point: p, Size: cs.Size, Corner: geom.TopLeft}
		if c := cs.Chosen(i); c != nil {
			rows[i].Corner = c.Corner
			rows[i].Labeled = true
		}
	}
	return rows
}

// WriteRows writes the header plus one CSV line per row to w.
func WriteRows(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv header")
	}
	for _, row := range rows {
		size := InfToken
		if row.Labeled {
			size = strconv.FormatFloat(row.Size, 'g', -1, 64)
		}
		_, err := fmt.Fprintf(bw, "%s,%s,%s,%s,%d\n",
			strconv.FormatFloat(row.Point.X, 'g', -1, 64),
			strconv.FormatFloat(row.Point.Y, 'g', -1, 64),
			size, size, int(row.Corner))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write csv row")
		}
	}
	return bw.Flush()
}

// ExportRows writes rows to the CSV file at path.
func ExportRows(path string, rows []Row) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteRows(f, rows)
}
