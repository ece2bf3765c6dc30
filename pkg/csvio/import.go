package csvio

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
)

// ReadPoints parses coordinate rows from r. It returns the parsed points
// in file order and the number of rows that were skipped as malformed.
//
// The first line is treated as a header and dropped when it contains any
// alphabetic character. Semicolons are accepted as field separators. A row
// needs at least two numeric fields; anything else is skipped, not fatal.
// An input with no rows at all is an error, while an input whose rows were
// all skipped is reported via ErrCodeNoPoints by the caller-facing
// wrappers in pkg/pipeline.
func ReadPoints(r io.Reader) ([]geom.Point, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var points []geom.Point
	skipped := 0
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if isHeader(line) {
				continue
			}
		}
		p, ok := parseRow(line)
		if !ok {
			skipped++
			continue
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	return points, skipped, nil
}

// ImportPoints reads a point set from the CSV file at path.
func ImportPoints(path string) ([]geom.Point, int, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadPoints(f)
}

// isHeader reports whether a line looks like a header row rather than
// data: any alphabetic character marks a header.
func isHeader(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func parseRow(line string) (geom.Point, bool) {
	line = strings.ReplaceAll(line, ";", ",")
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return geom.Point{}, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return geom.Point{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return geom.Point{}, false
	}
	return geom.Point{X: x, Y: y}, true
}
