// Package csvio provides CSV import and export for point sets and
// placement results.
//
// # Overview
//
// This package implements the batch-tool exchange format: plain CSV files
// carrying point coordinates in, and per-point label sizes and corners
// out. The format is designed for:
//
//   - Feeding arbitrary point data into the threshold search
//   - Consuming search output from spreadsheets and plotting tools
//   - Round-tripping: an exported result file parses back as a point set
//
// # Input Format
//
// Input rows carry a coordinate pair per line:
//
//	x,y
//	0.5,1.25
//	3.1,-0.7
//
// A header row is optional and detected by the presence of alphabetic
// characters in the first line. Semicolon-separated files are accepted by
// normalizing ';' to ','. Extra columns beyond x and y are ignored, and
// rows whose coordinates do not parse are silently skipped (the skip
// count is reported to the caller for logging).
//
// # Output Format
//
// Output files have the fixed header
//
//	x,y,side,size,corner
//
// with one row per input point, in input order. The side and size columns
// both carry the chosen label size, duplicated for compatibility with
// older consumers, or the literal token INF when no feasible label was
// found. The corner column is an integer 0-3 in scan order: TopLeft=0,
// TopRight=1, BottomRight=2, BottomLeft=3. The integer names the corner
// of the label square that sits on the anchor point, so the body extends
// into the opposite quadrant: corner 0 spans [x,x+s]×[y-s,y], corner 1
// spans [x-s,x]×[y-s,y], corner 2 spans [x-s,x]×[y,y+s], and corner 3
// spans [x,x+s]×[y,y+s]. Consumers reconstructing label rectangles from
// these files must use this mapping.
//
// # Import
//
// Use [ImportPoints] to read a point set from a file path, or
// [ReadPoints] to read from any io.Reader:
//
//	points, skipped, err := csvio.ImportPoints("points.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportRows] to write results to a file, or [WriteRows] to write to
// any io.Writer. [RowsFromSearch] and [RowsFromPlacement] adapt engine
// results into rows.
package csvio
