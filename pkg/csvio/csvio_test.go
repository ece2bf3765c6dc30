package csvio

import (
	"strings"
	"testing"

	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/place"
)

func TestReadPoints(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []geom.Point
		wantSkipped int
	}{
		{
			name:  "plain rows",
			input: "1,2\n3.5,-4\n",
			want:  []geom.Point{{X: 1, Y: 2}, {X: 3.5, Y: -4}},
		},
		{
			name:  "header dropped",
			input: "x,y\n1,2\n",
			want:  []geom.Point{{X: 1, Y: 2}},
		},
		{
			name:  "semicolon separated",
			input: "1;2\n3;4\n",
			want:  []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		},
		{
			name:  "extra columns ignored",
			input: "1,2,0.5,0.5,1\n",
			want:  []geom.Point{{X: 1, Y: 2}},
		},
		{
			name:        "malformed rows skipped",
			input:       "1,2\nnot,numeric\n3\n4,5\n",
			want:        []geom.Point{{X: 1, Y: 2}, {X: 4, Y: 5}},
			wantSkipped: 2,
		},
		{
			name:  "blank lines ignored",
			input: "\n1,2\n\n\n3,4\n",
			want:  []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		},
		{
			name:  "whitespace around fields",
			input: " 1 , 2 \n",
			want:  []geom.Point{{X: 1, Y: 2}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, skipped, err := ReadPoints(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadPoints: %v", err)
			}
			if skipped != tt.wantSkipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.wantSkipped)
			}
			if len(points) != len(tt.want) {
				t.Fatalf("got %d points, want %d", len(points), len(tt.want))
			}
			for i := range points {
				if points[i] != tt.want[i] {
					t.Errorf("point %d = %+v, want %+v", i, points[i], tt.want[i])
				}
			}
		})
	}
}

func TestImportPointsMissingFile(t *testing.T) {
	_, _, err := ImportPoints(t.TempDir() + "/absent.csv")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteRows(t *testing.T) {
	rows := []Row{
		{Point: geom.Point{X: 1, Y: 2}, Size: 0.5, Corner: geom.TopRight, Labeled: true},
		{Point: geom.Point{X: -3, Y: 0.25}, Corner: geom.TopLeft},
	}

	var sb strings.Builder
	if err := WriteRows(&sb, rows); err != nil {
		t.Fatalf("WriteRows: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	want := []string{
		"x,y,side,size,corner",
		"1,2,0.5,0.5,1",
		"-3,0.25,INF,INF,0",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), sb.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

// An exported result file must parse back as a point set: the header is
// detected, the size columns are ignored, INF rows stay valid points.
func TestRoundTrip(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 2}}
	res := place.Search(points, place.DefaultSearchOptions())

	var sb strings.Builder
	if err := WriteRows(&sb, RowsFromSearch(points, res)); err != nil {
		t.Fatalf("WriteRows: %v", err)
	}

	back, skipped, err := ReadPoints(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadPoints: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(back) != len(points) {
		t.Fatalf("got %d points back, want %d", len(back), len(points))
	}
	for i := range points {
		if back[i] != points[i] {
			t.Errorf("point %d = %+v, want %+v", i, back[i], points[i])
		}
	}
}

func TestRowsFromPlacement(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 0}}
	cs := geom.GenerateCandidates(points, 0.5)
	place.PlaceFixed(cs, place.ChooseFixedCorners(points))

	rows := RowsFromPlacement(cs)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	labeled := 0
	for _, row := range rows {
		if row.Labeled {
			labeled++
			if row.Size != 0.5 {
				t.Errorf("labeled row size = %v, want 0.5", row.Size)
			}
		}
	}
	if labeled != 1 {
		t.Errorf("%d labeled rows, want 1 for a coincident pair", labeled)
	}
}
