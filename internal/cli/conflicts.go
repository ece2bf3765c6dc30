package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/dmelv/labelgrid/pkg/csvio"
	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/place"
)

// conflictsCommand creates the conflict graph debug command.
func (c *CLI) conflictsCommand() *cobra.Command {
	var size float64

	cmd := &cobra.Command{
		Use:   "conflicts <input.csv> <output.svg>",
		Short: "Render the candidate conflict graph at a fixed size",
		Long: `Render an SVG showing which points fight over space at the given label
size. Every point becomes a node, pinned at its coordinates; an edge
connects two points whose fixed-corner label rectangles would overlap,
or whose rectangle would cover the other point's anchor.

Useful for diagnosing why a point's threshold resolves low.

Examples:
  labelgrid conflicts points.csv conflicts.svg --size 0.5`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				return errors.New(errors.ErrCodeInvalidOptions, "--size must be positive")
			}
			return c.runConflicts(cmd.Context(), args[0], args[1], size)
		},
	}

	cmd.Flags().Float64VarP(&size, "size", "s", 0, "label size to test (required)")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func (c *CLI) runConflicts(ctx context.Context, input, output string, size float64) error {
	points, _, err := csvio.ImportPoints(input)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return errors.New(errors.ErrCodeNoPoints, "no valid points in input")
	}

	prog := newProgress(loggerFromContext(ctx))
	pairs := conflictPairs(points, size)
	prog.done(fmt.Sprintf("Checked %d candidate pairs", len(points)*(len(points)-1)/2))

	dot := conflictDOT(points, pairs)

	spinner := newSpinnerWithContext(ctx, "Rendering conflict graph...")
	spinner.Start()
	svg, err := renderDOT(ctx, dot)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(output, svg, 0o644); err != nil {
		return err
	}

	printSuccess("Found %d conflicts among %d points at size %g", len(pairs), len(points), size)
	printFile(output)
	return nil
}

// conflictPair is an unordered point index pair with overlapping labels.
type conflictPair struct {
	a, b int
}

// conflictPairs lists the point pairs whose fixed-corner label rectangles
// conflict at the given size.
func conflictPairs(points []geom.Point, size float64) []conflictPair {
	corners := place.ChooseFixedCorners(points)
	cs := geom.GenerateCandidates(points, size)

	rects := make([]geom.Rect, len(points))
	for i := range points {
		rects[i] = cs.CornerCandidate(i, corners[i]).AABB()
	}

	var pairs []conflictPair
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if geom.Overlaps(rects[i], rects[j]) ||
				geom.ContainsOpen(rects[i], points[j].X, points[j].Y) ||
				geom.ContainsOpen(rects[j], points[i].X, points[i].Y) {
				pairs = append(pairs, conflictPair{a: i, b: j})
			}
		}
	}
	return pairs
}

// conflictDOT builds a neato graph with nodes pinned at the point
// coordinates so the rendering mirrors the geometry.
func conflictDOT(points []geom.Point, pairs []conflictPair) string {
	conflicted := make(map[int]bool, len(pairs)*2)
	for _, p := range pairs {
		conflicted[p.a] = true
		conflicted[p.b] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph conflicts {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.12, color=grey];\n")
	buf.WriteString("  edge [color=red];\n")
	buf.WriteString("\n")

	for i, p := range points {
		attrs := fmt.Sprintf("pos=%q", fmt.Sprintf("%g,%g!", p.X, p.Y))
		if conflicted[i] {
			attrs += ", color=red, width=0.16"
		}
		fmt.Fprintf(&buf, "  p%d [%s];\n", i, attrs)
	}

	buf.WriteString("\n")
	for _, p := range pairs {
		fmt.Fprintf(&buf, "  p%d -- p%d;\n", p.a, p.b)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderDOT renders a DOT graph to SVG using Graphviz.
func renderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
