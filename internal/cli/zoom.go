package cli

import (
	"fmt"
	"math/rand"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dmelv/labelgrid/pkg/csvio"
	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/place"
)

// zoomStep is the multiplicative size change per keypress.
const zoomStep = 1.1

// zoomCommand creates the interactive monotone session command.
func (c *CLI) zoomCommand() *cobra.Command {
	var (
		pointCount int
		startSize  float64
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "zoom [input.csv]",
		Short: "Interactively grow and shrink labels over a point set",
		Long: `Open an interactive session where the shared label size is grown and
shrunk with the keyboard. Placement is monotone across steps: growing
only removes labels, shrinking keeps every surviving label in place and
fills freed space, and a point's corner never changes while its label
survives.

Without an input file, a random point set is generated.

Keys:
  + / k / up     grow labels
  - / j / down   shrink labels
  r              reset the session
  q / esc        quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var points []geom.Point
			if len(args) == 1 {
				var err error
				points, _, err = csvio.ImportPoints(args[0])
				if err != nil {
					return err
				}
			} else {
				points = randomZoomPoints(seed, pointCount)
			}
			if len(points) == 0 {
				return fmt.Errorf("no points to label")
			}

			model := newZoomModel(points, startSize)
			_, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&pointCount, "points", 60, "random point count when no input file is given")
	cmd.Flags().Float64Var(&startSize, "size", 0, "starting label size (default: span/20)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for generated points")

	return cmd
}

// randomZoomPoints generates n points uniformly over a square whose side
// scales with sqrt(n), keeping the density roughly constant.
func randomZoomPoints(seed int64, n int) []geom.Point {
	if n <= 0 {
		n = 60
	}
	rng := rand.New(rand.NewSource(seed))
	span := 1.0
	for span*span < float64(n) {
		span *= 1.5
	}
	points := make([]geom.Point, n)
	for i := range points {
		points[i] = geom.Point{X: rng.Float64() * span, Y: rng.Float64() * span}
	}
	return points
}

// =============================================================================
// ZoomModel - Interactive monotone placement session
// =============================================================================

// ZoomModel is the bubbletea model for the zoom session.
type ZoomModel struct {
	points  []geom.Point
	cs      *geom.CandidateSet
	state   *place.State
	size    float64
	start   float64
	minSize float64
	maxSize float64
	labeled int
	bounds  geom.Rect
	width   int
	height  int
}

func newZoomModel(points []geom.Point, startSize float64) *ZoomModel {
	span := geom.Span(points)
	if startSize <= 0 {
		startSize = span / 20
	}
	m := &ZoomModel{
		points:  points,
		cs:      geom.GenerateCandidates(points, startSize),
		state:   place.NewState(),
		size:    startSize,
		start:   startSize,
		minSize: span / 1000,
		maxSize: span,
		bounds:  geom.Bounds(points),
		width:   80,
		height:  24,
	}
	m.replace()
	return m
}

// replace runs one monotone placement pass at the current size.
func (m *ZoomModel) replace() {
	rects := place.PlaceMonotone(m.cs, m.size, m.state)
	m.labeled = len(rects)
}

func (m *ZoomModel) Init() tea.Cmd {
	return nil
}

func (m *ZoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=", "up", "k":
			m.size *= zoomStep
			if m.size > m.maxSize {
				m.size = m.maxSize
			}
			m.replace()
		case "-", "down", "j":
			m.size /= zoomStep
			if m.size < m.minSize {
				m.size = m.minSize
			}
			m.replace()
		case "r":
			m.state.Reset()
			m.size = m.start
			m.replace()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *ZoomModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Label Zoom"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("+/- resize  r reset  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  size %s   labels %s   points %s\n",
		StyleNumber.Render(fmt.Sprintf("%.4g", m.size)),
		StyleNumber.Render(fmt.Sprintf("%d", m.labeled)),
		StyleDim.Render(fmt.Sprintf("%d", len(m.points)))))

	return b.String()
}

// renderCanvas draws the point set and the current labels as a character
// grid. Label bodies are shaded, labeled anchors solid, unlabeled dim.
func (m *ZoomModel) renderCanvas() string {
	cols := m.width - 4
	rows := m.height - 8
	if cols < 20 {
		cols = 20
	}
	if rows < 8 {
		rows = 8
	}

	w := m.bounds.Width()
	h := m.bounds.Height()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	toCell := func(p geom.Point) (int, int) {
		cx := int((p.X - m.bounds.XMin) / w * float64(cols-1))
		// Terminal rows grow downward, world Y grows upward.
		cy := int((m.bounds.YMax - p.Y) / h * float64(rows-1))
		return clampInt(cx, 0, cols-1), clampInt(cy, 0, rows-1)
	}

	// Label bodies first, anchors on top.
	for i := range m.points {
		cand := m.cs.Chosen(i)
		if cand == nil {
			continue
		}
		r := cand.AABB()
		x0, y0 := toCell(geom.Point{X: r.XMin, Y: r.YMax})
		x1, y1 := toCell(geom.Point{X: r.XMax, Y: r.YMin})
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				grid[y][x] = '░'
			}
		}
	}
	for i, p := range m.points {
		x, y := toCell(p)
		if m.cs.Chosen(i) != nil {
			grid[y][x] = '■'
		} else {
			grid[y][x] = '·'
		}
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim)

	lines := make([]string, rows)
	for y := range grid {
		lines[y] = string(grid[y])
	}
	return frame.Render(strings.Join(lines, "\n"))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
