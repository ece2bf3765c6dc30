package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmelv/labelgrid/pkg/geom"
	"github.com/dmelv/labelgrid/pkg/pipeline"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	smin        float64
	smax        float64
	epsRel      float64
	growth      float64
	maxGrowth   int
	maxRefine   int
	multiSample bool
	preSamples  int
	noCache     bool
	refresh     bool
}

// searchCommand creates the threshold search command.
//
// Default tuning (overridable via flags or the config file):
//   - smin: 1e-4, smax: auto from the point span
//   - growth 1.2, up to 56 growth and 64 refinement trials
//   - log-spaced pre-sampling on
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{multiSample: true}

	cmd := &cobra.Command{
		Use:   "search <input.csv> <output.csv>",
		Short: "Compute per-point maximum label sizes",
		Long: `Compute, for every point, the largest label size at which the point still
receives a label when the whole set is labeled together at that size.

The input is a CSV of x,y coordinates (header optional, ';' accepted as
separator). The output carries one row per point: its coordinates, the
resolved size (INF when the point can never be labeled), and the corner
the label hangs from.

Results are cached by point-set content and search parameters, so
repeated runs over the same input are instant.

Examples:
  labelgrid search points.csv labels.csv
  labelgrid search points.csv labels.csv --smax 2.5 --growth 1.1
  labelgrid search points.csv labels.csv --multi=false`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Config.applySearchDefaults(&opts)
			return c.runSearch(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.smin, "smin", 0, "minimum label size to try (default 1e-4)")
	cmd.Flags().Float64Var(&opts.smax, "smax", 0, "maximum label size to try (default: point span)")
	cmd.Flags().Float64Var(&opts.epsRel, "eps-rel", 0, "resolution tolerance relative to the search range")
	cmd.Flags().Float64Var(&opts.growth, "growth", 0, "growth factor between trial sizes (default 1.2)")
	cmd.Flags().IntVar(&opts.maxGrowth, "max-growth", 0, "maximum growth-phase trials (default 56)")
	cmd.Flags().IntVar(&opts.maxRefine, "max-refine", 0, "maximum refinement trials (default 64)")
	cmd.Flags().BoolVar(&opts.multiSample, "multi", opts.multiSample, "pre-sample the size range before the growth phase")
	cmd.Flags().IntVar(&opts.preSamples, "multi-sample", 0, "pre-sample trial count (0 = auto)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")

	return cmd
}

// runSearch executes the full pipeline and reports the outcome.
func (c *CLI) runSearch(ctx context.Context, input, output string, opts searchOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Searching thresholds for %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Input:        input,
		Output:       output,
		SMin:         opts.smin,
		SMax:         opts.smax,
		EpsRel:       opts.epsRel,
		Growth:       opts.growth,
		MaxGrowth:    opts.maxGrowth,
		MaxRefine:    opts.maxRefine,
		PreSamples:   opts.preSamples,
		SingleSample: !opts.multiSample,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Search failed")
		return err
	}
	spinner.Stop()

	printSuccess("Resolved %d points", result.Stats.PointCount)
	printStats(result.Stats.PointCount, labeledCount(result.Rows), result.CacheInfo.SearchHit)
	printDetail("span %.4g · smin %.4g · smax %.4g · eps %.4g",
		geom.Span(result.Points), result.Search.SMin, result.Search.SMax, result.Search.Eps)
	printDetail("trials %d (sweep %d, growth %d, refine %d)",
		result.Stats.Trials, result.Search.SweepRuns, result.Search.GrowthRuns, result.Search.RefineRuns)
	printDetail("coverage %.1f%%", result.Stats.Coverage*100)
	if result.Stats.SkippedRows > 0 {
		printWarning("Skipped %d malformed rows", result.Stats.SkippedRows)
	}
	printFile(output)

	return nil
}
