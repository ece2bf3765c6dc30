package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmelv/labelgrid/pkg/csvio"
	"github.com/dmelv/labelgrid/pkg/errors"
	"github.com/dmelv/labelgrid/pkg/pipeline"
)

// placeCommand creates the one-shot placement command.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		size    float64
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "place <input.csv> <output.csv>",
		Short: "Run one greedy placement pass at a fixed label size",
		Long: `Run a single greedy placement pass over the input points, with every
label sharing the given size. Points that cannot be labeled without a
conflict are written with INF size columns.

Examples:
  labelgrid place points.csv labels.csv --size 0.5`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				return errors.New(errors.ErrCodeInvalidOptions, "--size must be positive")
			}
			return c.runPlace(cmd.Context(), args[0], args[1], size, noCache, refresh)
		},
	}

	cmd.Flags().Float64VarP(&size, "size", "s", 0, "shared label size (required)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, input, output string, size float64, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	points, skipped, err := runner.Load(ctx, pipeline.Options{Input: input, Logger: c.Logger})
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d labels at size %g...", len(points), size))
	spinner.Start()
	rows, cacheHit, err := runner.PlaceWithCacheInfo(ctx, points, size, refresh)
	if err != nil {
		spinner.StopWithError("Placement failed")
		return err
	}
	spinner.Stop()

	if err := csvio.ExportRows(output, rows); err != nil {
		return err
	}

	printSuccess("Placed labels at size %g", size)
	printStats(len(points), labeledCount(rows), cacheHit)
	if skipped > 0 {
		printWarning("Skipped %d malformed rows", skipped)
	}
	printFile(output)

	return nil
}
