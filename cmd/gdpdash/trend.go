package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/report"
	"github.com/nao1215/gdpdash/internal/visualizer"
	"github.com/spf13/cobra"
)

// NewTrendCmd creates the trend command.
func NewTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend <country>",
		Short: "Show the GDP of one country over the years",
		Long: `Trend prints the GDP of a country for every year in a range. Years
without a value are shown as 0.

The range defaults to trend.start and trend.end from the settings file, and
otherwise to the first and last year columns of the dataset.

Examples:
  gdpdash trend Japan
  gdpdash trend "United States" --from 1990 --to 2020 --chart charts/us.png`,
		Args: cobra.ExactArgs(1),
		RunE: runTrendCmd,
	}

	cmd.Flags().Int("from", 0, "First year (default: trend.start or the first year column)")
	cmd.Flags().Int("to", 0, "Last year (default: trend.end or the last year column)")
	cmd.Flags().String("chart", "", "Also write a line chart PNG to this path")

	return cmd
}

// runTrendCmd executes the trend command.
func runTrendCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &configError{err: err}
	}
	logger := newLogger(cfg.Verbose)

	from, err := cmd.Flags().GetInt("from")
	if err != nil {
		return err
	}
	to, err := cmd.Flags().GetInt("to")
	if err != nil {
		return err
	}
	chartPath, err := cmd.Flags().GetString("chart")
	if err != nil {
		return err
	}

	ds, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}
	first, last, ok := visualizer.YearRange(ds)
	if !ok {
		return fmt.Errorf("%s has no year columns: %w", ds.Source, model.ErrSchema)
	}
	start, end := cfg.Settings.TrendBounds(first, last)
	if cmd.Flags().Changed("from") {
		start = from
	}
	if cmd.Flags().Changed("to") {
		end = to
	}
	if end < start {
		return &configError{err: fmt.Errorf("%w: %d to %d", config.ErrInvalidTrendRange, start, end)}
	}

	trend, err := newShaper(cfg.Settings).Trend(ds, args[0], start, end)
	if errors.Is(err, model.ErrNotFound) {
		return &configError{err: fmt.Errorf("unknown country: %w", err)}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.WriteTrendTable(out, *trend); err != nil {
		return err
	}

	if chartPath != "" {
		if err := writeChart(chartPath, render.KindLine, trend.Series()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Chart written to %s\n", chartPath)
	}
	return nil
}
