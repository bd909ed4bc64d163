package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/pipeline"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/report"
	"github.com/nao1215/gdpdash/internal/visualizer"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSweepCmd creates the sweep command.
func NewSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compute the statistic for a range of years",
		Long: `Sweep computes the configured statistic of the configured region for
every year in a range. Years are computed concurrently and printed in order;
a year that fails (for example because the dataset has no such column) is
listed with its error and does not stop the others.

The region and operation come from the run configuration and can be
overridden with --region and --operation. Without an operation the sum is
computed.

Examples:
  gdpdash sweep --from 2000 --to 2020
  gdpdash sweep --region Europe --operation average --chart charts/europe.png`,
		Args: cobra.NoArgs,
		RunE: runSweepCmd,
	}

	addRunFlags(cmd)
	// Every year of the range is computed; the output kind is fixed.
	_ = cmd.Flags().MarkHidden("year")
	_ = cmd.Flags().MarkHidden("output")
	cmd.Flags().Int("from", 0, "First year (default: first year column)")
	cmd.Flags().Int("to", 0, "Last year (default: last year column)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Maximum number of years computed at once")
	cmd.Flags().String("chart", "", "Also write a line chart PNG of the results to this path")

	return cmd
}

// runSweepCmd executes the sweep command.
func runSweepCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &configError{err: err}
	}
	if err := loadRunConfig(cmd, cfg, true); err != nil {
		return err
	}
	if cfg.Run.Operation == "" {
		cfg.Run.Operation = model.OperationSum
	}
	if _, err := model.ParseOperation(cfg.Run.Operation.String()); err != nil {
		return &configError{err: err}
	}
	logger := newLogger(cfg.Verbose)

	chartPath, err := cmd.Flags().GetString("chart")
	if err != nil {
		return err
	}

	ds, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}
	start, end, err := sweepRange(cmd, ds)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := newProcessor(cfg.Settings)
	bp := pipeline.NewBatchProcessor(func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(pipeline.NewProcessStep(proc), pipeline.NewDescribeStep())
		return p
	}, pipeline.WithConcurrency(cfg.Concurrency), pipeline.WithBatchLogger(logger))

	reports, err := bp.ProcessYears(ctx, ds, cfg.Run, pipeline.YearsBetween(start, end))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s GDP of %s, %d to %d\n\n",
		cfg.Run.Operation.Label(), cfg.Run.RegionLabel(), start, end)
	if err := writeSweepTable(out, reports); err != nil {
		return err
	}

	if chartPath != "" {
		series := sweepSeries(cfg.Run, reports)
		if err := writeChart(chartPath, render.KindLine, series); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "\nChart written to %s\n", chartPath)
	}
	return nil
}

// sweepRange resolves --from and --to against the dataset's year columns.
func sweepRange(cmd *cobra.Command, ds *model.Dataset) (int, int, error) {
	first, last, ok := visualizer.YearRange(ds)
	if !ok {
		return 0, 0, fmt.Errorf("%s has no year columns: %w", ds.Source, model.ErrSchema)
	}
	start, err := cmd.Flags().GetInt("from")
	if err != nil {
		return 0, 0, err
	}
	end, err := cmd.Flags().GetInt("to")
	if err != nil {
		return 0, 0, err
	}
	if !cmd.Flags().Changed("from") {
		start = first
	}
	if !cmd.Flags().Changed("to") {
		end = last
	}
	if end < start {
		return 0, 0, &configError{err: fmt.Errorf("invalid year range: %d to %d", start, end)}
	}
	return start, end, nil
}

// writeSweepTable prints one row per year.
func writeSweepTable(w io.Writer, reports []*model.RunReport) error {
	table := tablewriter.NewWriter(w)
	table.Header("Year", "Result", "Filtered", "Values", "Error")
	for _, r := range reports {
		if r == nil {
			continue
		}
		row := []string{r.Config.Year, "", fmt.Sprint(r.Filtered), "", r.Error}
		if !r.Failed() {
			row[1] = report.FormatNumber(r.Result)
			row[3] = fmt.Sprint(r.Summary.Count)
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// sweepSeries turns the successful years into a line series.
func sweepSeries(run model.RunConfig, reports []*model.RunReport) model.Series {
	series := model.Series{
		Title:  fmt.Sprintf("%s GDP of %s", run.Operation.Label(), run.RegionLabel()),
		XLabel: "Year",
		YLabel: "GDP",
	}
	for _, r := range reports {
		if r == nil || r.Failed() {
			continue
		}
		series.Labels = append(series.Labels, r.Config.Year)
		series.Values = append(series.Values, r.Result)
	}
	return series
}
