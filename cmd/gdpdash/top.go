package main

import (
	"fmt"

	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/report"
	"github.com/nao1215/gdpdash/internal/visualizer"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTopCmd creates the top command.
func NewTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the largest economies of a year",
		Long: `Top ranks the countries of the dataset by GDP for one year, largest
first. Regions and income groups such as "World" are not countries and are
left out (see aggregates in the settings file).

Examples:
  # Top 10 of the latest year in the dataset
  gdpdash top

  # Top 5 of 2015, also drawn as a bar chart
  gdpdash top --year 2015 -n 5 --chart charts/top5.png`,
		Args: cobra.NoArgs,
		RunE: runTopCmd,
	}

	cmd.Flags().String("year", "", "Year to rank (default: latest year in the dataset)")
	cmd.Flags().IntP("count", "n", 0, "Number of countries (default: topN from settings or 10)")
	cmd.Flags().String("chart", "", "Also write a bar chart PNG to this path")

	return cmd
}

// runTopCmd executes the top command.
func runTopCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &configError{err: err}
	}
	logger := newLogger(cfg.Verbose)

	year, err := cmd.Flags().GetString("year")
	if err != nil {
		return err
	}
	n, err := cmd.Flags().GetInt("count")
	if err != nil {
		return err
	}
	if n < 0 {
		return &configError{err: fmt.Errorf("invalid count %d: must be non-negative", n)}
	}
	chartPath, err := cmd.Flags().GetString("chart")
	if err != nil {
		return err
	}

	ds, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}
	if year, err = latestYear(ds, year); err != nil {
		return err
	}

	var opts []visualizer.ShaperOption
	if n > 0 {
		opts = append(opts, visualizer.WithTopN(n))
	}
	series, err := newShaper(cfg.Settings, opts...).TopCountries(ds, year)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n\n", series.Title)
	table := tablewriter.NewWriter(out)
	table.Header("#", "Country", "GDP")
	for i, label := range series.Labels {
		if err := table.Append([]string{fmt.Sprint(i + 1), label, report.FormatNumber(series.Values[i])}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if chartPath != "" {
		if err := writeChart(chartPath, render.KindBar, series); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "\nChart written to %s\n", chartPath)
	}
	return nil
}
