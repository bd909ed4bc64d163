package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/database"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/pipeline"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/report"
	"github.com/spf13/cobra"
)

// bannerWidth is the width of the start and end banners.
const bannerWidth = 50

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the configured statistic and print the report",
		Long: `Run loads the run configuration and the dataset, filters the rows of the
configured region, aggregates the configured year and prints the result.

When the run configuration sets "output": "dashboard", chart images are
written to the chart directory (charts/ by default). Every run is recorded in
the history database unless --no-save is given.

Examples:
  # Run with config/config.json and the bundled dataset
  gdpdash run

  # Override the region and year of the run configuration
  gdpdash run --region Europe --year 2015

  # Write a Markdown report
  gdpdash run --markdown -o reports/asia.md

  # Export the filtered rows and totals as an Excel workbook
  gdpdash run -o reports/asia.xlsx`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addRunFlags(cmd)

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "o", "",
		"Write report to the given file; a .xlsx extension writes an Excel workbook")

	// Output locations
	cmd.Flags().String("chart-dir", "",
		"Directory for chart images (default: "+config.DefaultChartDir+")")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (env: "+config.EnvDBDir+", default: XDG data directory)")
	cmd.Flags().Bool("no-save", false, "Do not record the run in the history database")

	return cmd
}

// runRunCmd executes the run command. The start and end banners frame the
// output even when the run fails; the error is printed between them.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if machineReadable(cmd) {
		out = cmd.ErrOrStderr()
	}

	printBanner(out, "PROGRAM STARTED")
	err := runPipeline(cmd, out)
	if err != nil {
		printError(out, err)
	}
	printBanner(out, "PROGRAM ENDED")

	if err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// machineReadable reports whether a JSON or Markdown report goes to stdout,
// in which case progress output moves to stderr.
func machineReadable(cmd *cobra.Command) bool {
	jsonReport, _ := cmd.Flags().GetBool("json")
	markdownReport, _ := cmd.Flags().GetBool("markdown")
	reportFile, _ := cmd.Flags().GetString("report-file")
	return (jsonReport || markdownReport) && reportFile == ""
}

// printBanner writes title framed by rules.
func printBanner(w io.Writer, title string) {
	rule := strings.Repeat("=", bannerWidth)
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintln(w, rule)
	_, _ = bold.Fprintln(w, title)
	_, _ = fmt.Fprintln(w, rule)
}

// buildRunConfig adds the run command flags to the global configuration.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report-file"); err != nil {
		return nil, err
	}
	chartDir, err := cmd.Flags().GetString("chart-dir")
	if err != nil {
		return nil, err
	}
	if chartDir != "" {
		cfg.ChartDir = chartDir
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// runPipeline loads the configuration, executes the run pipeline and
// writes the report. Progress goes to progress.
func runPipeline(cmd *cobra.Command, progress io.Writer) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	_, _ = fmt.Fprintln(progress, "Starting dashboard...")
	if err := loadRunConfig(cmd, cfg, false); err != nil {
		return err
	}
	if err := cfg.ValidateRun(); err != nil {
		return &configError{err: err}
	}
	_, _ = fmt.Fprintln(progress, "Config loaded successfully!")
	_, _ = fmt.Fprintf(progress, "Loading GDP data from %s...\n", cfg.DataPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(pipeline.WithLogger(logger), pipeline.WithAfterStep(progressPrinter(progress)))
	p.AddSteps(
		pipeline.NewLoadStep(cfg.DataPath),
		pipeline.NewProcessStep(newProcessor(cfg.Settings)),
		pipeline.NewDescribeStep(),
		pipeline.NewShapeStep(newShaper(cfg.Settings),
			pipeline.WithTrendRange(cfg.Settings.Trend.Start, cfg.Settings.Trend.End)),
		pipeline.NewRenderStep(render.NewRenderer(render.WithLogger(logger)), cfg.ChartDir),
	)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		p.AddStep(pipeline.NewSaveStep(db))
		logger.Debug("history database opened", "path", db.Path())
	}

	runReport := model.NewRunReport(cfg.Run)
	if err := p.Execute(ctx, runReport); err != nil {
		logger.Debug("run failed", "run", runReport.ID, "steps", runReport.Steps, "error", err)
		return err
	}
	if err := outputReport(cmd.OutOrStdout(), cfg, runReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if cfg.ReportFile != "" {
		_, _ = fmt.Fprintf(progress, "Report written to %s\n", cfg.ReportFile)
	}
	logger.Info("run complete", "run", runReport.ID, "duration", runReport.Duration())
	return nil
}

// progressPrinter reports the loaded record count as soon as the dataset is
// read and the computed statistic once it is known, so a later failure still
// leaves them on the console.
func progressPrinter(w io.Writer) func(string, *model.RunReport) {
	return func(step string, r *model.RunReport) {
		switch step {
		case "load":
			_, _ = fmt.Fprintf(w, "Loaded %d records\n", r.Records)
			_, _ = fmt.Fprintln(w, "Processing data...")
		case "process":
			_, _ = fmt.Fprintf(w, "Computed Result: %s\n", report.FormatNumber(r.Result))
			_, _ = fmt.Fprintf(w, "Filtered records: %d\n", r.Filtered)
		}
	}
}

// outputReport writes the run report in the requested format, to
// cfg.ReportFile when set and to stdout otherwise. A report file is
// accompanied by the console summary on stdout.
func outputReport(stdout io.Writer, cfg *config.Config, runReport *model.RunReport) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(stdout, cfg).Write(runReport)
		return err
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := report.NewMultiWriter(
		newReportWriter(f, cfg),
		report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose), report.WithResult(false)),
	)
	_, err = w.Write(runReport)
	return err
}

// newReportWriter selects the writer for cfg.
func newReportWriter(output io.Writer, cfg *config.Config) report.Writer {
	switch {
	case strings.EqualFold(filepath.Ext(cfg.ReportFile), ".xlsx"):
		return report.NewExcelWriter(output)
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose), report.WithResult(false))
	}
}
