package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/olekukonko/tablewriter"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: The header block keeps the labels of the original console
// output ("Region    :", "Computed Result:") so scripts that grep for them keep
// working. Tables are drawn with tablewriter rather than hand-padded columns.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections without data are shown.
	showEmpty bool

	// verbose adds the descriptive summary and the executed steps.
	verbose bool

	// hideResult drops the record counts and the computed statistic, for
	// callers that printed them while the run progressed.
	hideResult bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithResult controls whether the record counts and the computed statistic
// are written. They are written by default.
func WithResult(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.hideResult = !show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if !w.hideResult {
		w.writeResult(&sb, report)
	}
	if w.verbose {
		w.writeSummary(&sb, report)
	}
	if err := w.writeTopCountries(&sb, report); err != nil {
		return 0, err
	}
	if err := w.writeContinents(&sb, report); err != nil {
		return 0, err
	}
	if err := w.writeTrend(&sb, report); err != nil {
		return 0, err
	}
	w.writeCharts(&sb, report)
	w.writeFooter(&sb, report)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the run configuration block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("GDP ANALYTICS DASHBOARD\n")
	sb.WriteString("=======================\n")
	fmt.Fprintf(sb, "Region    : %s\n", report.Config.RegionLabel())
	fmt.Fprintf(sb, "Year      : %s\n", report.Config.Year)
	fmt.Fprintf(sb, "Operation : %s\n", report.Config.Operation)
	if report.Config.Country != "" {
		fmt.Fprintf(sb, "Country   : %s\n", report.Config.Country)
	}
	sb.WriteString("\n")
}

// writeResult writes the record counts and the computed statistic.
func (w *SimpleWriter) writeResult(sb *strings.Builder, report *model.RunReport) {
	fmt.Fprintf(sb, "Loaded %d records\n", report.Records)
	fmt.Fprintf(sb, "Computed Result: %s\n", FormatNumber(report.Result))
	fmt.Fprintf(sb, "Filtered records: %d\n", report.Filtered)
	sb.WriteString("\n")
}

// writeSummary writes the descriptive statistics of the aggregated values.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	s := report.Summary
	if s.Count == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "SUMMARY")
	fmt.Fprintf(sb, "  Values:  %d\n", s.Count)
	fmt.Fprintf(sb, "  Sum:     %s\n", FormatNumber(s.Sum))
	fmt.Fprintf(sb, "  Mean:    %s\n", FormatNumber(s.Mean))
	fmt.Fprintf(sb, "  Median:  %s\n", FormatNumber(s.Median))
	fmt.Fprintf(sb, "  Std dev: %s\n", FormatNumber(s.StdDev))
	fmt.Fprintf(sb, "  Min:     %s\n", FormatNumber(s.Min))
	fmt.Fprintf(sb, "  Max:     %s\n", FormatNumber(s.Max))
	fmt.Fprintf(sb, "  P25:     %s\n", FormatNumber(s.P25))
	fmt.Fprintf(sb, "  P75:     %s\n", FormatNumber(s.P75))
	sb.WriteString("\n")
}

// writeTopCountries writes the ranked countries table.
func (w *SimpleWriter) writeTopCountries(sb *strings.Builder, report *model.RunReport) error {
	top := report.TopCountries
	if top.Empty() && !w.showEmpty {
		return nil
	}
	writeSection(sb, strings.ToUpper(top.Title))
	if top.Empty() {
		sb.WriteString("  No data.\n\n")
		return nil
	}

	table := tablewriter.NewWriter(sb)
	table.Header("Rank", "Country", "GDP")
	for i, label := range top.Labels {
		if err := table.Append([]string{strconv.Itoa(i + 1), label, FormatNumber(top.Values[i])}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	sb.WriteString("\n")
	return nil
}

// writeContinents writes the per-continent totals table.
func (w *SimpleWriter) writeContinents(sb *strings.Builder, report *model.RunReport) error {
	if len(report.Continents) == 0 && !w.showEmpty {
		return nil
	}
	writeSection(sb, "GDP BY CONTINENT ("+report.Config.Year+")")
	if len(report.Continents) == 0 {
		sb.WriteString("  No data.\n\n")
		return nil
	}

	table := tablewriter.NewWriter(sb)
	table.Header("Continent", "Countries", "Total")
	for _, c := range report.Continents {
		if err := table.Append([]string{c.Continent, strconv.Itoa(c.Countries), FormatNumber(c.Total)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	sb.WriteString("\n")
	return nil
}

// writeTrend writes the selected country's values per year.
func (w *SimpleWriter) writeTrend(sb *strings.Builder, report *model.RunReport) error {
	if report.Trend == nil {
		return nil
	}
	return WriteTrendTable(sb, *report.Trend)
}

// writeCharts lists the rendered chart files.
func (w *SimpleWriter) writeCharts(sb *strings.Builder, report *model.RunReport) {
	if len(report.ChartFiles) == 0 {
		return
	}
	sb.WriteString("Generating visualizations...\n")
	for _, f := range report.ChartFiles {
		fmt.Fprintf(sb, "  - %s\n", f)
	}
	sb.WriteString("\n")
}

// writeFooter writes the status line.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.RunReport) {
	if report.Failed() {
		fmt.Fprintf(sb, "Status: ERROR - %s\n", report.Error)
		return
	}
	if w.verbose && len(report.Steps) > 0 {
		fmt.Fprintf(sb, "Steps: %s\n", strings.Join(report.Steps, " -> "))
	}
}

// WriteTrendTable writes a country trend as a year/value table.
func WriteTrendTable(w io.Writer, trend model.Trend) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", strings.ToUpper(trend.Series().Title), strings.Repeat("-", 70)); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("Year", "GDP")
	for i, year := range trend.Years {
		if err := table.Append([]string{year, FormatNumber(trend.Values[i])}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeSection writes a section title framed by rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
