package report

import (
	"io"
	"math"
	"strconv"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// The dashboard Report tab renders this output as HTML.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, mermaid charts and GitHub-flavored
// alerts without string concatenation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeTopCountries(md, report)
	w.writeContinents(md, report)
	w.writeTrend(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the run configuration table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("GDP Analytics Report")
	md.PlainText("")

	rows := [][]string{
		{"Region", report.Config.RegionLabel()},
		{"Year", report.Config.Year},
		{"Operation", report.Config.Operation.Label()},
		{"Data", "`" + report.DataPath + "`"},
		{"Loaded records", strconv.Itoa(report.Records)},
		{"Filtered records", strconv.Itoa(report.Filtered)},
		{"Result", "**" + FormatNumber(report.Result) + "**"},
		{"Run date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Status", statusText(report)},
	}
	if report.Config.Country != "" {
		rows = append(rows, []string{"Country", report.Config.Country})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAlert(md, report)
}

// statusText returns the status cell for the report.
func statusText(report *model.RunReport) string {
	if report.Failed() {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

// writeAlert writes an alert describing how complete the data was.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case report.Failed():
		md.Cautionf("The run stopped early: %s", report.Error)
	case report.Filtered == 0:
		md.Warningf("No rows matched region %q.", report.Config.RegionLabel())
	case report.Summary.Count < report.Filtered:
		md.Importantf("%d of %d matching rows have no value for %s and were skipped.",
			report.Filtered-report.Summary.Count, report.Filtered, report.Config.Year)
	default:
		md.Tip("Every matching row has a value for the selected year.")
	}
	md.PlainText("")
}

// writeSummary writes the descriptive statistics table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	s := report.Summary
	md.H2("Summary")
	md.PlainText("")
	if s.Count == 0 {
		md.PlainText("No values to summarize.")
		md.PlainText("")
		return
	}
	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Values", strconv.Itoa(s.Count)},
			{"Sum", FormatNumber(s.Sum)},
			{"Mean", FormatNumber(s.Mean)},
			{"Median", FormatNumber(s.Median)},
			{"Std dev", FormatNumber(s.StdDev)},
			{"Min", FormatNumber(s.Min)},
			{"Max", FormatNumber(s.Max)},
			{"P25", FormatNumber(s.P25)},
			{"P75", FormatNumber(s.P75)},
		},
	})
	md.PlainText("")
}

// writeTopCountries writes the ranked countries table.
func (w *MarkdownWriter) writeTopCountries(md *markdown.Markdown, report *model.RunReport) {
	top := report.TopCountries
	if top.Empty() {
		return
	}
	md.H2(top.Title)
	md.PlainText("")

	rows := make([][]string, top.Len())
	for i, label := range top.Labels {
		rows[i] = []string{strconv.Itoa(i + 1), label, FormatNumber(top.Values[i])}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Country", "GDP"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeContinents writes the continent totals table and pie chart.
func (w *MarkdownWriter) writeContinents(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Continents) == 0 {
		return
	}
	md.H2("GDP by continent (" + report.Config.Year + ")")
	md.PlainText("")

	rows := make([][]string, len(report.Continents))
	for i, c := range report.Continents {
		rows[i] = []string{c.Continent, strconv.Itoa(c.Countries), FormatNumber(c.Total)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Continent", "Countries", "Total"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report.Continents)
}

// writePieChart writes a mermaid pie chart of continent totals.
// Non-positive totals cannot be drawn as slices and are left out.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, totals []model.ContinentTotal) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Continent share"),
		piechart.WithShowData(true),
	)

	slices := 0
	for _, c := range totals {
		if c.Total <= 0 {
			continue
		}
		chart.LabelAndIntValue(c.Continent, uint64(math.Round(c.Total)))
		slices++
	}
	if slices == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTrend writes the selected country's trend.
func (w *MarkdownWriter) writeTrend(md *markdown.Markdown, report *model.RunReport) {
	if report.Trend == nil {
		return
	}
	t := report.Trend
	md.H2(t.Series().Title)
	md.PlainText("")

	rows := make([][]string, len(t.Years))
	for i, year := range t.Years {
		rows[i] = []string{year, FormatNumber(t.Values[i])}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Year", "GDP"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [gdpdash](https://github.com/nao1215/gdpdash)*")
}
