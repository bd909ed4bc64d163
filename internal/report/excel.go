package report

import (
	"fmt"
	"io"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by ExcelWriter.
const (
	SheetSummary    = "Summary"
	SheetFiltered   = "Filtered"
	SheetContinents = "Continents"
)

// ExcelWriter outputs reports as an XLSX workbook with a summary sheet, the
// filtered rows and the continent totals.
type ExcelWriter struct {
	baseWriter
}

// NewExcelWriter creates an ExcelWriter that outputs to the given writer.
func NewExcelWriter(output io.Writer) *ExcelWriter {
	return &ExcelWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as a workbook.
func (w *ExcelWriter) Write(report *model.RunReport) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return 0, err
	}
	if err := writeSummarySheet(f, report); err != nil {
		return 0, err
	}
	if _, err := f.NewSheet(SheetFiltered); err != nil {
		return 0, err
	}
	if err := writeFilteredSheet(f, report.View); err != nil {
		return 0, err
	}
	if _, err := f.NewSheet(SheetContinents); err != nil {
		return 0, err
	}
	if err := writeContinentSheet(f, report.Continents); err != nil {
		return 0, err
	}

	n, err := f.WriteTo(w.output)
	return int(n), err
}

func writeSummarySheet(f *excelize.File, report *model.RunReport) error {
	s := report.Summary
	rows := [][]any{
		{"Property", "Value"},
		{"Region", report.Config.RegionLabel()},
		{"Year", report.Config.Year},
		{"Operation", report.Config.Operation.String()},
		{"Data", report.DataPath},
		{"Loaded records", report.Records},
		{"Filtered records", report.Filtered},
		{"Result", report.Result},
		{"Values", s.Count},
		{"Mean", s.Mean},
		{"Median", s.Median},
		{"Std dev", s.StdDev},
		{"Min", s.Min},
		{"Max", s.Max},
	}
	if report.Failed() {
		rows = append(rows, []any{"Error", report.Error})
	}
	return setRows(f, SheetSummary, rows)
}

// writeFilteredSheet writes the filtered rows. Year cells that hold numbers
// are stored as numbers; anything else is kept as text.
func writeFilteredSheet(f *excelize.File, view model.View) error {
	names := view.Header().Names()
	if len(names) == 0 {
		return nil
	}

	rows := make([][]any, 0, view.Len()+1)
	head := make([]any, len(names))
	for i, name := range names {
		head[i] = name
	}
	rows = append(rows, head)

	for _, row := range view.Rows() {
		cells := make([]any, len(names))
		for i, name := range names {
			raw, ok := row.Value(name)
			if !ok {
				cells[i] = ""
				continue
			}
			if model.IsYearColumn(name) {
				if v, present, err := model.ParseCell(raw); err == nil && present {
					cells[i] = v
					continue
				}
			}
			cells[i] = raw
		}
		rows = append(rows, cells)
	}
	return setRows(f, SheetFiltered, rows)
}

func writeContinentSheet(f *excelize.File, totals []model.ContinentTotal) error {
	rows := make([][]any, 0, len(totals)+1)
	rows = append(rows, []any{"Continent", "Countries", "Total"})
	for _, c := range totals {
		rows = append(rows, []any{c.Continent, c.Countries, c.Total})
	}
	return setRows(f, SheetContinents, rows)
}

// setRows writes rows starting at A1.
func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
