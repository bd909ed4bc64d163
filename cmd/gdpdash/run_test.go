package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/report"
	"github.com/xuri/excelize/v2"
)

func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "run" {
			t.Errorf("expected use 'run', got %q", cmd.Use)
		}
	})

	t.Run("has report flags", func(t *testing.T) {
		t.Parallel()
		for name, shorthand := range map[string]string{"json": "j", "markdown": "m", "report-file": "o"} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Fatalf("expected %s flag", name)
			}
			if flag.Shorthand != shorthand {
				t.Errorf("expected shorthand %q for %s, got %q", shorthand, name, flag.Shorthand)
			}
		}
	})

	t.Run("has run overrides", func(t *testing.T) {
		t.Parallel()
		for _, name := range runFlags {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

func TestRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints the computed result between banners", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, _, err := execute(t, f.args("run", "--no-save")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"PROGRAM STARTED",
			"Config loaded successfully!",
			"Region    : Asia",
			"Loaded 5 records",
			"Computed Result: 15",
			"Filtered records: 3",
			"PROGRAM ENDED",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
		if strings.Index(stdout, "PROGRAM STARTED") > strings.Index(stdout, "PROGRAM ENDED") {
			t.Error("expected the start banner before the end banner")
		}
		if n := strings.Count(stdout, "Loaded 5 records"); n != 1 {
			t.Errorf("expected the record count once, got %d times", n)
		}
		if strings.Index(stdout, "Loaded 5 records") > strings.Index(stdout, "Processing data...") {
			t.Errorf("expected the record count before processing, got:\n%s", stdout)
		}
	})

	t.Run("prints the record count before a later failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, _, err := execute(t, f.args("run", "--no-save", "--operation", "median")...)
		if !errors.Is(err, model.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
		if !strings.Contains(stdout, "Loaded 5 records") {
			t.Errorf("expected the record count, got:\n%s", stdout)
		}
		if strings.Contains(stdout, "Computed Result") {
			t.Errorf("expected no result after the failure, got:\n%s", stdout)
		}
	})

	t.Run("unknown operation over a region without values gives zero", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		writeTestFile(t, f.config, `{"region": "Asia", "year": 2020, "operation": "median", "output": "console"}`)
		writeTestFile(t, f.data, "Country Name,Continent,2020\nJapan,Asia,\nFrance,Europe,30\n")

		stdout, _, err := execute(t, f.args("run", "--no-save")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Computed Result: 0", "Filtered records: 1"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("applies command line overrides", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, _, err := execute(t, f.args("run", "--no-save", "--region", "Europe", "--operation", "sum", "--year", "2019")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Computed Result: 29") {
			t.Errorf("expected Europe 2019 sum of 29, got:\n%s", stdout)
		}
		if !strings.Contains(stdout, "Filtered records: 1") {
			t.Errorf("expected one filtered record, got:\n%s", stdout)
		}
	})

	t.Run("writes JSON to stdout and progress to stderr", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, stderr, err := execute(t, f.args("run", "--no-save", "--json")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("expected JSON on stdout: %v\n%s", err, stdout)
		}
		if got.Report == nil || got.Report.Result != 15 {
			t.Errorf("expected result 15, got %+v", got.Report)
		}
		if !strings.Contains(stderr, "PROGRAM ENDED") {
			t.Errorf("expected banner on stderr, got %q", stderr)
		}
	})

	t.Run("renders charts for the dashboard output", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		chartDir := filepath.Join(f.dir, "charts")

		stdout, _, err := execute(t, f.args("run", "--no-save", "--output", "dashboard", "--chart-dir", chartDir)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Generating visualizations...") {
			t.Errorf("expected chart list, got:\n%s", stdout)
		}
		for _, name := range []string{"region_bar.png", "year_line.png", "top_countries_bar.png", "continents_pie.png"} {
			if _, err := os.Stat(filepath.Join(chartDir, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}
	})

	t.Run("writes an Excel workbook", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		path := filepath.Join(f.dir, "reports", "asia.xlsx")

		stdout, _, err := execute(t, f.args("run", "--no-save", "-o", path)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Report written to "+path) {
			t.Errorf("expected report path in output, got:\n%s", stdout)
		}
		if !strings.Contains(stdout, "Computed Result: 15") {
			t.Errorf("expected console summary next to the report file, got:\n%s", stdout)
		}

		wb, err := excelize.OpenFile(path)
		if err != nil {
			t.Fatalf("failed to open workbook: %v", err)
		}
		t.Cleanup(func() { _ = wb.Close() })
		sheets := wb.GetSheetList()
		if len(sheets) != 3 || sheets[0] != report.SheetSummary {
			t.Errorf("unexpected sheets %v", sheets)
		}
	})

	t.Run("records the run in the history database", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		dbDir := filepath.Join(f.dir, "db")

		if _, _, err := execute(t, f.args("run", "--db-dir", dbDir)...); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dbDir, config.HistoryDBFile)); err != nil {
			t.Errorf("expected history database: %v", err)
		}
	})
}

func TestRunCmd_ConsoleOutputReadsOnlyTheRegion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "bad cell outside the region",
			csv:  "Country Name,Country Code,Continent,2020\nJapan,JPN,Asia,10\nIndia,IND,Asia,20\nNepal,NPL,Asia,\nFrance,FRA,Europe,n/a\n",
		},
		{
			name: "no country column",
			csv:  "Name,Continent,2020\nJapan,Asia,10\nIndia,Asia,20\nNepal,Asia,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			writeTestFile(t, f.data, tt.csv)

			stdout, _, err := execute(t, f.args("run", "--no-save")...)
			if err != nil {
				t.Fatalf("unexpected error: %v\n%s", err, stdout)
			}
			for _, want := range []string{"Computed Result: 15", "Filtered records: 3"} {
				if !strings.Contains(stdout, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestRunCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      func(t *testing.T, f fixture) []string
		wantIs    error
		wantClass string
	}{
		{
			name: "missing dataset",
			args: func(t *testing.T, f fixture) []string {
				return append(f.args("run", "--no-save"), "--data", filepath.Join(f.dir, "missing.csv"))
			},
			wantIs:    model.ErrNotFound,
			wantClass: classNotFound,
		},
		{
			name: "unknown operation",
			args: func(t *testing.T, f fixture) []string {
				return f.args("run", "--no-save", "--operation", "median")
			},
			wantIs:    model.ErrInvalidOperation,
			wantClass: classConfig,
		},
		{
			name: "malformed run configuration",
			args: func(t *testing.T, f fixture) []string {
				writeTestFile(t, f.config, "[1, 2]")
				return f.args("run", "--no-save")
			},
			wantIs:    model.ErrParse,
			wantClass: classConfig,
		},
		{
			name: "conflicting report formats",
			args: func(t *testing.T, f fixture) []string {
				return f.args("run", "--no-save", "--json", "--markdown")
			},
			wantIs:    config.ErrConflictingReportFormats,
			wantClass: classConfig,
		},
		{
			name: "non numeric cell",
			args: func(t *testing.T, f fixture) []string {
				writeTestFile(t, f.data, "Country Name,Continent,2020\nJapan,Asia,n/a\n")
				return f.args("run", "--no-save")
			},
			wantIs:    model.ErrParse,
			wantClass: classData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			stdout, stderr, err := execute(t, tt.args(t, f)...)
			if !errors.Is(err, tt.wantIs) {
				t.Fatalf("expected %v, got %v", tt.wantIs, err)
			}
			var reported *reportedError
			if !errors.As(err, &reported) {
				t.Errorf("expected the error to be reported by the command, got %T", err)
			}

			output := stdout + stderr
			if !strings.Contains(output, tt.wantClass+":") {
				t.Errorf("expected %q in output, got:\n%s", tt.wantClass, output)
			}
			if !strings.Contains(output, "PROGRAM ENDED") {
				t.Errorf("expected the end banner after a failure, got:\n%s", output)
			}
		})
	}
}

func TestOutputReport(t *testing.T) {
	t.Parallel()

	newReport := func() *model.RunReport {
		r := model.NewRunReport(model.RunConfig{Region: "Asia", Year: "2020", Operation: model.OperationAverage})
		r.Result = 15
		r.Filtered = 3
		return r
	}

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "subdir", "nested", "report.md")
		cfg := &config.Config{MarkdownReport: true, ReportFile: path}

		var stdout strings.Builder
		if err := outputReport(&stdout, cfg, newReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(content), "# GDP Analytics Report") {
			t.Errorf("expected Markdown report, got:\n%s", content)
		}
	})

	t.Run("writes to stdout without a report file", func(t *testing.T) {
		t.Parallel()
		var stdout strings.Builder
		if err := outputReport(&stdout, &config.Config{}, newReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "Region    : Asia") {
			t.Errorf("expected console report, got:\n%s", stdout.String())
		}
		if strings.Contains(stdout.String(), "Computed Result") {
			t.Errorf("expected the result to be left to the progress output, got:\n%s", stdout.String())
		}
	})
}
