package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/gdpdash/internal/model"
	"gonum.org/v1/plot/vg"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func smallSize() Size {
	return Size{Width: 4 * vg.Inch, Height: 3 * vg.Inch}
}

func sampleSeries() model.Series {
	return model.Series{
		Title:  "Region-wise GDP (Asia - 2020)",
		XLabel: "Country",
		YLabel: "GDP",
		Labels: []string{"Japan", "India", "Nepal"},
		Values: []float64{10, 20, 0},
	}
}

func TestCharts_WritePNG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		draw func(*bytes.Buffer) error
	}{
		{name: "bar chart", draw: func(b *bytes.Buffer) error { return BarChart(b, sampleSeries(), smallSize()) }},
		{name: "line chart", draw: func(b *bytes.Buffer) error { return LineChart(b, sampleSeries(), smallSize()) }},
		{name: "pie chart", draw: func(b *bytes.Buffer) error { return PieChart(b, sampleSeries(), smallSize()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := tt.draw(&buf); err != nil {
				t.Fatalf("draw error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestCharts_NoData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := BarChart(&buf, model.Series{}, Size{}); !errors.Is(err, ErrNoData) {
		t.Errorf("BarChart err = %v, want ErrNoData", err)
	}
	if err := LineChart(&buf, model.Series{}, Size{}); !errors.Is(err, ErrNoData) {
		t.Errorf("LineChart err = %v, want ErrNoData", err)
	}
	zeros := model.Series{Labels: []string{"a"}, Values: []float64{0}}
	if err := PieChart(&buf, zeros, Size{}); !errors.Is(err, ErrNoData) {
		t.Errorf("PieChart err = %v, want ErrNoData", err)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"bar", "line", "pie"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) error = %v", s, err)
		}
	}
	if _, err := ParseKind("radar"); err == nil {
		t.Error("expected error for radar")
	}
}

func TestRenderer_RenderAll(t *testing.T) {
	t.Parallel()

	report := model.NewRunReport(model.RunConfig{Region: "Asia", Year: "2020", Operation: model.OperationSum})
	report.RegionSeries = sampleSeries()
	report.YearSeries = sampleSeries()
	report.Continents = []model.ContinentTotal{{Continent: "Asia", Total: 30, Countries: 2}}
	report.Trend = &model.Trend{Country: "Japan", Years: []string{"2019", "2020"}, Values: []float64{9, 10}}

	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := NewRenderer(WithSize(smallSize())).RenderAll(report, dir)
	if err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	// top countries is empty and skipped
	want := []string{"region_bar.png", "year_line.png", "continents_pie.png", "trend_line.png"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], name)
		}
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s is not a PNG", name)
		}
	}
}
