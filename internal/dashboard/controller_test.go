package dashboard

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/render"
)

func testDataset() *model.Dataset {
	return model.NewDataset(
		[]string{"Country Name", "Country Code", "Continent", "2019", "2020"},
		[][]string{
			{"Japan", "JPN", "Asia", "9", "10"},
			{"India", "IND", "Asia", "19", "20"},
			{"Nepal", "NPL", "Asia", "1", ""},
			{"France", "FRA", "Europe", "29", "30"},
			{"World", "WLD", "", "100", "110"},
		},
	)
}

func asiaAverage() model.RunConfig {
	return model.RunConfig{Region: "Asia", Year: "2020", Operation: model.OperationAverage}
}

func newTestController(t *testing.T, ds *model.Dataset, cfg model.RunConfig) *Controller {
	t.Helper()
	c, err := NewController(context.Background(), ds, cfg)
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	return c
}

func TestNewController(t *testing.T) {
	t.Parallel()

	t.Run("draws the initial view from the run config", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		st := c.State()

		if st.Result != 15 {
			t.Errorf("Result = %v, want 15", st.Result)
		}
		if st.Filtered != 3 {
			t.Errorf("Filtered = %d, want 3", st.Filtered)
		}
		if st.Records != 5 {
			t.Errorf("Records = %d, want 5", st.Records)
		}
		if st.Tab != TabSummary || st.Mode != ModeBar {
			t.Errorf("unexpected tab/mode %q/%q", st.Tab, st.Mode)
		}
		want := []string{ChartContinents, ChartRegion, ChartTop, ChartYear}
		if !slices.Equal(st.Charts, want) {
			t.Errorf("Charts = %v, want %v", st.Charts, want)
		}
		if st.Generation != 1 {
			t.Errorf("Generation = %d, want 1", st.Generation)
		}
	})

	t.Run("empty year selects the latest year", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), model.RunConfig{Operation: model.OperationSum})
		if got := c.State().Year; got != "2020" {
			t.Errorf("Year = %q, want 2020", got)
		}
	})

	t.Run("country in the run config draws a trend", func(t *testing.T) {
		t.Parallel()

		cfg := asiaAverage()
		cfg.Country = "Japan"
		c := newTestController(t, testDataset(), cfg)

		chart, ok := c.Chart(ChartTrend)
		if !ok {
			t.Fatal("expected trend chart")
		}
		if chart.Kind != render.KindLine {
			t.Errorf("Kind = %q, want line", chart.Kind)
		}
		if !slices.Equal(chart.Series.Values, []float64{9, 10}) {
			t.Errorf("trend values = %v", chart.Series.Values)
		}
	})

	t.Run("invalid operation is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewController(context.Background(), testDataset(), model.RunConfig{Year: "2020", Operation: "median"})
		if !errors.Is(err, model.ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("dataset without a country column is a schema error", func(t *testing.T) {
		t.Parallel()

		ds := model.NewDataset([]string{"Code", "Continent", "2020"}, [][]string{{"JPN", "Asia", "1"}})
		_, err := NewController(context.Background(), ds, model.RunConfig{Year: "2020", Operation: model.OperationSum})
		if !errors.Is(err, model.ErrSchema) {
			t.Errorf("error = %v, want ErrSchema", err)
		}
	})

	t.Run("choices exclude aggregates", func(t *testing.T) {
		t.Parallel()

		ch := newTestController(t, testDataset(), asiaAverage()).Choices()
		if slices.Contains(ch.Countries, "World") {
			t.Error("World should not be offered as a country")
		}
		if !slices.Equal(ch.Regions, []string{"Asia", "Europe"}) {
			t.Errorf("Regions = %v", ch.Regions)
		}
		if !slices.Equal(ch.Years, []string{"2019", "2020"}) {
			t.Errorf("Years = %v", ch.Years)
		}
	})
}

func TestController_Events(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("selecting a region recomputes the result", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		if err := c.SelectRegion(ctx, "Europe"); err != nil {
			t.Fatalf("SelectRegion() error = %v", err)
		}
		st := c.State()
		if st.Result != 30 || st.Filtered != 1 {
			t.Errorf("Europe: result %v filtered %d, want 30 and 1", st.Result, st.Filtered)
		}

		if err := c.SelectRegion(ctx, ""); err != nil {
			t.Fatalf("SelectRegion(\"\") error = %v", err)
		}
		st = c.State()
		if st.Filtered != 5 || st.Result != 42.5 {
			t.Errorf("all regions: result %v filtered %d, want 42.5 and 5", st.Result, st.Filtered)
		}
	})

	t.Run("selecting a year recomputes the result", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		if err := c.SelectYear(ctx, "2019"); err != nil {
			t.Fatalf("SelectYear() error = %v", err)
		}
		st := c.State()
		if st.Summary.Count != 3 {
			t.Errorf("Summary.Count = %d, want 3", st.Summary.Count)
		}
		if math.Abs(st.Result-29.0/3) > 1e-9 {
			t.Errorf("Result = %v, want %v", st.Result, 29.0/3)
		}
	})

	t.Run("mode switches the continent chart kind", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		if err := c.SetMode(ctx, ModePie); err != nil {
			t.Fatalf("SetMode() error = %v", err)
		}
		chart, _ := c.Chart(ChartContinents)
		if chart.Kind != render.KindPie {
			t.Errorf("Kind = %q, want pie", chart.Kind)
		}
		if !slices.Equal(chart.Series.Labels, []string{"Asia", "Europe"}) {
			t.Errorf("Labels = %v", chart.Series.Labels)
		}
	})

	t.Run("selecting a country adds and clearing removes the trend", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		if err := c.SelectCountry(ctx, "India"); err != nil {
			t.Fatalf("SelectCountry() error = %v", err)
		}
		if _, ok := c.Chart(ChartTrend); !ok {
			t.Error("expected trend chart")
		}
		if err := c.SelectCountry(ctx, ""); err != nil {
			t.Fatalf("SelectCountry(\"\") error = %v", err)
		}
		if _, ok := c.Chart(ChartTrend); ok {
			t.Error("expected trend chart to be removed")
		}
	})

	t.Run("each redraw replaces the chart handles", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		before, _ := c.Chart(ChartRegion)
		if err := c.SelectRegion(ctx, "Europe"); err != nil {
			t.Fatalf("SelectRegion() error = %v", err)
		}
		after, _ := c.Chart(ChartRegion)
		if slices.Equal(before.Series.Labels, after.Series.Labels) {
			t.Error("expected region chart to change")
		}
		if c.State().Generation != 2 {
			t.Errorf("Generation = %d, want 2", c.State().Generation)
		}
	})

	t.Run("repeating the current selection does not redraw", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		if err := c.SelectRegion(ctx, "Asia"); err != nil {
			t.Fatalf("SelectRegion() error = %v", err)
		}
		if c.State().Generation != 1 {
			t.Errorf("Generation = %d, want 1", c.State().Generation)
		}
	})

	t.Run("invalid selections are rejected and leave state unchanged", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			event   func(*Controller) error
			wantErr error
		}{
			{"unknown country", func(c *Controller) error { return c.SelectCountry(ctx, "Atlantis") }, model.ErrNotFound},
			{"aggregate as country", func(c *Controller) error { return c.SelectCountry(ctx, "World") }, model.ErrNotFound},
			{"unknown region", func(c *Controller) error { return c.SelectRegion(ctx, "asia") }, model.ErrNotFound},
			{"unknown year", func(c *Controller) error { return c.SelectYear(ctx, "1999") }, model.ErrNotFound},
			{"unknown mode", func(c *Controller) error { return c.SetMode(ctx, "donut") }, ErrInvalidMode},
			{"unknown tab", func(c *Controller) error { return c.SelectTab("settings") }, ErrInvalidTab},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				c := newTestController(t, testDataset(), asiaAverage())
				before := c.State()
				if err := tt.event(c); !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				after := c.State()
				if after.Region != before.Region || after.Year != before.Year ||
					after.Country != before.Country || after.Mode != before.Mode ||
					after.Tab != before.Tab || after.Generation != before.Generation {
					t.Errorf("state changed: before %+v after %+v", before, after)
				}
			})
		}
	})

	t.Run("failed redraw restores the previous selection", func(t *testing.T) {
		t.Parallel()

		ds := model.NewDataset(
			[]string{"Country Name", "Continent", "2019", "2020"},
			[][]string{
				{"Japan", "Asia", "n/a", "10"},
				{"India", "Asia", "19", "20"},
			},
		)
		c := newTestController(t, ds, model.RunConfig{Year: "2020", Operation: model.OperationSum})

		if err := c.SelectYear(ctx, "2019"); !errors.Is(err, model.ErrParse) {
			t.Fatalf("error = %v, want ErrParse", err)
		}
		st := c.State()
		if st.Year != "2020" || st.Result != 30 {
			t.Errorf("expected previous view, got year %q result %v", st.Year, st.Result)
		}
	})

	t.Run("report reflects the current selection", func(t *testing.T) {
		t.Parallel()

		c := newTestController(t, testDataset(), asiaAverage())
		if err := c.SelectRegion(ctx, "Europe"); err != nil {
			t.Fatalf("SelectRegion() error = %v", err)
		}
		r := c.Report()
		if r.Config.Region != "Europe" || r.Result != 30 {
			t.Errorf("report config %+v result %v", r.Config, r.Result)
		}
		if r.View.Len() != 1 {
			t.Errorf("report view has %d rows, want 1", r.View.Len())
		}
	})
}

func TestController_ConcurrentEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestController(t, testDataset(), asiaAverage())

	regions := []string{"", "Asia", "Europe"}
	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.SelectRegion(ctx, regions[i%len(regions)])
			_ = c.State()
			_, _ = c.Chart(ChartRegion)
		}()
	}
	wg.Wait()

	st := c.State()
	chart, _ := c.Chart(ChartRegion)
	if chart.Series.Len() != st.Filtered {
		t.Errorf("region chart has %d points but %d rows are filtered", chart.Series.Len(), st.Filtered)
	}
}
