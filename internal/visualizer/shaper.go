package visualizer

import (
	"fmt"
	"slices"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/processor"
)

// DefaultTopN is the number of countries in a top-N series.
const DefaultTopN = 10

// Shaper builds the chart series of a run from a dataset and its filtered
// view. It bundles the column, aggregate and ranking choices so the CLI and
// the dashboard shape data identically.
type Shaper struct {
	resolver        ColumnResolver
	aggregates      *AggregateFilter
	continentColumn string
	topN            int
}

// ShaperOption configures a Shaper.
type ShaperOption func(*Shaper)

// WithColumnResolver sets how the country column is chosen.
func WithColumnResolver(r ColumnResolver) ShaperOption {
	return func(s *Shaper) {
		s.resolver = r
	}
}

// WithAggregateFilter replaces the aggregate block-list.
func WithAggregateFilter(f *AggregateFilter) ShaperOption {
	return func(s *Shaper) {
		if f != nil {
			s.aggregates = f
		}
	}
}

// WithContinentColumn sets the continent column used for totals.
func WithContinentColumn(column string) ShaperOption {
	return func(s *Shaper) {
		if column != "" {
			s.continentColumn = column
		}
	}
}

// WithTopN sets the size of top-N series.
func WithTopN(n int) ShaperOption {
	return func(s *Shaper) {
		if n > 0 {
			s.topN = n
		}
	}
}

// NewShaper creates a Shaper. The aggregate filter defaults to
// DefaultAggregateLabels resolved with the Shaper's column resolver. A filter
// passed with WithAggregateFilter is copied, so the caller's value keeps its
// own resolver and block-list.
func NewShaper(opts ...ShaperOption) *Shaper {
	s := &Shaper{
		continentColumn: processor.DefaultContinentColumn,
		topN:            DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.aggregates == nil {
		s.aggregates = NewAggregateFilter(s.resolver, DefaultAggregateLabels...)
	} else {
		s.aggregates = s.aggregates.withResolver(s.resolver)
	}
	return s
}

// TopNSize returns the configured top-N size.
func (s *Shaper) TopNSize() int {
	return s.topN
}

// RegionSeries is the per-country bar series of view for year.
func (s *Shaper) RegionSeries(view model.View, region, year string) (model.Series, error) {
	labels, values, err := labelsAndValues(view, year, s.resolver)
	if err != nil {
		return model.Series{}, err
	}
	if region == "" {
		region = "All"
	}
	return model.Series{
		Title:  fmt.Sprintf("Region-wise GDP (%s - %s)", region, year),
		XLabel: "Country",
		YLabel: "GDP",
		Labels: labels,
		Values: values,
	}, nil
}

// YearSeries is the line series of view for year.
func (s *Shaper) YearSeries(view model.View, year string) (model.Series, error) {
	labels, values, err := labelsAndValues(view, year, s.resolver)
	if err != nil {
		return model.Series{}, err
	}
	return model.Series{
		Title:  fmt.Sprintf("Year-specific GDP (%s)", year),
		XLabel: "Country",
		YLabel: "GDP",
		Labels: labels,
		Values: values,
	}, nil
}

// TopCountries ranks the countries of ds for year, aggregates excluded.
func (s *Shaper) TopCountries(ds *model.Dataset, year string) (model.Series, error) {
	view, err := s.aggregates.Exclude(ds.All())
	if err != nil {
		return model.Series{}, err
	}
	labels, values, err := labelsAndValues(view, year, s.resolver)
	if err != nil {
		return model.Series{}, err
	}
	labels, values = TopN(labels, values, s.topN, true)
	return model.Series{
		Title:  fmt.Sprintf("Top %d economies (%s)", s.topN, year),
		XLabel: "Country",
		YLabel: "GDP",
		Labels: labels,
		Values: values,
	}, nil
}

// ContinentTotals sums year per continent, aggregates excluded.
func (s *Shaper) ContinentTotals(ds *model.Dataset, year string) ([]model.ContinentTotal, error) {
	view, err := s.aggregates.Exclude(ds.All())
	if err != nil {
		return nil, err
	}
	return continentTotals(view, year, s.continentColumn)
}

// ContinentSeries converts totals into a series for bar or pie charts.
func ContinentSeries(totals []model.ContinentTotal, year string) model.Series {
	series := model.Series{
		Title:  fmt.Sprintf("GDP by continent (%s)", year),
		XLabel: "Continent",
		YLabel: "GDP",
		Labels: make([]string, len(totals)),
		Values: make([]float64, len(totals)),
	}
	for i, t := range totals {
		series.Labels[i] = t.Continent
		series.Values[i] = t.Total
	}
	return series
}

// Countries lists the country labels of ds, aggregates excluded, sorted.
func (s *Shaper) Countries(ds *model.Dataset) ([]string, error) {
	view, err := s.aggregates.Exclude(ds.All())
	if err != nil {
		return nil, err
	}
	col, err := s.resolver.CountryColumn(view.Header())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, view.Len())
	for i := range view.Len() {
		if name := view.Row(i).Get(col); name != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Continents lists the distinct non-empty continents of ds in first-seen order.
func (s *Shaper) Continents(ds *model.Dataset) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range ds.Len() {
		c := ds.Row(i).Get(s.continentColumn)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// FindCountry returns the first row of ds labelled country.
func (s *Shaper) FindCountry(ds *model.Dataset, country string) (model.Row, error) {
	col, err := s.resolver.CountryColumn(ds.Header())
	if err != nil {
		return model.Row{}, err
	}
	for i := range ds.Len() {
		if row := ds.Row(i); row.Get(col) == country {
			return row, nil
		}
	}
	return model.Row{}, fmt.Errorf("country %q: %w", country, model.ErrNotFound)
}

// Trend returns the values of country from start to end.
func (s *Shaper) Trend(ds *model.Dataset, country string, start, end int) (*model.Trend, error) {
	row, err := s.FindCountry(ds, country)
	if err != nil {
		return nil, err
	}
	years, values, err := CountryTrend(row, start, end)
	if err != nil {
		return nil, fmt.Errorf("country %q: %w", country, err)
	}
	return &model.Trend{Country: country, Years: years, Values: values}, nil
}

// YearRange returns the first and last year columns of ds.
// ok is false when the dataset has no year columns.
func YearRange(ds *model.Dataset) (first, last int, ok bool) {
	years := ds.Years()
	if len(years) == 0 {
		return 0, 0, false
	}
	first, last = yearInt(years[0]), yearInt(years[0])
	for _, y := range years[1:] {
		v := yearInt(y)
		first = min(first, v)
		last = max(last, v)
	}
	return first, last, true
}
