package visualizer

import (
	"fmt"
	"strconv"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/processor"
)

// UnknownContinent groups rows that have a value but no continent.
const UnknownContinent = "Unknown"

// ExtractLabelsAndValues returns one label and one value per row of view
// for year, using the heuristic country column. Missing values are 0.
func ExtractLabelsAndValues(view model.View, year string) ([]string, []float64, error) {
	return labelsAndValues(view, year, ColumnResolver{})
}

func labelsAndValues(view model.View, year string, resolver ColumnResolver) ([]string, []float64, error) {
	col, err := resolver.CountryColumn(view.Header())
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, view.Len())
	values := make([]float64, view.Len())
	for i := range view.Len() {
		row := view.Row(i)
		labels[i] = row.Get(col)
		v, _, err := model.CellValue(row, year)
		if err != nil {
			return nil, nil, fmt.Errorf("%s, year %s: %w", labels[i], year, err)
		}
		values[i] = v
	}
	return labels, values, nil
}

// CountryTrend returns row's values for every year from start to end
// inclusive. Missing years are 0. A start after end yields no points.
func CountryTrend(row model.Row, start, end int) ([]string, []float64, error) {
	if start > end {
		return []string{}, []float64{}, nil
	}
	years := make([]string, 0, end-start+1)
	values := make([]float64, 0, end-start+1)
	for y := start; y <= end; y++ {
		year := strconv.Itoa(y)
		v, _, err := model.CellValue(row, year)
		if err != nil {
			return nil, nil, fmt.Errorf("year %s: %w", year, err)
		}
		years = append(years, year)
		values = append(values, v)
	}
	return years, values, nil
}

// ContinentTotals sums year per continent over every row of ds, skipping
// missing values. Continents appear in first-seen order.
func ContinentTotals(ds *model.Dataset, year string) ([]model.ContinentTotal, error) {
	return continentTotals(ds.All(), year, processor.DefaultContinentColumn)
}

func continentTotals(view model.View, year, continentColumn string) ([]model.ContinentTotal, error) {
	var totals []model.ContinentTotal
	index := make(map[string]int)
	for i := range view.Len() {
		row := view.Row(i)
		v, ok, err := model.CellValue(row, year)
		if err != nil {
			return nil, fmt.Errorf("row %d, year %s: %w", i+1, year, err)
		}
		if !ok {
			continue
		}
		continent := row.Get(continentColumn)
		if continent == "" {
			continent = UnknownContinent
		}
		j, seen := index[continent]
		if !seen {
			j = len(totals)
			index[continent] = j
			totals = append(totals, model.ContinentTotal{Continent: continent})
		}
		totals[j].Total += v
		totals[j].Countries++
	}
	return totals, nil
}

func yearInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
