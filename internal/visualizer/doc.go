// Package visualizer shapes GDP views into chart-ready series.
//
// It decides which column labels a row (ColumnResolver), which rows are
// regional or income aggregates rather than countries (AggregateFilter),
// and turns rows into labels and values for bar, line and pie charts.
// Drawing the charts is left to package render.
//
// Per-row chart shaping (ExtractLabelsAndValues, CountryTrend) draws a
// missing value as 0 so bars and lines stay continuous. ContinentTotals
// skips missing values like the processor does.
package visualizer
