package processor

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/nao1215/gdpdash/internal/model"
	"gonum.org/v1/gonum/stat"
)

// Describe summarizes values. Empty input returns a zero Summary.
func Describe(values []float64) (model.Summary, error) {
	if len(values) == 0 {
		return model.Summary{}, nil
	}

	data := stats.Float64Data(values)
	s := model.Summary{Count: len(values)}

	var err error
	if s.Sum, err = data.Sum(); err != nil {
		return model.Summary{}, fmt.Errorf("sum: %w", err)
	}
	if s.Mean, err = data.Mean(); err != nil {
		return model.Summary{}, fmt.Errorf("mean: %w", err)
	}
	if s.Median, err = data.Median(); err != nil {
		return model.Summary{}, fmt.Errorf("median: %w", err)
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return model.Summary{}, fmt.Errorf("standard deviation: %w", err)
	}
	if s.Min, err = data.Min(); err != nil {
		return model.Summary{}, fmt.Errorf("min: %w", err)
	}
	if s.Max, err = data.Max(); err != nil {
		return model.Summary{}, fmt.Errorf("max: %w", err)
	}

	// stats.Percentile rejects small samples, so quartiles use the
	// empirical quantile of the sorted values.
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.P25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	s.P75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return s, nil
}
