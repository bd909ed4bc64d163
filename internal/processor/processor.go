package processor

import (
	"fmt"

	"github.com/nao1215/gdpdash/internal/model"
	"gonum.org/v1/gonum/floats"
)

// DefaultContinentColumn is the column Filter matches the region against.
const DefaultContinentColumn = "Continent"

// Processor runs the filter and statistic stages.
type Processor struct {
	continentColumn string
}

// Option configures a Processor.
type Option func(*Processor)

// WithContinentColumn sets the column holding each row's continent.
// An empty name keeps the default.
func WithContinentColumn(column string) Option {
	return func(p *Processor) {
		if column != "" {
			p.continentColumn = column
		}
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{continentColumn: DefaultContinentColumn}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ContinentColumn returns the column used for region matching.
func (p *Processor) ContinentColumn() string {
	return p.continentColumn
}

// Filter keeps the rows whose continent equals region exactly, in dataset
// order. An empty region keeps every row.
func (p *Processor) Filter(ds *model.Dataset, region string) model.View {
	if region == "" {
		return ds.All()
	}
	var rows []model.Row
	for i := range ds.Len() {
		row := ds.Row(i)
		if v, ok := row.Value(p.continentColumn); ok && v == region {
			rows = append(rows, row)
		}
	}
	return model.NewView(ds.Header(), rows)
}

// Process filters ds by cfg.Region, extracts cfg.Year and applies
// cfg.Operation. It returns the statistic and the filtered rows.
func (p *Processor) Process(ds *model.Dataset, cfg model.RunConfig) (float64, model.View, error) {
	view := p.Filter(ds, cfg.Region)
	values, err := ExtractYearValues(view, cfg.Year)
	if err != nil {
		return 0, view, err
	}
	result, err := ComputeStatistic(values, cfg.Operation)
	if err != nil {
		return 0, view, err
	}
	return result, view, nil
}

// Filter is Processor.Filter with the default continent column.
func Filter(ds *model.Dataset, region string) model.View {
	return New().Filter(ds, region)
}

// Process is Processor.Process with the default continent column.
func Process(ds *model.Dataset, cfg model.RunConfig) (float64, model.View, error) {
	return New().Process(ds, cfg)
}

// ExtractYearValues parses the year column of every row in view.
// Rows where the column is absent, empty or blank are skipped; a present
// value that is not a number is an error wrapping model.ErrParse.
func ExtractYearValues(view model.View, year string) ([]float64, error) {
	values := make([]float64, 0, view.Len())
	for i := range view.Len() {
		v, ok, err := model.CellValue(view.Row(i), year)
		if err != nil {
			return nil, fmt.Errorf("row %d, year %s: %w", i+1, year, err)
		}
		if ok {
			values = append(values, v)
		}
	}
	return values, nil
}

// ComputeStatistic reduces values with op. Empty values yield 0 for any
// operation. Otherwise an unknown operation is an error wrapping
// model.ErrInvalidOperation.
//
// Design decision: Missing cells never reach this function; they are dropped
// while extracting values, so an average divides by the present cells only.
// The empty check runs before the operation is looked at, which makes a
// region with no data for the year report 0 instead of failing.
func ComputeStatistic(values []float64, op model.Operation) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	if !op.Valid() {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidOperation, op)
	}

	sum := floats.Sum(values)
	switch op {
	case model.OperationAverage:
		return sum / float64(len(values)), nil
	default:
		return sum, nil
	}
}
