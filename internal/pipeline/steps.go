package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/gdpdash/internal/loader"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/processor"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/visualizer"
)

// LoadFunc reads a dataset from path.
type LoadFunc func(path string) (*model.Dataset, error)

// LoadStep reads the dataset into the report.
type LoadStep struct {
	path string
	load LoadFunc
}

// NewLoadStep creates a step loading path with loader.Load.
func NewLoadStep(path string) *LoadStep {
	return &LoadStep{path: path, load: loader.Load}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads the dataset and records its size and checksum.
func (s *LoadStep) Do(_ context.Context, report *model.RunReport) error {
	ds, err := s.load(s.path)
	if err != nil {
		return err
	}
	Attach(report, ds)
	return nil
}

// Attach sets ds as the dataset of report. Used by LoadStep and by callers
// that share one loaded dataset across many reports.
func Attach(report *model.RunReport, ds *model.Dataset) {
	report.Dataset = ds
	report.DataPath = ds.Source
	report.Checksum = ds.Checksum
	report.Records = ds.Len()
}

// errNoDataset is returned by steps that run before a dataset is attached.
var errNoDataset = errors.New("no dataset loaded")

// ProcessStep filters the dataset and computes the statistic.
type ProcessStep struct {
	processor *processor.Processor
}

// NewProcessStep creates the filter and statistic step.
func NewProcessStep(p *processor.Processor) *ProcessStep {
	if p == nil {
		p = processor.New()
	}
	return &ProcessStep{processor: p}
}

// Name returns the step name.
func (s *ProcessStep) Name() string {
	return "process"
}

// Do runs Process and stores the result and the filtered view. The
// filtered count is recorded even when the statistic fails.
func (s *ProcessStep) Do(_ context.Context, report *model.RunReport) error {
	if report.Dataset == nil {
		return errNoDataset
	}
	result, view, err := s.processor.Process(report.Dataset, report.Config)
	report.View = view
	report.Filtered = view.Len()
	if err != nil {
		return err
	}
	report.Result = result
	return nil
}

// DescribeStep summarizes the values behind the result.
type DescribeStep struct{}

// NewDescribeStep creates the summary step.
func NewDescribeStep() *DescribeStep {
	return &DescribeStep{}
}

// Name returns the step name.
func (s *DescribeStep) Name() string {
	return "describe"
}

// Do fills report.Summary from the filtered view.
func (s *DescribeStep) Do(_ context.Context, report *model.RunReport) error {
	values, err := processor.ExtractYearValues(report.View, report.Config.Year)
	if err != nil {
		return err
	}
	summary, err := processor.Describe(values)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}
	report.Summary = summary
	return nil
}

// ShapeStep builds the chart series of the report. The series read every
// row of the dataset, so the step only runs when the charts are wanted.
type ShapeStep struct {
	shaper     *visualizer.Shaper
	trendStart int
	trendEnd   int
}

// ShapeStepOption configures a ShapeStep.
type ShapeStepOption func(*ShapeStep)

// WithTrendRange bounds the country trend. Zero values use the first and
// last year of the dataset.
func WithTrendRange(start, end int) ShapeStepOption {
	return func(s *ShapeStep) {
		s.trendStart, s.trendEnd = start, end
	}
}

// NewShapeStep creates the shaping step.
func NewShapeStep(shaper *visualizer.Shaper, opts ...ShapeStepOption) *ShapeStep {
	if shaper == nil {
		shaper = visualizer.NewShaper()
	}
	s := &ShapeStep{shaper: shaper}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ShapeStep) Name() string {
	return "shape"
}

// Skip reports whether the run did not request charts.
func (s *ShapeStep) Skip(report *model.RunReport) bool {
	return !report.Config.WantsDashboard()
}

// Do fills the region, year, top-N, continent and trend series.
func (s *ShapeStep) Do(_ context.Context, report *model.RunReport) error {
	if report.Dataset == nil {
		return errNoDataset
	}
	cfg := report.Config

	var err error
	if report.RegionSeries, err = s.shaper.RegionSeries(report.View, cfg.Region, cfg.Year); err != nil {
		return err
	}
	if report.YearSeries, err = s.shaper.YearSeries(report.View, cfg.Year); err != nil {
		return err
	}
	if report.TopCountries, err = s.shaper.TopCountries(report.Dataset, cfg.Year); err != nil {
		return err
	}
	if report.Continents, err = s.shaper.ContinentTotals(report.Dataset, cfg.Year); err != nil {
		return err
	}

	if cfg.Country == "" {
		return nil
	}
	start, end := s.trendStart, s.trendEnd
	if first, last, ok := visualizer.YearRange(report.Dataset); ok {
		if start == 0 {
			start = first
		}
		if end == 0 {
			end = last
		}
	}
	trend, err := s.shaper.Trend(report.Dataset, cfg.Country, start, end)
	if err != nil {
		return err
	}
	report.Trend = trend
	return nil
}

// RenderStep writes chart images when the run asks for the dashboard output.
type RenderStep struct {
	renderer *render.Renderer
	dir      string
}

// NewRenderStep creates the rendering step writing into dir.
func NewRenderStep(r *render.Renderer, dir string) *RenderStep {
	if r == nil {
		r = render.NewRenderer()
	}
	return &RenderStep{renderer: r, dir: dir}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Skip reports whether the run did not request charts.
func (s *RenderStep) Skip(report *model.RunReport) bool {
	return !report.Config.WantsDashboard()
}

// Do renders every chart of the report.
func (s *RenderStep) Do(_ context.Context, report *model.RunReport) error {
	paths, err := s.renderer.RenderAll(report, s.dir)
	report.ChartFiles = append(report.ChartFiles, paths...)
	return err
}

// RunStore persists run reports.
type RunStore interface {
	SaveRun(ctx context.Context, report *model.RunReport) error
}

// SaveStep records the run in a RunStore.
type SaveStep struct {
	store RunStore
}

// NewSaveStep creates the history step.
func NewSaveStep(store RunStore) *SaveStep {
	return &SaveStep{store: store}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Skip reports whether no store is configured.
func (s *SaveStep) Skip(_ *model.RunReport) bool {
	return s.store == nil
}

// Do saves the report.
func (s *SaveStep) Do(ctx context.Context, report *model.RunReport) error {
	return s.store.SaveRun(ctx, report)
}
