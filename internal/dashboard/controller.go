package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/pipeline"
	"github.com/nao1215/gdpdash/internal/processor"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/visualizer"
)

// Tab identifies a dashboard page.
type Tab string

// Dashboard tabs.
const (
	TabSummary Tab = "summary"
	TabRegion  Tab = "region"
	TabYear    Tab = "year"
	TabReport  Tab = "report"
)

// Tabs returns the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabSummary, TabRegion, TabYear, TabReport}
}

// Mode selects how continent totals are drawn on the Year tab.
type Mode string

// Chart modes.
const (
	ModeBar Mode = "bar"
	ModePie Mode = "pie"
)

// Chart handle names.
const (
	ChartRegion     = "region"
	ChartYear       = "year"
	ChartTop        = "top"
	ChartContinents = "continents"
	ChartTrend      = "trend"
)

var (
	// ErrInvalidMode is returned for a chart mode other than bar or pie.
	ErrInvalidMode = errors.New("invalid chart mode")

	// ErrInvalidTab is returned for an unknown tab.
	ErrInvalidTab = errors.New("invalid tab")
)

// Chart is a handle to one drawable chart of the current view.
type Chart struct {
	Name   string       `json:"name"`
	Kind   render.Kind  `json:"kind"`
	Series model.Series `json:"series"`
}

// Choices are the values offered by the dashboard dropdowns.
type Choices struct {
	Countries []string `json:"countries"`
	Regions   []string `json:"regions"`
	Years     []string `json:"years"`
}

// State is a snapshot of the controller.
type State struct {
	Tab        Tab                    `json:"tab"`
	Region     string                 `json:"region"`
	Year       string                 `json:"year"`
	Country    string                 `json:"country"`
	Mode       Mode                   `json:"mode"`
	Operation  model.Operation        `json:"operation"`
	Records    int                    `json:"records"`
	Filtered   int                    `json:"filtered"`
	Result     float64                `json:"result"`
	Summary    model.Summary          `json:"summary"`
	Top        model.Series           `json:"top_countries"`
	Continents []model.ContinentTotal `json:"continents"`
	Trend      *model.Trend           `json:"trend,omitempty"`
	Charts     []string               `json:"charts"`
	Generation int                    `json:"generation"`
}

// selection is the part of the state an event changes.
type selection struct {
	tab     Tab
	region  string
	year    string
	country string
	mode    Mode
}

// Controller holds the dashboard state for one dataset.
//
// Design decision: One controller serves every client of the process. The
// derived views are recomputed synchronously inside the event that changed
// the selection, and a failed recomputation leaves the previous selection
// and charts in place.
type Controller struct {
	mu sync.Mutex

	ds        *model.Dataset
	operation model.Operation
	pipeline  *pipeline.Pipeline
	choices   Choices
	logger    *slog.Logger

	sel        selection
	report     *model.RunReport
	charts     map[string]Chart
	generation int
}

// ControllerOption configures a Controller.
type ControllerOption func(*controllerConfig)

type controllerConfig struct {
	processor  *processor.Processor
	shaper     *visualizer.Shaper
	logger     *slog.Logger
	trendStart int
	trendEnd   int
}

// WithProcessor sets the processor used to filter and aggregate.
func WithProcessor(p *processor.Processor) ControllerOption {
	return func(c *controllerConfig) {
		c.processor = p
	}
}

// WithShaper sets the shaper used to build chart series.
func WithShaper(s *visualizer.Shaper) ControllerOption {
	return func(c *controllerConfig) {
		c.shaper = s
	}
}

// WithControllerLogger sets the logger.
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *controllerConfig) {
		c.logger = logger
	}
}

// WithTrendRange bounds the country trend chart. Zero values use the first
// and last year of the dataset.
func WithTrendRange(start, end int) ControllerOption {
	return func(c *controllerConfig) {
		c.trendStart, c.trendEnd = start, end
	}
}

// NewController creates a controller for ds starting from cfg and draws the
// initial view. An empty cfg.Year selects the latest year of the dataset.
func NewController(ctx context.Context, ds *model.Dataset, cfg model.RunConfig, opts ...ControllerOption) (*Controller, error) {
	cc := &controllerConfig{}
	for _, opt := range opts {
		opt(cc)
	}
	if cc.processor == nil {
		cc.processor = processor.New()
	}
	if cc.shaper == nil {
		cc.shaper = visualizer.NewShaper(visualizer.WithContinentColumn(cc.processor.ContinentColumn()))
	}
	if cc.logger == nil {
		cc.logger = slog.Default()
	}

	op := cfg.Operation
	if op == "" {
		op = model.OperationSum
	}
	if !op.Valid() {
		return nil, fmt.Errorf("operation %q: %w", op, model.ErrInvalidOperation)
	}

	countries, err := cc.shaper.Countries(ds)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(pipeline.WithLogger(cc.logger))
	p.AddSteps(
		pipeline.NewProcessStep(cc.processor),
		pipeline.NewDescribeStep(),
		pipeline.NewShapeStep(cc.shaper, pipeline.WithTrendRange(cc.trendStart, cc.trendEnd)),
	)

	c := &Controller{
		ds:        ds,
		operation: op,
		pipeline:  p,
		choices: Choices{
			Countries: countries,
			Regions:   cc.shaper.Continents(ds),
			Years:     ds.Years(),
		},
		logger: cc.logger,
		sel: selection{
			tab:     TabSummary,
			region:  cfg.Region,
			year:    cfg.Year,
			country: cfg.Country,
			mode:    ModeBar,
		},
	}
	if c.sel.year == "" && len(c.choices.Years) > 0 {
		c.sel.year = c.choices.Years[len(c.choices.Years)-1]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.redraw(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Choices returns the dropdown values.
func (c *Controller) Choices() Choices {
	return Choices{
		Countries: slices.Clone(c.choices.Countries),
		Regions:   slices.Clone(c.choices.Regions),
		Years:     slices.Clone(c.choices.Years),
	}
}

// SelectTab switches the active tab. No recomputation is needed.
func (c *Controller) SelectTab(tab Tab) error {
	if !slices.Contains(Tabs(), tab) {
		return fmt.Errorf("%w: %q", ErrInvalidTab, tab)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.tab = tab
	return nil
}

// SelectCountry selects the country whose trend is charted. An empty
// country clears the trend.
func (c *Controller) SelectCountry(ctx context.Context, country string) error {
	if country != "" && !slices.Contains(c.choices.Countries, country) {
		return fmt.Errorf("country %q: %w", country, model.ErrNotFound)
	}
	return c.update(ctx, func(s *selection) { s.country = country })
}

// SelectRegion filters the view on a continent. An empty region selects
// every row.
func (c *Controller) SelectRegion(ctx context.Context, region string) error {
	if region != "" && !slices.Contains(c.choices.Regions, region) {
		return fmt.Errorf("region %q: %w", region, model.ErrNotFound)
	}
	return c.update(ctx, func(s *selection) { s.region = region })
}

// SelectYear selects the aggregated year column.
func (c *Controller) SelectYear(ctx context.Context, year string) error {
	if !slices.Contains(c.choices.Years, year) {
		return fmt.Errorf("year %q: %w", year, model.ErrNotFound)
	}
	return c.update(ctx, func(s *selection) { s.year = year })
}

// SetMode switches the continent chart between bar and pie.
func (c *Controller) SetMode(ctx context.Context, mode Mode) error {
	if mode != ModeBar && mode != ModePie {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return c.update(ctx, func(s *selection) { s.mode = mode })
}

// update applies change and redraws. The previous selection is restored
// when the redraw fails.
func (c *Controller) update(ctx context.Context, change func(*selection)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.sel
	change(&c.sel)
	if c.sel == prev {
		return nil
	}
	if err := c.redraw(ctx); err != nil {
		c.sel = prev
		c.logger.Warn("dashboard redraw failed", "error", err)
		return err
	}
	return nil
}

// redraw recomputes the report and replaces the chart handles.
// The caller holds c.mu.
func (c *Controller) redraw(ctx context.Context) error {
	report := model.NewRunReport(model.RunConfig{
		Region:    c.sel.region,
		Year:      c.sel.year,
		Operation: c.operation,
		Output:    model.OutputDashboard,
		Country:   c.sel.country,
	})
	pipeline.Attach(report, c.ds)
	if err := c.pipeline.Execute(ctx, report); err != nil {
		return err
	}

	continentKind := render.KindBar
	if c.sel.mode == ModePie {
		continentKind = render.KindPie
	}
	charts := map[string]Chart{
		ChartRegion:     {Name: ChartRegion, Kind: render.KindBar, Series: report.RegionSeries},
		ChartYear:       {Name: ChartYear, Kind: render.KindLine, Series: report.YearSeries},
		ChartTop:        {Name: ChartTop, Kind: render.KindBar, Series: report.TopCountries},
		ChartContinents: {Name: ChartContinents, Kind: continentKind, Series: visualizer.ContinentSeries(report.Continents, c.sel.year)},
	}
	if report.Trend != nil {
		charts[ChartTrend] = Chart{Name: ChartTrend, Kind: render.KindLine, Series: report.Trend.Series()}
	}

	c.report = report
	c.charts = charts
	c.generation++
	c.logger.Debug("dashboard redrawn",
		"region", c.sel.region,
		"year", c.sel.year,
		"country", c.sel.country,
		"mode", c.sel.mode,
		"generation", c.generation,
	)
	return nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.report
	return State{
		Tab:        c.sel.tab,
		Region:     c.sel.region,
		Year:       c.sel.year,
		Country:    c.sel.country,
		Mode:       c.sel.mode,
		Operation:  c.operation,
		Records:    r.Records,
		Filtered:   r.Filtered,
		Result:     r.Result,
		Summary:    r.Summary,
		Top:        r.TopCountries,
		Continents: slices.Clone(r.Continents),
		Trend:      r.Trend,
		Charts:     slices.Sorted(maps.Keys(c.charts)),
		Generation: c.generation,
	}
}

// Chart returns the named chart handle of the current view.
func (c *Controller) Chart(name string) (Chart, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chart, ok := c.charts[name]
	return chart, ok
}

// Report returns the run report behind the current view.
func (c *Controller) Report() *model.RunReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := *c.report
	return &r
}
