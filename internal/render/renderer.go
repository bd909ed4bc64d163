package render

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/visualizer"
)

// Kind selects how a series is drawn.
type Kind string

// Chart kinds.
const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBar, KindLine, KindPie:
		return k, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q", s)
	}
}

// Draw renders s as kind.
func Draw(kind Kind, s model.Series, size Size) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch kind {
	case KindBar:
		err = BarChart(&buf, s, size)
	case KindLine:
		err = LineChart(&buf, s, size)
	case KindPie:
		err = PieChart(&buf, s, size)
	default:
		err = fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Renderer writes the charts of a run report to files.
type Renderer struct {
	size   Size
	logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size.
func WithSize(size Size) Option {
	return func(r *Renderer) {
		r.size = size
	}
}

// WithLogger sets the logger used to report skipped charts.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{size: DefaultSize()}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// chartFile pairs a series with the file it is drawn to.
type chartFile struct {
	name   string
	kind   Kind
	series model.Series
}

// RenderAll draws the region bar, year line, top-N bar, continent pie and,
// when present, the country trend of report into dir. Charts without data
// are skipped. It returns the written paths in that order.
func (r *Renderer) RenderAll(report *model.RunReport, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	year := report.Config.Year
	files := []chartFile{
		{name: "region_bar.png", kind: KindBar, series: report.RegionSeries},
		{name: "year_line.png", kind: KindLine, series: report.YearSeries},
		{name: "top_countries_bar.png", kind: KindBar, series: report.TopCountries},
		{name: "continents_pie.png", kind: KindPie, series: visualizer.ContinentSeries(report.Continents, year)},
	}
	if report.Trend != nil {
		files = append(files, chartFile{name: "trend_line.png", kind: KindLine, series: report.Trend.Series()})
	}

	var written []string
	for _, f := range files {
		data, err := Draw(f.kind, f.series, r.size)
		if errors.Is(err, ErrNoData) {
			r.logger.Debug("chart skipped", "chart", f.name, "reason", err)
			continue
		}
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, data, 0600); err != nil {
			return written, fmt.Errorf("failed to write chart %s: %w", path, err)
		}
		r.logger.Debug("chart written", "path", path)
		written = append(written, path)
	}
	return written, nil
}
