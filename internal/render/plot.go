package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/nao1215/gdpdash/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a series has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Default image size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// rotateAfter is the label count above which x tick labels are slanted.
const rotateAfter = 8

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 220, G: 90, B: 40, A: 255}
)

// Size is the output image size.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize is used when a zero Size is given.
func DefaultSize() Size {
	return Size{Width: DefaultWidth, Height: DefaultHeight}
}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize()
	}
	return s
}

// BarChart draws s as a vertical bar chart in PNG format.
func BarChart(w io.Writer, s model.Series, size Size) error {
	if s.Empty() {
		return ErrNoData
	}

	p := newPlot(s)
	bars, err := plotter.NewBarChart(plotter.Values(s.Values), vg.Points(barWidth(s.Len())))
	if err != nil {
		return fmt.Errorf("bar chart %q: %w", s.Title, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	nominalX(p, s.Labels)

	return writePNG(w, p, size)
}

// LineChart draws s as a line with point markers in PNG format.
func LineChart(w io.Writer, s model.Series, size Size) error {
	if s.Empty() {
		return ErrNoData
	}

	p := newPlot(s)
	pts := make(plotter.XYs, s.Len())
	for i, v := range s.Values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("line chart %q: %w", s.Title, err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = lineColor
	p.Add(plotter.NewGrid(), line, points)
	nominalX(p, s.Labels)

	return writePNG(w, p, size)
}

func newPlot(s model.Series) *plot.Plot {
	p := plot.New()
	p.Title.Text = s.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	return p
}

func nominalX(p *plot.Plot, labels []string) {
	p.NominalX(labels...)
	if len(labels) > rotateAfter {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
}

// barWidth narrows bars as their number grows.
func barWidth(n int) float64 {
	switch {
	case n > 60:
		return 4
	case n > 20:
		return 10
	default:
		return 20
	}
}

func writePNG(w io.Writer, p *plot.Plot, size Size) error {
	size = size.orDefault()
	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
