package render

import (
	"fmt"
	"io"

	"github.com/nao1215/gdpdash/internal/model"
	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot/vg"
)

// pixelsPerInch converts Size to go-chart pixel dimensions.
const pixelsPerInch = 96

// PieChart draws s as a pie chart in PNG format. Slices with a value of
// zero or less cannot be drawn and are left out; a series with no
// positive value is ErrNoData.
func PieChart(w io.Writer, s model.Series, size Size) error {
	values := make([]chart.Value, 0, s.Len())
	for i, v := range s.Values {
		if v <= 0 || i >= len(s.Labels) {
			continue
		}
		values = append(values, chart.Value{Value: v, Label: s.Labels[i]})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	size = size.orDefault()
	side := int(float64(min(size.Width, size.Height)/vg.Inch) * pixelsPerInch)
	pie := chart.PieChart{
		Title:  s.Title,
		Width:  side,
		Height: side,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("pie chart %q: %w", s.Title, err)
	}
	return nil
}
