package model

// Series is a labelled sequence of values ready for a bar or line chart.
type Series struct {
	Title  string    `json:"title"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Values)
}

// Empty reports whether the series has no points.
func (s Series) Empty() bool {
	return len(s.Values) == 0
}

// ContinentTotal is the sum of one year's values for a continent.
type ContinentTotal struct {
	Continent string  `json:"continent"`
	Total     float64 `json:"total"`
	// Countries is the number of rows that contributed a value.
	Countries int `json:"countries"`
}

// Trend is one country's values over a range of years.
type Trend struct {
	Country string    `json:"country"`
	Years   []string  `json:"years"`
	Values  []float64 `json:"values"`
}

// Series converts the trend into a line chart series.
func (t Trend) Series() Series {
	return Series{
		Title:  "GDP trend: " + t.Country,
		XLabel: "Year",
		YLabel: "GDP",
		Labels: t.Years,
		Values: t.Values,
	}
}

// Summary describes the distribution of the values behind a result.
type Summary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}
