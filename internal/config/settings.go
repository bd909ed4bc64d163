package config

// Columns overrides the column names used for shaping.
type Columns struct {
	// Country is the column labelling each row. Empty selects the first
	// column whose name contains "Country" but not "Code".
	Country string `yaml:"country,omitempty"`

	// Continent is the column regions are matched against.
	// Empty means "Continent".
	Continent string `yaml:"continent,omitempty"`
}

// Aggregates tunes the block-list of rows that are not countries.
type Aggregates struct {
	// Replace discards the built-in block-list in favour of Labels.
	Replace bool `yaml:"replace,omitempty"`

	// Labels are extra (or, with Replace, the only) blocked row labels.
	Labels []string `yaml:"labels,omitempty"`
}

// TrendRange bounds country trend charts. Zero values fall back to the
// first and last year columns of the dataset.
type TrendRange struct {
	Start int `yaml:"start,omitempty"`
	End   int `yaml:"end,omitempty"`
}

// Dashboard holds defaults for the serve command.
type Dashboard struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`

	// Token, when set, is required as a bearer token or ?token= parameter.
	Token string `yaml:"token,omitempty"`
}

// File represents the structure of the .gdpdash.yaml settings file.
type File struct {
	Columns    Columns    `yaml:"columns,omitempty"`
	Aggregates Aggregates `yaml:"aggregates,omitempty"`

	// TopN is the number of countries in top-N charts. Zero means 10.
	TopN int `yaml:"topN,omitempty"`

	Trend TrendRange `yaml:"trend,omitempty"`

	// ChartDir overrides the chart output directory.
	ChartDir string `yaml:"chartDir,omitempty"`

	Dashboard Dashboard `yaml:"dashboard,omitempty"`
}

// Validate checks the settings.
func (f *File) Validate() error {
	if f.TopN < 0 {
		return ErrInvalidTopN
	}
	if f.Trend.Start != 0 && f.Trend.End != 0 && f.Trend.End < f.Trend.Start {
		return ErrInvalidTrendRange
	}
	return nil
}

// TrendBounds resolves the trend range against the dataset's first and
// last year.
func (f *File) TrendBounds(first, last int) (int, int) {
	start, end := first, last
	if f.Trend.Start != 0 {
		start = f.Trend.Start
	}
	if f.Trend.End != 0 {
		end = f.Trend.End
	}
	return start, end
}
