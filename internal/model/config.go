package model

// OutputDashboard is the RunConfig.Output value that requests charts.
const OutputDashboard = "dashboard"

// RunConfig selects what a run computes. It is loaded once per run from the
// JSON configuration file.
type RunConfig struct {
	// Region is the continent to filter on. Empty selects every row.
	Region string `json:"region,omitempty"`

	// Year is the year column to aggregate, stringified ("2020").
	Year string `json:"year"`

	// Operation is the statistic to compute.
	Operation Operation `json:"operation"`

	// Output selects extra output; "dashboard" renders charts.
	Output string `json:"output,omitempty"`

	// Country selects the country whose trend is charted. Optional.
	Country string `json:"country,omitempty"`
}

// WantsDashboard reports whether charts should be rendered.
func (c RunConfig) WantsDashboard() bool {
	return c.Output == OutputDashboard
}

// RegionLabel returns the region for display, "All" when unset.
func (c RunConfig) RegionLabel() string {
	if c.Region == "" {
		return "All"
	}
	return c.Region
}
