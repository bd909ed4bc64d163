package model

import (
	"time"

	"github.com/google/uuid"
)

// RunReport accumulates the result of one pipeline run: the configuration,
// the computed statistic, the chart-ready series and bookkeeping.
//
// Design decision: Like a scan report, every pipeline step reads and fills
// the same struct. The loaded Dataset and the filtered View travel with it
// but are excluded from JSON so reports and history rows stay small.
type RunReport struct {
	// ID uniquely identifies the run in the history database.
	ID string `json:"id"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step completed.
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Config is the run configuration.
	Config RunConfig `json:"config"`

	// DataPath is the dataset file.
	DataPath string `json:"data_path"`

	// Checksum is the dataset digest, used to tell runs over changed data apart.
	Checksum string `json:"checksum,omitempty"`

	// Records is the number of rows loaded.
	Records int `json:"records"`

	// Result is the computed statistic.
	Result float64 `json:"result"`

	// Filtered is the number of rows matching the region.
	Filtered int `json:"filtered"`

	// Summary describes the values the result was computed from.
	Summary Summary `json:"summary"`

	// RegionSeries is the per-country value for the region and year.
	RegionSeries Series `json:"region_series"`

	// YearSeries is the same per-country values drawn as a line.
	YearSeries Series `json:"year_series"`

	// TopCountries is the highest valued countries for the year,
	// aggregates excluded.
	TopCountries Series `json:"top_countries"`

	// Continents holds per-continent totals for the year.
	Continents []ContinentTotal `json:"continents,omitempty"`

	// Trend is set when Config.Country names a country.
	Trend *Trend `json:"trend,omitempty"`

	// ChartFiles lists rendered chart images.
	ChartFiles []string `json:"chart_files,omitempty"`

	// Steps lists the pipeline steps that ran, in order.
	Steps []string `json:"steps,omitempty"`

	// Error is the message of the error that stopped the run.
	Error string `json:"error,omitempty"`

	// Dataset is the loaded data.
	Dataset *Dataset `json:"-"`

	// View is the region-filtered view of Dataset.
	View View `json:"-"`
}

// NewRunReport creates a report for cfg with a fresh ID.
func NewRunReport(cfg RunConfig) *RunReport {
	return &RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Config:    cfg,
	}
}

// Failed reports whether the run recorded an error.
func (r *RunReport) Failed() bool {
	return r.Error != ""
}

// Duration returns how long the run took, zero while it is unfinished.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
