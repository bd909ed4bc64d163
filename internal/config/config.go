package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/gdpdash/internal/model"
)

// Default configuration values.
// The file locations match the layout the dashboard has always used: a
// config directory and a data directory next to the working directory.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "gdpdash"

	// DefaultRunConfigPath is where the run configuration is read from.
	DefaultRunConfigPath = "config/config.json"

	// DefaultDataPath is the GDP dataset shipped with the dashboard.
	DefaultDataPath = "data/gdp_with_continent_filled.csv"

	// DefaultChartDir is the directory charts are written to, relative to
	// the working directory.
	DefaultChartDir = "charts"

	// DefaultConcurrency bounds the number of years a sweep computes at once.
	// The work is CPU bound, so a small number keeps the machine responsive.
	DefaultConcurrency = 4

	// DefaultServeAddr is the address the dashboard listens on.
	// Loopback only; exposing the dashboard is an explicit choice.
	DefaultServeAddr = "127.0.0.1:8050"

	// DefaultHistoryLimit is the number of runs the history command lists.
	DefaultHistoryLimit = 20

	// HistoryDBFile is the SQLite file name inside DBDir.
	HistoryDBFile = "history.db"
)

// Config holds the resolved options of one gdpdash invocation.
// It is populated from CLI flags, the environment and the configuration
// files, then passed to the commands explicitly rather than kept in global
// state.
type Config struct {
	// RunConfigPath is the JSON run configuration file.
	RunConfigPath string

	// DataPath is the dataset file (CSV, or XLSX by extension).
	DataPath string

	// SettingsPath is the YAML settings file. Empty means search for
	// .gdpdash.yaml (see FindSettingsFile).
	SettingsPath string

	// Settings holds the loaded settings file. Never nil after NewConfig.
	Settings *File

	// Run is the run configuration after command line overrides.
	Run model.RunConfig

	// Verbose enables debug logging.
	Verbose bool

	// JSONReport selects the JSON report instead of the console summary.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout. A path
	// ending in .xlsx produces an Excel workbook.
	ReportFile string

	// ChartDir is where charts are written when the run output is "dashboard".
	ChartDir string

	// DBDir is the directory holding the run history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records the run in the history database.
	SaveToDB bool

	// Concurrency bounds parallel work in sweeps.
	Concurrency int
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero paths. This also serves
// as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		RunConfigPath: DefaultRunConfigPath,
		DataPath:      DefaultDataPath,
		Settings:      &File{},
		ChartDir:      DefaultChartDir,
		DBDir:         XDGDataDir(),
		SaveToDB:      true,
		Concurrency:   DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for gdpdash.
// On Linux: ~/.local/share/gdpdash
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for gdpdash.
// On Linux: ~/.config/gdpdash
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// HistoryDBPath returns the path of the history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DBDir, HistoryDBFile)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// Design decision: We validate once after flags, environment and files are
// merged so that errors surface before the dataset is read.
func (c *Config) Validate() error {
	if c.RunConfigPath == "" {
		return ErrNoRunConfig
	}
	if c.DataPath == "" {
		return ErrNoDataPath
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Settings != nil {
		if err := c.Settings.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRun checks the run configuration. It is separate from Validate
// because commands such as serve and history need no run configuration.
// The operation is left to the processor, which accepts any operation for a
// region without values.
func (c *Config) ValidateRun() error {
	if c.Run.Year == "" {
		return ErrNoYear
	}
	return nil
}
