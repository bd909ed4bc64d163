package config

import (
	"errors"
	"fmt"

	"github.com/nao1215/gdpdash/internal/model"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoRunConfig is returned when no run configuration path is set.
	ErrNoRunConfig = errors.New("no run configuration: use --config or GDPDASH_CONFIG")

	// ErrNoDataPath is returned when no dataset path is set.
	ErrNoDataPath = errors.New("no data file: use --data or GDPDASH_DATA")

	// ErrNoYear is returned when the run configuration names no year.
	ErrNoYear = errors.New("no year: set \"year\" in the run configuration or use --year")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidConcurrency is returned when the sweep concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTopN is returned when the top-N size is negative.
	ErrInvalidTopN = errors.New("invalid top-N size: must be non-negative")

	// ErrInvalidTrendRange is returned when the trend range ends before it starts.
	ErrInvalidTrendRange = errors.New("invalid trend range: end is before start")
)

// Run configuration file errors. They wrap the model error taxonomy so the
// CLI can classify them: a missing file is model.ErrNotFound, a malformed
// one model.ErrParse.
var (
	// ErrRunConfigNotFound is returned when the run configuration file does not exist.
	ErrRunConfigNotFound = fmt.Errorf("run configuration file %w", model.ErrNotFound)

	// ErrInvalidRunConfig is returned when the run configuration is not a
	// JSON object of the expected shape.
	ErrInvalidRunConfig = fmt.Errorf("invalid run configuration: %w", model.ErrParse)
)
