package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/loader"
	logpkg "github.com/nao1215/gdpdash/internal/log"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/processor"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/visualizer"
	"github.com/spf13/cobra"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// stringFlagOrEnv returns the flag value when it was set on the command
// line, otherwise the environment variable env, otherwise the flag default.
func stringFlagOrEnv(cmd *cobra.Command, name, env string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed(name) {
		return v, nil
	}
	return config.EnvOr(env, v), nil
}

// buildConfig creates a Config from the global flags, the environment and
// the settings file. The run configuration is loaded separately by
// loadRunConfig since not every command needs it.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.RunConfigPath, err = stringFlagOrEnv(cmd, "config", config.EnvConfig); err != nil {
		return nil, err
	}
	if cfg.DataPath, err = stringFlagOrEnv(cmd, "data", config.EnvData); err != nil {
		return nil, err
	}
	if cfg.SettingsPath, err = stringFlagOrEnv(cmd, "settings", config.EnvSettings); err != nil {
		return nil, err
	}
	cfg.DBDir = config.EnvOr(config.EnvDBDir, cfg.DBDir)

	// An explicitly named settings file must exist; a searched one is optional.
	if path := config.FindSettingsFile(cfg.SettingsPath); path != "" {
		settings, err := config.LoadSettingsFile(path)
		if err != nil {
			return nil, &configError{err: fmt.Errorf("failed to load settings file %s: %w", path, err)}
		}
		cfg.Settings = settings
	} else if cfg.SettingsPath != "" {
		return nil, &configError{err: fmt.Errorf("%w: %s", config.ErrSettingsNotFound, cfg.SettingsPath)}
	}
	if cfg.Settings.ChartDir != "" {
		cfg.ChartDir = cfg.Settings.ChartDir
	}
	return cfg, nil
}

// runFlags are the flags that override the run configuration.
var runFlags = []string{"region", "year", "operation", "country", "output"}

// addRunFlags registers the run configuration overrides on cmd.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("region", "", "Override the region (continent) to filter on")
	cmd.Flags().String("year", "", "Override the year to aggregate")
	cmd.Flags().String("operation", "", "Override the statistic: sum or average")
	cmd.Flags().String("country", "", "Override the country whose trend is charted")
	cmd.Flags().String("output", "", `Override the output ("dashboard" renders charts)`)
}

// loadRunConfig reads the run configuration into cfg.Run and applies the
// command line overrides. When optional is true a missing file that was
// not named explicitly leaves only the overrides.
func loadRunConfig(cmd *cobra.Command, cfg *config.Config, optional bool) error {
	run, err := config.LoadRunConfig(cfg.RunConfigPath)
	if err != nil {
		explicit := cmd.Flags().Changed("config") || os.Getenv(config.EnvConfig) != ""
		if !optional || explicit || !errors.Is(err, config.ErrRunConfigNotFound) {
			return err
		}
		run = model.RunConfig{}
	}

	for _, name := range runFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		v := flag.Value.String()
		switch name {
		case "region":
			run.Region = v
		case "year":
			run.Year = v
		case "operation":
			run.Operation = model.Operation(v)
		case "country":
			run.Country = v
		case "output":
			run.Output = v
		}
	}
	cfg.Run = run
	return nil
}

// newLogger creates the command logger on stderr.
func newLogger(verbose bool) *slog.Logger {
	logger := logpkg.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// newProcessor builds the processor from the settings.
func newProcessor(settings *config.File) *processor.Processor {
	var opts []processor.Option
	if settings.Columns.Continent != "" {
		opts = append(opts, processor.WithContinentColumn(settings.Columns.Continent))
	}
	return processor.New(opts...)
}

// newShaper builds the shaper from the settings: column overrides, the
// aggregate block-list and the top-N size. extra options apply last.
func newShaper(settings *config.File, extra ...visualizer.ShaperOption) *visualizer.Shaper {
	resolver := visualizer.ColumnResolver{Override: settings.Columns.Country}

	var aggregates *visualizer.AggregateFilter
	if settings.Aggregates.Replace {
		aggregates = visualizer.NewAggregateFilter(resolver, settings.Aggregates.Labels...)
	} else {
		aggregates = visualizer.NewAggregateFilter(resolver, visualizer.DefaultAggregateLabels...)
		aggregates.Add(settings.Aggregates.Labels...)
	}

	opts := []visualizer.ShaperOption{
		visualizer.WithColumnResolver(resolver),
		visualizer.WithAggregateFilter(aggregates),
	}
	if settings.Columns.Continent != "" {
		opts = append(opts, visualizer.WithContinentColumn(settings.Columns.Continent))
	}
	if settings.TopN > 0 {
		opts = append(opts, visualizer.WithTopN(settings.TopN))
	}
	return visualizer.NewShaper(append(opts, extra...)...)
}

// loadDataset loads the dataset named by cfg.
func loadDataset(cfg *config.Config, logger *slog.Logger) (*model.Dataset, error) {
	ds, err := loader.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded",
		"path", ds.Source,
		"records", ds.Len(),
		"years", len(ds.Years()),
		"checksum", ds.Checksum,
	)
	return ds, nil
}

// latestYear returns year, or the last year column of ds when year is empty.
func latestYear(ds *model.Dataset, year string) (string, error) {
	if year != "" {
		return year, nil
	}
	years := ds.Years()
	if len(years) == 0 {
		return "", fmt.Errorf("%s has no year columns: %w", ds.Source, model.ErrSchema)
	}
	return years[len(years)-1], nil
}

// writeChart draws series as kind into path. A series without data is
// reported as a configuration problem since nothing matched the request.
func writeChart(path string, kind render.Kind, series model.Series) error {
	data, err := render.Draw(kind, series, render.DefaultSize())
	if errors.Is(err, render.ErrNoData) {
		return &configError{err: fmt.Errorf("nothing to chart for %q: %w", series.Title, err)}
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
