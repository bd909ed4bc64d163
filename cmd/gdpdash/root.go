package main

import (
	"errors"
	"os"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gdpdash.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gdpdash",
		Short: "GDP analytics pipeline and dashboard",
		Long: `gdpdash loads country-level GDP time series from a CSV (or XLSX) file,
filters them by region, aggregates one year with a sum or an average,
and presents the result as a console report, chart images and an
interactive web dashboard.

What to compute is read from a JSON run configuration (config/config.json
by default):

  {"region": "Asia", "year": 2020, "operation": "average", "output": "dashboard"}

Defaults for --config, --data and --settings can also be set with the
GDPDASH_CONFIG, GDPDASH_DATA and GDPDASH_SETTINGS environment variables,
optionally from a .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, err := cmd.Flags().GetString("env-file")
			if err != nil {
				return err
			}
			if envFile == "" {
				return nil
			}
			if err := config.LoadEnv(envFile); err != nil {
				return &configError{err: err}
			}
			return nil
		},
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.StringP("config", "c", config.DefaultRunConfigPath,
		"Run configuration file (env: "+config.EnvConfig+")")
	flags.StringP("data", "d", config.DefaultDataPath,
		"GDP dataset, CSV or XLSX (env: "+config.EnvData+")")
	flags.StringP("settings", "s", "",
		"Settings file (default: "+config.DefaultSettingsFile+" in current, home or XDG config directory)")
	flags.String("env-file", ".env",
		"Environment file read before GDPDASH_* variables (empty to skip)")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewTopCmd())
	cmd.AddCommand(NewTrendCmd())
	cmd.AddCommand(NewSweepCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
