package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/config.json templates/gdpdash.yaml
var templates embed.FS

const (
	runConfigTemplate = "templates/config.json"
	settingsTemplate  = "templates/gdpdash.yaml"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a run configuration or settings file",
		Long: `Init writes a run configuration template to config/config.json.

With --settings-file it writes a commented .gdpdash.yaml settings template
instead, documenting column overrides, the aggregate block-list, the top-N
size, the trend range and the dashboard defaults.

Examples:
  # Create config/config.json
  gdpdash init

  # Create .gdpdash.yaml in the current directory
  gdpdash init --settings-file

  # Create a run configuration at a specific path
  gdpdash init -o runs/europe.json

  # Force overwrite existing file
  gdpdash init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path (default: "+config.DefaultRunConfigPath+", or "+
			config.DefaultSettingsFile+" with --settings-file)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing file")
	cmd.Flags().Bool("settings-file", false,
		"Write a settings file template instead of a run configuration")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	settings, err := cmd.Flags().GetBool("settings-file")
	if err != nil {
		return err
	}

	name, kind := runConfigTemplate, "run configuration"
	if settings {
		name, kind = settingsTemplate, "settings file"
	}
	if outputPath == "" {
		outputPath = config.DefaultRunConfigPath
		if settings {
			outputPath = config.DefaultSettingsFile
		}
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return &configError{err: fmt.Errorf("%s already exists: %s (use -f to overwrite)", kind, outputPath)}
		}
	}

	content, err := templates.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s template: %w", kind, err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Created %s: %s\n", kind, outputPath)
	if settings {
		_, _ = fmt.Fprintln(out, "\nEdit this file to adjust column names, aggregate rows and chart ranges.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nEdit region, year and operation, then run:")
	_, _ = fmt.Fprintf(out, "  gdpdash run --config %s\n", outputPath)
	return nil
}
