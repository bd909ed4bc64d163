package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is the default settings file name.
const DefaultSettingsFile = ".gdpdash.yaml"

// ErrSettingsNotFound is returned when the settings file does not exist.
var ErrSettingsNotFound = errors.New("settings file not found")

// LoadSettingsFile loads shaping settings from a YAML file.
// If the file does not exist, it returns ErrSettingsNotFound.
// Callers should handle this error appropriately based on whether
// the path was explicitly specified by the user.
func LoadSettingsFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied settings path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// FindSettingsFile searches for the settings file in the following order:
// 1. If settingsPath is specified, use it directly
// 2. Look for .gdpdash.yaml in the current directory
// 3. Look for .gdpdash.yaml in the user's home directory
// 4. Look for .gdpdash.yaml in the XDG config directory
//
// Returns the path to the settings file if found, or empty string if not found.
func FindSettingsFile(settingsPath string) string {
	if settingsPath != "" {
		if _, err := os.Stat(settingsPath); err == nil {
			return settingsPath
		}
		return ""
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	dirs = append(dirs, XDGConfigDir())

	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultSettingsFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
