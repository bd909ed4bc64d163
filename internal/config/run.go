package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nao1215/gdpdash/internal/model"
	"github.com/tidwall/gjson"
)

// runConfigFile mirrors the JSON keys of the run configuration except
// "year", which may be a number or a string and is read with gjson.
type runConfigFile struct {
	Region    *string `json:"region"`
	Operation string  `json:"operation"`
	Output    *string `json:"output"`
	Country   *string `json:"country"`
}

// LoadRunConfig reads the JSON run configuration at path.
//
// A missing file is ErrRunConfigNotFound, malformed JSON or a missing year
// is ErrInvalidRunConfig. The operation is not checked here; an unknown
// operation surfaces as model.ErrInvalidOperation when it is used.
func LoadRunConfig(path string) (model.RunConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.RunConfig{}, fmt.Errorf("%w: %s", ErrRunConfigNotFound, path)
		}
		return model.RunConfig{}, fmt.Errorf("failed to read run configuration: %w", err)
	}
	cfg, err := ParseRunConfig(data)
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseRunConfig decodes a run configuration document.
func ParseRunConfig(data []byte) (model.RunConfig, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return model.RunConfig{}, fmt.Errorf("%w: not a JSON object", ErrInvalidRunConfig)
	}

	var raw runConfigFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.RunConfig{}, fmt.Errorf("%w: %w", ErrInvalidRunConfig, err)
	}

	year, err := yearValue(gjson.GetBytes(data, "year"))
	if err != nil {
		return model.RunConfig{}, err
	}

	return model.RunConfig{
		Region:    deref(raw.Region),
		Year:      year,
		Operation: model.Operation(raw.Operation),
		Output:    deref(raw.Output),
		Country:   deref(raw.Country),
	}, nil
}

// yearValue stringifies the "year" value: 2020 and "2020" are the same year.
func yearValue(v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.Number:
		return v.Raw, nil
	case gjson.String:
		if v.Str == "" {
			return "", fmt.Errorf("%w: \"year\" is empty", ErrInvalidRunConfig)
		}
		return v.Str, nil
	case gjson.Null:
		if v.Exists() {
			return "", fmt.Errorf("%w: \"year\" is null", ErrInvalidRunConfig)
		}
		return "", fmt.Errorf("%w: \"year\" is required", ErrInvalidRunConfig)
	default:
		return "", fmt.Errorf("%w: \"year\" must be a number or a string, got %s", ErrInvalidRunConfig, v.Raw)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
