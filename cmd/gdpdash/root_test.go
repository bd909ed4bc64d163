package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "gdpdash" {
			t.Errorf("expected use 'gdpdash', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			def       string
		}{
			{name: "verbose", shorthand: "v", def: "false"},
			{name: "config", shorthand: "c", def: "config/config.json"},
			{name: "data", shorthand: "d", def: "data/gdp_with_continent_filled.csv"},
			{name: "settings", shorthand: "s", def: ""},
			{name: "env-file", def: ".env"},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q for %s, got %q", tt.shorthand, tt.name, flag.Shorthand)
			}
			if flag.DefValue != tt.def {
				t.Errorf("expected default %q for %s, got %q", tt.def, tt.name, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		names := make(map[string]bool)
		for _, sub := range cmd.Commands() {
			names[sub.Name()] = true
		}
		for _, want := range []string{"run", "serve", "top", "trend", "sweep", "history", "init", "version"} {
			if !names[want] {
				t.Errorf("expected %s subcommand", want)
			}
		}
	})
}

func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	t.Run("returns false by default", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		run, _, err := root.Find([]string{"run"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if getVerboseFlag(run) {
			t.Error("expected false")
		}
	})

	t.Run("reads the parent flag", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		run, _, err := root.Find([]string{"run"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !getVerboseFlag(run) {
			t.Error("expected true from parent verbose flag")
		}
	})
}
