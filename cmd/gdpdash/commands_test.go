package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/gdpdash/internal/database"
	"github.com/nao1215/gdpdash/internal/model"
)

func TestTopCmd(t *testing.T) {
	t.Parallel()

	t.Run("ranks the countries of a year", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, _, err := execute(t, f.args("top", "--year", "2020", "-n", "2")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Top 2 economies (2020)") {
			t.Errorf("expected title, got:\n%s", stdout)
		}
		if strings.Index(stdout, "France") > strings.Index(stdout, "India") {
			t.Errorf("expected France before India, got:\n%s", stdout)
		}
		for _, unwanted := range []string{"Japan", "World"} {
			if strings.Contains(stdout, unwanted) {
				t.Errorf("expected %s to be left out, got:\n%s", unwanted, stdout)
			}
		}
	})

	t.Run("defaults to the latest year and the settings size", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		chart := filepath.Join(f.dir, "out", "top.png")

		stdout, _, err := execute(t, f.args("top", "--chart", chart)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Top 3 economies (2020)") {
			t.Errorf("expected top 3 of 2020, got:\n%s", stdout)
		}
		if _, err := os.Stat(chart); err != nil {
			t.Errorf("expected chart file: %v", err)
		}
	})

	t.Run("rejects a negative count", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, f.args("top", "-n", "-1")...)
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

func TestTrendCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints a country over the years", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, _, err := execute(t, f.args("trend", "Japan", "--from", "2019", "--to", "2020")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"GDP TREND: JAPAN", "2019", "2020", "9", "10"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("reports an unknown country as a configuration error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, f.args("trend", "Atlantis")...)
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error, got %q", classifyError(err))
		}
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, f.args("trend", "Japan", "--from", "2020", "--to", "2019")...)
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("requires a country", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		if _, _, err := execute(t, f.args("trend")...); err == nil {
			t.Error("expected an error without a country")
		}
	})
}

func TestSweepCmd(t *testing.T) {
	t.Parallel()

	t.Run("computes every year in order", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		chart := filepath.Join(f.dir, "sweep.png")

		stdout, _, err := execute(t, f.args("sweep", "--from", "2019", "--to", "2020", "--concurrency", "2", "--chart", chart)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Average GDP of Asia, 2019 to 2020") {
			t.Errorf("expected heading, got:\n%s", stdout)
		}
		first, second := strings.Index(stdout, "9.67"), strings.Index(stdout, "15")
		if first < 0 || second < 0 || first > second {
			t.Errorf("expected 2019 (9.67) before 2020 (15), got:\n%s", stdout)
		}
		if _, err := os.Stat(chart); err != nil {
			t.Errorf("expected chart file: %v", err)
		}
	})

	t.Run("requires an explicitly named run configuration", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		if err := os.Remove(f.config); err != nil {
			t.Fatal(err)
		}

		_, _, err := execute(t, f.args("sweep")...)
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected not found for an explicit configuration, got %v", err)
		}
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, f.args("sweep", "--from", "2020", "--to", "2019")...)
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("rejects a non positive concurrency", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, f.args("sweep", "--concurrency", "0")...)
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

// recordRun runs the fixture once against dbDir and returns the run ID.
func recordRun(t *testing.T, f fixture, dbDir string) string {
	t.Helper()
	if _, _, err := execute(t, f.args("run", "--db-dir", dbDir)...); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer db.Close()
	runs, err := db.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs))
	}
	return runs[0].ID
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists, shows and deletes a recorded run", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		dbDir := filepath.Join(f.dir, "db")
		id := recordRun(t, f, dbDir)

		stdout, _, err := execute(t, f.args("history", "--db-dir", dbDir)...)
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(stdout, id) {
			t.Errorf("expected run %s in list, got:\n%s", id, stdout)
		}

		stdout, _, err = execute(t, f.args("history", "show", id, "--db-dir", dbDir)...)
		if err != nil {
			t.Fatalf("history show failed: %v", err)
		}
		if !strings.Contains(stdout, "Computed Result: 15") {
			t.Errorf("expected the stored report, got:\n%s", stdout)
		}

		stdout, _, err = execute(t, f.args("history", "show", id, "--json", "--db-dir", dbDir)...)
		if err != nil {
			t.Fatalf("history show --json failed: %v", err)
		}
		var stored model.RunReport
		if err := json.Unmarshal([]byte(stdout), &stored); err != nil {
			t.Fatalf("expected JSON: %v\n%s", err, stdout)
		}
		if stored.ID != id || stored.Result != 15 {
			t.Errorf("unexpected stored report %+v", stored)
		}

		if _, _, err := execute(t, f.args("history", "delete", id, "--db-dir", dbDir)...); err != nil {
			t.Fatalf("history delete failed: %v", err)
		}
		stdout, _, err = execute(t, f.args("history", "list", "--db-dir", dbDir)...)
		if err != nil {
			t.Fatalf("history list failed: %v", err)
		}
		if !strings.Contains(stdout, "No runs recorded.") {
			t.Errorf("expected empty history, got:\n%s", stdout)
		}
	})

	t.Run("filters runs of one statistic", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		dbDir := filepath.Join(f.dir, "db")
		id := recordRun(t, f, dbDir)

		stdout, _, err := execute(t, f.args("history", "list", "--db-dir", dbDir,
			"--region", "Asia", "--year", "2020", "--operation", "average")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, id) {
			t.Errorf("expected run %s, got:\n%s", id, stdout)
		}

		stdout, _, err = execute(t, f.args("history", "list", "--db-dir", dbDir,
			"--region", "Europe", "--year", "2020", "--operation", "average")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No runs recorded.") {
			t.Errorf("expected no Europe runs, got:\n%s", stdout)
		}

		_, _, err = execute(t, f.args("history", "list", "--db-dir", dbDir, "--region", "Asia")...)
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error for a partial filter, got %v", err)
		}
	})

	t.Run("reports an empty history without a database", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		stdout, _, err := execute(t, f.args("history", "--db-dir", filepath.Join(f.dir, "none"))...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No runs recorded.") {
			t.Errorf("expected empty history, got:\n%s", stdout)
		}
	})

	t.Run("reports an unknown run", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		dbDir := filepath.Join(f.dir, "db")
		recordRun(t, f, dbDir)

		_, _, err := execute(t, f.args("history", "show", "no-such-run", "--db-dir", dbDir)...)
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("fails before listening when the dataset is missing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, append(f.args("serve"), "--data", filepath.Join(f.dir, "missing.csv"))...)
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("rejects an unknown initial country", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, _, err := execute(t, f.args("serve", "--country", "Atlantis")...)
		if classifyError(err) != classConfig {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

func TestDashboardURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want string
	}{
		{addr: "127.0.0.1:8050", want: "http://127.0.0.1:8050/"},
		{addr: ":8080", want: "http://localhost:8080/"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			if got := dashboardURL(tt.addr); got != tt.want {
				t.Errorf("dashboardURL(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}
