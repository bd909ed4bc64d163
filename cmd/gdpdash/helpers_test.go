package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testCSV = `Country Name,Country Code,Continent,2019,2020
Japan,JPN,Asia,9,10
India,IND,Asia,19,20
Nepal,NPL,Asia,1,
France,FRA,Europe,29,30
World,WLD,,100,110
`

const testRunConfig = `{"region": "Asia", "year": 2020, "operation": "average", "output": "console"}`

// fixture is a temporary working set: dataset, run configuration and
// settings file.
type fixture struct {
	dir      string
	data     string
	config   string
	settings string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:      dir,
		data:     filepath.Join(dir, "gdp.csv"),
		config:   filepath.Join(dir, "config.json"),
		settings: filepath.Join(dir, "gdpdash.yaml"),
	}
	writeTestFile(t, f.data, testCSV)
	writeTestFile(t, f.config, testRunConfig)
	writeTestFile(t, f.settings, "topN: 3\n")
	return f
}

// args prefixes cmdArgs with the fixture's file flags.
func (f fixture) args(cmdArgs ...string) []string {
	return append(cmdArgs,
		"--config", f.config,
		"--data", f.data,
		"--settings", f.settings,
		"--env-file=",
	)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
