package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/femto/internal/femto/storage/sqlite"
)

const testConfig = `{
  "reader": {"type": "synthetic", "events": 30, "seed": 3},
  "analyses": [
    {
      "name": "pions",
      "driver": "vertex",
      "mixing_depth": 3,
      "vertex_z": {"bins": 4, "min": -40, "max": 40},
      "corr_fctns": [{"type": "qinv", "bins": 20, "q_max": 0.5}]
    }
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "femto.json")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "femto dev"), out)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	htmlPath := filepath.Join(dir, "report.html")
	metricsPath := filepath.Join(dir, "femto.prom")
	plots := filepath.Join(dir, "plots")

	out, err := execute(t, "run",
		"--config", writeTestConfig(t),
		"--db", dbPath,
		"--html", htmlPath,
		"--metrics", metricsPath,
		"--plots", plots,
		"--max-events", "25",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Manager: 25 events")
	assert.Contains(t, out, "Analysis 0 (pions)")

	page, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "num_qinv0")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `femto_analysis_events_processed_total{analysis="pions"} 25`)

	_, err = os.Stat(filepath.Join(plots, "pions", "num_qinv0.png"))
	assert.NoError(t, err)

	out, err = execute(t, "runs", "list", "--db", dbPath, "--json")
	require.NoError(t, err)
	var runs []sqlite.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, sqlite.StatusCompleted, runs[0].Status)
	assert.Equal(t, int64(25), runs[0].EventsRead)
	assert.Equal(t, "synthetic", runs[0].Reader)

	out, err = execute(t, "runs", "show", runs[0].RunID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "completed, 25 events from synthetic")
	assert.Contains(t, out, "pions/num_qinv0 (1D, 20 bins)")

	out, err = execute(t, "runs", "delete", runs[0].RunID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted run")

	_, err = execute(t, "runs", "show", runs[0].RunID, "--db", dbPath)
	assert.ErrorIs(t, err, sqlite.ErrRunNotFound)
}

func TestRunReplaysWrittenEvents(t *testing.T) {
	cfg := writeTestConfig(t)
	events := filepath.Join(t.TempDir(), "events.jsonl")

	first, err := execute(t, "run", "--config", cfg, "--write-events", events)
	require.NoError(t, err)
	assert.Contains(t, first, "Manager: 30 events")

	second, err := execute(t, "run", "--config", cfg, "--reader", "jsonl", "--input", events)
	require.NoError(t, err)
	assert.Contains(t, second, "Manager: 30 events")

	// Identical events give identical analysis reports.
	_, a, _ := strings.Cut(first, "Analysis 0")
	_, b, _ := strings.Cut(second, "Analysis 0")
	assert.Equal(t, a, b)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing config", []string{"run", "--config", filepath.Join(t.TempDir(), "nope.json")}},
		{"jsonl without input", []string{"run", "--config", writeTestConfig(t), "--reader", "jsonl"}},
		{"unknown reader", []string{"run", "--config", writeTestConfig(t), "--reader", "root"}},
		{"missing input", []string{"run", "--config", writeTestConfig(t), "--reader", "jsonl", "--input", filepath.Join(t.TempDir(), "none.jsonl")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestMigrateCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "migrate", "version", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 0\n", out)

	out, err = execute(t, "migrate", "up", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 2\n", out)

	out, err = execute(t, "migrate", "down", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	_, err = execute(t, "migrate", "force", "two", "--db", dbPath)
	assert.Error(t, err)
}
