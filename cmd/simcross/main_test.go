package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"simcross/adapters/payload"
	"simcross/internal/config"
	"simcross/internal/crosssim"
	"simcross/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", GinMode: "test"},
		Output: config.OutputConfig{Dir: dir, Format: "json"},
		Limits: config.LimitsConfig{MaxObservations: 1000000, SweepConcurrency: 2},
		Log:    config.LogConfig{Level: "ERROR"},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(cfg)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSimulateWritesPayload(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, testConfig(dir), "simulate", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "nonempty rows:")

	f, err := os.Open(filepath.Join(dir, "crossed.json"))
	require.NoError(t, err)
	defer f.Close()
	p, err := payload.DecodeJSON(f)
	require.NoError(t, err)

	want, err := crosssim.Simulate(crosssim.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, payload.FromDataset(want).II, p.II)
	assert.Equal(t, 58, p.R)
	assert.Equal(t, 14, p.C)
}

func TestSimulateRDumpAndExports(t *testing.T) {
	dir := t.TempDir()
	rPath := filepath.Join(dir, "crossed.data.R")
	xlsxPath := filepath.Join(dir, "crossed.xlsx")
	csvPath := filepath.Join(dir, "crossed.csv")

	_, err := run(t, testConfig(dir), "simulate", "-n", "500", "--out", rPath,
		"--xlsx", xlsxPath, "--csv", csvPath, "--quiet")
	require.NoError(t, err)

	raw, err := os.ReadFile(rPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "N <- 500\n"))
	assert.FileExists(t, xlsxPath)
	assert.FileExists(t, csvPath)
}

func TestSimulateUsesConfiguredFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Output.Format = "rdump"

	_, err := run(t, cfg, "simulate", "-q")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "crossed.data.R"))
}

func TestSimulateRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, testConfig(dir), "simulate", "--noise-variance", "-1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfiguration, errors.GetCode(err))
	assert.NoFileExists(t, filepath.Join(dir, "crossed.json"))
}

func TestScenarioWithOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scenarios:
  - name: small
    observation_count: 400
    row_exponent: 0.9
  - name: square
    observation_count: 400
    row_exponent: 0.5
    column_exponent: 0.5
`), 0o644))

	out, err := run(t, testConfig(dir), "dims", "--scenario", path, "--name", "square")
	require.NoError(t, err)
	assert.Equal(t, "n=400 R=20 C=20\n", out)

	out, err = run(t, testConfig(dir), "dims", "--scenario", path, "-n", "1600", "--name", "square")
	require.NoError(t, err)
	assert.Equal(t, "n=1600 R=40 C=40\n", out)

	out, err = run(t, testConfig(dir), "dims", "--scenario", path)
	require.NoError(t, err)
	assert.Contains(t, out, "n=400 ")

	_, err = run(t, testConfig(dir), "dims", "--scenario", path, "--name", "missing")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestSweepTable(t *testing.T) {
	out, err := run(t, testConfig(t.TempDir()), "sweep",
		"--row-exponent", "0.5", "--column-exponent", "0.5", "--start", "100", "--factor", "4", "--steps", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "2.000x")
	assert.True(t, strings.HasPrefix(lines[3], "1600"))
}

func TestSweepJSONSimulated(t *testing.T) {
	out, err := run(t, testConfig(t.TempDir()), "sweep", "--counts", "100,1000", "--simulate", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"nonempty_rows"`)
	assert.Contains(t, out, `"observation_count": 1000`)
}

func TestReport(t *testing.T) {
	out, err := run(t, testConfig(t.TempDir()), "report")
	require.NoError(t, err)
	assert.Contains(t, out, "| R | 58 |")

	out, err = run(t, testConfig(t.TempDir()), "report", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
}
