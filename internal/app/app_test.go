package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "numsummary/internal/errors"
	"numsummary/internal/exporter"
	"numsummary/internal/shared/testutil"
)

// runIn runs Main with dir as the working directory
func runIn(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	testutil.Chdir(t, dir)

	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func assertNoOutputDir(t *testing.T, dir string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, "demo_output"))
	assert.True(t, os.IsNotExist(err), "demo_output must not be created")
}

func TestMain_WrongArgumentCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "two arguments", args: []string{"a.csv", "b.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			code, stdout, _ := runIn(t, dir, tt.args...)

			assert.Equal(t, 1, code)
			assert.Equal(t, "ERROR: Incorrect number of arguments provided.\nUsage: analyse path/to/input.csv\n", stdout)
			assertNoOutputDir(t, dir)
		})
	}
}

func TestMain_WrongArgumentCountBeforeConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NUMSUM_EXPORTER_PRECISION", "not-a-number")

	code, stdout, _ := runIn(t, dir)
	assert.Equal(t, 1, code)
	assert.Equal(t, "ERROR: Incorrect number of arguments provided.\nUsage: analyse path/to/input.csv\n", stdout)

	code, stdout, _ = runIn(t, dir, "-config", filepath.Join(dir, "absent.yaml"), "a.csv", "b.csv")
	assert.Equal(t, 1, code)
	assert.Equal(t, "ERROR: Incorrect number of arguments provided.\nUsage: analyse path/to/input.csv\n", stdout)
	assertNoOutputDir(t, dir)
}

func TestMain_MissingFile(t *testing.T) {
	dir := t.TempDir()
	code, stdout, _ := runIn(t, dir, "nope.csv")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Reading input CSV: nope.csv\nERROR: The file 'nope.csv' does not exist.\n", stdout)
	assertNoOutputDir(t, dir)
}

func TestMain_Success(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.csv"), []byte(testutil.MixedCSV), 0644))

	code, stdout, stderr := runIn(t, dir, "input.csv")
	require.Equal(t, 0, code, "stdout: %s\nstderr: %s", stdout, stderr)

	wd, err := os.Getwd()
	require.NoError(t, err)
	csvPath := filepath.Join(wd, "demo_output", "numeric_summary.csv")
	textPath := filepath.Join(wd, "demo_output", "numeric_summary.txt")

	assert.Equal(t, strings.Join([]string{
		"Reading input CSV: input.csv",
		"Computing numeric summary (mean, sd, min, max, n_missing)...",
		"Writing summary CSV to: " + csvPath,
		"Writing human-readable summary to: " + textPath,
		"Done. Files saved to 'demo_output' directory.",
		"",
	}, "\n"), stdout)

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "column,mean,sd,min,max,n_missing\na,2,1,1,3,0\nb,20,14.142135623730951,10,30,1\n", string(content))

	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Source: input.csv")
	assert.Contains(t, string(text), "  sd:         14.1421\n")

	// Logs stay off stdout
	assert.Contains(t, stderr, "Application starting")
	assert.NotContains(t, stdout, "{")
}

func TestMain_ReadFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0644))

	code, stdout, _ := runIn(t, dir, "empty.csv")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Reading input CSV: empty.csv\nERROR: Failed to read CSV file: no columns to parse from file\n", stdout)
	assertNoOutputDir(t, dir)
}

func TestMain_DirectoryInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data"), 0755))

	code, stdout, _ := runIn(t, dir, "data")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "ERROR: Failed to read CSV file: ")
	assertNoOutputDir(t, dir)
}

func TestMain_NoNumericColumns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.csv"), []byte(testutil.TextOnlyCSV), 0644))

	code, stdout, _ := runIn(t, dir, "text.csv")

	assert.Equal(t, 1, code)
	assert.Equal(t, strings.Join([]string{
		"Reading input CSV: text.csv",
		"Computing numeric summary (mean, sd, min, max, n_missing)...",
		"ERROR: Failed to compute numeric summary: cannot summarize table: no numeric columns to summarize",
		"",
	}, "\n"), stdout)
	assertNoOutputDir(t, dir)
}

func TestMain_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "h.csv"), []byte(testutil.HeaderOnlyCSV), 0644))

	code, _, _ := runIn(t, dir, "h.csv")
	require.Equal(t, 0, code)

	content, err := os.ReadFile(filepath.Join(dir, "demo_output", "numeric_summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, "column,mean,sd,min,max,n_missing\na,,,,,0\nb,,,,,0\n", string(content))
}

func TestMain_OutputDirBlocked(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.csv"), []byte(testutil.MixedCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo_output"), []byte("not a dir"), 0644))

	code, stdout, _ := runIn(t, dir, "input.csv")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Computing numeric summary (mean, sd, min, max, n_missing)...\n")
	assert.Contains(t, stdout, "ERROR: Failed to export summary: cannot prepare output directory: ")
	assert.NotContains(t, stdout, "Writing summary CSV to")
}

func TestMain_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.tsv"), []byte("x\ty\n1\t2\n3\t\n"), 0644))

	configPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
logging:
  output: file
  file_path: logs/run.log
exporter:
  precision: 2
  workbook: true
output:
  dir: reports
telemetry:
  metrics_file: telemetry/metrics.prom
  trace_file: telemetry/trace.json
`), 0644))

	code, stdout, stderr := runIn(t, dir, "-config", configPath, "input.tsv")
	require.Equal(t, 0, code, "stdout: %s", stdout)

	assert.Contains(t, stdout, "Done. Files saved to 'reports' directory.\n")
	assert.Empty(t, stderr, "file logging keeps stderr quiet")

	text, err := os.ReadFile(filepath.Join(dir, "reports", "numeric_summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "  mean:       2.00\n")
	assert.Contains(t, string(text), "  sd:         NA\n")

	f, err := excelize.OpenFile(filepath.Join(dir, "reports", "numeric_summary.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exporter.SummarySheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	logData, err := os.ReadFile(filepath.Join(dir, "logs", "run.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "trace_id")

	metrics, err := os.ReadFile(filepath.Join(dir, "telemetry", "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "numsummary_files_exported")
	assert.Contains(t, string(metrics), "xlsx")

	_, err = os.Stat(filepath.Join(dir, "telemetry", "trace.json"))
	assert.NoError(t, err)
}

func TestMain_BadConfig(t *testing.T) {
	dir := t.TempDir()
	code, stdout, _ := runIn(t, dir, "-config", filepath.Join(dir, "absent.yaml"), "input.csv")

	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stdout, "ERROR: Failed to load configuration: "))
	assertNoOutputDir(t, dir)
}

func TestMain_EnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.csv"), []byte("v\n-\n5\n"), 0644))
	t.Setenv("NUMSUM_LOADER_NA_VALUES", "-")
	t.Setenv("NUMSUM_OUTPUT_DIR", "env_out")

	code, stdout, _ := runIn(t, dir, "input.csv")
	require.Equal(t, 0, code, stdout)

	content, err := os.ReadFile(filepath.Join(dir, "env_out", "numeric_summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, "column,mean,sd,min,max,n_missing\nv,5,,5,5,1\n", string(content))
}

func TestMain_CSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.csv"), []byte(testutil.MixedCSV), 0644))
	t.Setenv("NUMSUM_EXPORTER_BOM", "true")

	code, stdout, _ := runIn(t, dir, "input.csv")
	require.Equal(t, 0, code, stdout)

	content, err := os.ReadFile(filepath.Join(dir, "demo_output", "numeric_summary.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "\ufeffcolumn,mean,sd,min,max,n_missing\n"))
}

func TestMain_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), []string{"-version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "numsummary 1.2.0\n", stdout.String())

	stdout.Reset()
	code = Main(context.Background(), []string{"-version", "-v"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "numsummary 1.2.0 (built: ")
}

func TestMain_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), []string{"-bogus", "in.csv"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Usage: analyse path/to/input.csv")
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "plain", detail(errors.New("plain")))
	assert.Equal(t, "bad input: boom", detail(apperrors.NewParsingError("bad input", errors.New("boom"))))
	assert.Equal(t, "file x.csv not found", detail(fmt.Errorf("wrapped: %w", apperrors.NewNotFoundError("file x.csv"))))
}
