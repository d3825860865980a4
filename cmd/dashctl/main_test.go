package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/app"
)

const facilityCSV = `district,facility,cases,rate
Kisumu,A,10,0.5
Siaya,B,,1.0
Kisumu,C,7,2.0
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facilities.csv")
	require.NoError(t, os.WriteFile(path, []byte(facilityCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	file := writeDataset(t)

	out, err := run(t, "summary", "cases", "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary of cases")
	assert.Contains(t, out, "5.67")
	assert.Contains(t, out, "Standard Deviation")

	out, err = run(t, "summary", "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary of district")
	assert.Contains(t, out, "Frequent Values:")
	assert.Contains(t, out, "Kisumu")

	_, err = run(t, "summary", "nope", "-f", file, "--log-level", "ERROR")
	assert.Error(t, err)
}

func TestDescribeAndCorrelateCommands(t *testing.T) {
	file := writeDataset(t)

	out, err := run(t, "describe", "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Data Summary Statistics")
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "rate")

	out, err = run(t, "correlate", "cases", "rate", "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Correlation Matrix")
	assert.Contains(t, out, "1.00")

	_, err = run(t, "correlate", "cases", "-f", file, "--log-level", "ERROR")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	file := writeDataset(t)

	out, err := run(t, "export", "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Equal(t, "district,facility,cases,rate\nKisumu,A,10.0,0.5\nSiaya,B,0.0,1.0\nKisumu,C,7.0,2.0\n", out)

	target := filepath.Join(t.TempDir(), "filtered_data.xlsx")
	_, err = run(t, "export", "--format", "xlsx", "--out", target, "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = run(t, "export", "--format", "json", "-f", file)
	assert.Error(t, err)
}

func TestChartCommand(t *testing.T) {
	file := writeDataset(t)
	target := filepath.Join(t.TempDir(), "bar.png")

	_, err := run(t, "chart", "bar", "--x", "district", "--y", "cases", "--out", target, "-f", file, "--log-level", "ERROR")
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	failed := filepath.Join(t.TempDir(), "line.png")
	_, err = run(t, "chart", "line", "--y", "facility", "--out", failed, "-f", file, "--log-level", "ERROR")
	assert.Error(t, err)
	assert.NoFileExists(t, failed)

	_, err = run(t, "chart", "pie", "-f", file)
	assert.Error(t, err)
}

func TestChartSelection(t *testing.T) {
	sel := chartSelection(app.ChartDonut, "district", "cases", nil)
	assert.Equal(t, "district", sel.DonutCategory)
	assert.Equal(t, "cases", sel.DonutValue)
	assert.Empty(t, sel.BarX)

	sel = chartSelection(app.ChartHeatmap, "", "", []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, sel.HeatmapColumns)
}
