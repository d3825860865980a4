package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

func newDataset(t *testing.T, columns ...*dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("test", "test.csv", columns)
	require.NoError(t, err)
	return ds
}

func TestSummarizeCategorical(t *testing.T) {
	district := dataset.NewCategoricalColumn("district", []string{"b", "a", "b", "a", "c"})
	district.FilledAtLoad = 1
	ds := newDataset(t, district)

	summary, err := Summarize(ds, "district")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Unique)
	assert.Equal(t, "a", summary.Mode, "ties resolve to the smallest value")
	assert.Equal(t, 0, summary.Missing)
	assert.Equal(t, 1, summary.FilledAtLoad)
	assert.Equal(t, "object", summary.DType)
	assert.Equal(t, []ValueCount{{"b", 2}, {"a", 2}, {"c", 1}}, summary.Frequencies)
	assert.Nil(t, summary.Mean)
}

func TestSummarizeNumeric(t *testing.T) {
	ds := newDataset(t, dataset.NewNumericColumn("cases", dataset.DTypeInt64, []float64{1, 2, 3, 4, 10}))

	summary, err := Summarize(ds, "cases")
	require.NoError(t, err)

	assert.Equal(t, "4.00", summary.Mean.Format2())
	assert.Equal(t, "3.00", summary.Median.Format2())
	assert.Equal(t, "3.54", summary.StdDev.Format2())
	assert.Equal(t, 5, summary.Unique)
	assert.Equal(t, "1", summary.Mode)
	assert.Empty(t, summary.Frequencies)
}

func TestSummarizeNumericModeTie(t *testing.T) {
	ds := newDataset(t, dataset.NewNumericColumn("v", dataset.DTypeFloat64, []float64{10, 9, 10, 9}))

	summary, err := Summarize(ds, "v")
	require.NoError(t, err)
	assert.Equal(t, "9.0", summary.Mode)
}

func TestSummarizeBoolean(t *testing.T) {
	ds := newDataset(t, dataset.NewBoolColumn("reported", []bool{true, false, true}))

	summary, err := Summarize(ds, "reported")
	require.NoError(t, err)
	assert.Equal(t, "0.67", summary.Mean.Format2())
	assert.Equal(t, "true", summary.Mode)
}

func TestSummarizeSingleValueStdIsNaN(t *testing.T) {
	ds := newDataset(t, dataset.NewNumericColumn("v", dataset.DTypeInt64, []float64{4}))

	summary, err := Summarize(ds, "v")
	require.NoError(t, err)
	assert.Equal(t, "nan", summary.StdDev.Format2())

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"std":null`)
}

func TestSummarizeUnknownColumn(t *testing.T) {
	ds := newDataset(t, dataset.NewNumericColumn("v", dataset.DTypeInt64, []float64{4}))

	_, err := Summarize(ds, "nope")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestSummaryMarkdownAndHTML(t *testing.T) {
	ds := newDataset(t, dataset.NewCategoricalColumn("facility", []string{"<b>A</b>", "B", "B"}))
	summary, err := Summarize(ds, "facility")
	require.NoError(t, err)

	md := summary.Markdown()
	assert.Contains(t, md, "- **Unique Values:** 2\n")
	assert.Contains(t, md, "- **Most Common Value:** B\n")
	assert.Contains(t, md, "- **Data Type:** object\n")

	html := summary.HTML()
	assert.Contains(t, html, "<strong>Unique Values:</strong> 2")
	assert.Contains(t, html, "<table>")
	assert.NotContains(t, html, "<b>")
}

func TestNumberJSON(t *testing.T) {
	raw, err := json.Marshal([]Number{1.5, Number(math.NaN()), Number(math.Inf(1))})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,null,null]`, string(raw))

	var back []Number
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, Number(1.5), back[0])
	assert.False(t, back[1].Valid())
}
