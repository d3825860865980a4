package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

func TestDescribeNumeric(t *testing.T) {
	ds := newDataset(t,
		dataset.NewNumericColumn("A", dataset.DTypeInt64, []float64{1, 2, 3, 4}),
		dataset.NewNumericColumn("B", dataset.DTypeFloat64, []float64{10, 20, 30, 40}),
	)

	table := Describe(ds)

	require.True(t, table.Numeric)
	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, table.Stats)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A", table.Rows[0].Column)
	assert.Equal(t, "B", table.Rows[1].Column)

	expected := []float64{4, 2.5, 1.290994, 1, 1.75, 2.5, 3.25, 4}
	require.Len(t, table.Rows[0].Values, 8)
	for i, want := range expected {
		assert.InDelta(t, want, float64(table.Rows[0].Values[i]), 1e-6, table.Stats[i])
	}
	assert.InDelta(t, 32.5, float64(table.Rows[1].Values[6]), 1e-9)
	assert.Equal(t, "2.500000", table.Rows[0].Cells()[1])
}

func TestDescribeSkipsNonNumericColumns(t *testing.T) {
	ds := newDataset(t,
		dataset.NewCategoricalColumn("district", []string{"a", "b"}),
		dataset.NewNumericColumn("cases", dataset.DTypeInt64, []float64{1, 2}),
		dataset.NewBoolColumn("reported", []bool{true, false}),
	)

	table := Describe(ds)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "cases", table.Rows[0].Column)
}

func TestDescribeCategoricalFallback(t *testing.T) {
	ds := newDataset(t, dataset.NewCategoricalColumn("district", []string{"a", "b", "b"}))

	table := Describe(ds)

	assert.False(t, table.Numeric)
	assert.Equal(t, CategoricalStats, table.Stats)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"3", "2", "b", "2"}, table.Rows[0].Cells())
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 2.0, quantile(sorted, 0.25))
	assert.Equal(t, 3.0, quantile(sorted, 0.5))
	assert.Equal(t, 1.5, quantile([]float64{1, 2}, 0.5))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.75))
}

func TestPreview(t *testing.T) {
	ds := newDataset(t,
		dataset.NewCategoricalColumn("district", []string{"a", "b", "c"}),
		dataset.NewNumericColumn("rate", dataset.DTypeFloat64, []float64{1, 2.5, 3}),
	)

	table, err := Preview(ds, []string{"rate", "district"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"rate", "district"}, table.Columns)
	assert.Equal(t, [][]string{{"1.0", "a"}, {"2.5", "b"}, {"3.0", "c"}}, table.Rows)
	assert.False(t, table.Truncated)

	limited, err := Preview(ds, []string{"district"}, 2)
	require.NoError(t, err)
	assert.Len(t, limited.Rows, 2)
	assert.Equal(t, 3, limited.TotalRows)
	assert.True(t, limited.Truncated)

	_, err = Preview(ds, []string{"nope"}, 0)
	assert.Error(t, err)
}
