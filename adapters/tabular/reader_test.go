package tabular

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

const facilityCSV = `district,facility,cases,rate,reported,notes
Kisumu,A,10,0.5,true,
Siaya,B,,1.25,false,late
Kisumu,C,7,NA,,checked
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadCSV(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	ds, err := NewDataReader(writeFile(t, "data.csv", content)).Load(context.Background())
	require.NoError(t, err)
	return ds
}

func TestLoadInfersKindsAndFillsMissing(t *testing.T) {
	ds := loadCSV(t, facilityCSV)

	assert.Equal(t, "data", ds.Name)
	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, []string{"cases", "rate"}, ds.NumericColumns())
	assert.Equal(t, []string{"district", "facility", "notes"}, ds.CategoricalColumns())

	cases, _ := ds.Column("cases")
	assert.Equal(t, dataset.DTypeFloat64, cases.DType, "filled integer column is promoted")
	assert.Equal(t, 1, cases.FilledAtLoad)
	nums, _ := cases.Numbers()
	assert.Equal(t, []float64{10, 0, 7}, nums)

	rate, _ := ds.Column("rate")
	assert.Equal(t, "0.0", rate.Text(2))

	notes, _ := ds.Column("notes")
	assert.Equal(t, []string{"0", "late", "checked"}, notes.Texts())

	reported, _ := ds.Column("reported")
	assert.Equal(t, dataset.KindOther, reported.Kind)
	assert.Equal(t, []string{"true", "false", "false"}, reported.Texts())

	assert.Equal(t, 4, ds.FilledCells())
	for _, col := range ds.Columns() {
		assert.Zero(t, col.MissingCount(), col.Name)
	}
}

func TestLoadKeepsIntegerDtype(t *testing.T) {
	ds := loadCSV(t, "a,b\n1,x\n2,y\n")

	a, _ := ds.Column("a")
	assert.Equal(t, dataset.DTypeInt64, a.DType)
	assert.Equal(t, 0, a.FilledAtLoad)
}

func TestLoadAllMissingColumnBecomesZeros(t *testing.T) {
	ds := loadCSV(t, "a,empty\n1,\n2,NA\n")

	empty, _ := ds.Column("empty")
	assert.Equal(t, dataset.KindNumeric, empty.Kind)
	assert.Equal(t, dataset.DTypeFloat64, empty.DType)
	assert.Equal(t, []string{"0.0", "0.0"}, empty.Texts())
}

func TestLoadHeaderOnly(t *testing.T) {
	ds := loadCSV(t, "a,b\n")

	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, []string{"a", "b"}, ds.ColumnNames())
}

func TestLoadNormalizesHeaders(t *testing.T) {
	ds := loadCSV(t, " cases ,,cases,cases\n1,2,3,4\n")

	assert.Equal(t, []string{"cases", "Unnamed: 1", "cases.1", "cases.2"}, ds.ColumnNames())
}

func TestLoadPadsShortRows(t *testing.T) {
	ds := loadCSV(t, "a,b,c\n1,x,2\n3\n")

	b, _ := ds.Column("b")
	assert.Equal(t, []string{"x", "0"}, b.Texts())
}

func TestLoadFlagSpellings(t *testing.T) {
	ds := loadCSV(t, "ok,mixed\nTrue,true\nFALSE,1\n,0\n")

	ok, _ := ds.Column("ok")
	assert.Equal(t, dataset.KindOther, ok.Kind)
	assert.Equal(t, []string{"true", "false", "false"}, ok.Texts())
	assert.Equal(t, 1, ok.FilledAtLoad)

	mixed, _ := ds.Column("mixed")
	assert.Equal(t, dataset.KindCategorical, mixed.Kind)
	assert.Equal(t, []string{"true", "1", "0"}, mixed.Texts())
}

func TestLoadOutOfRangeNumbersAreInfinite(t *testing.T) {
	ds := loadCSV(t, "big,label\n1e400,x\n-1e400,y\n2,z\n")

	big, _ := ds.Column("big")
	require.Equal(t, dataset.KindNumeric, big.Kind)
	nums, _ := big.Numbers()
	assert.True(t, math.IsInf(nums[0], 1))
	assert.True(t, math.IsInf(nums[1], -1))
	assert.Equal(t, 2.0, nums[2])
}

func TestLoadKeepsTextWhitespace(t *testing.T) {
	ds := loadCSV(t, "name,cases\na , 10\na,7\n  ,3\n")

	name, _ := ds.Column("name")
	assert.Equal(t, []string{"a ", "a", "0"}, name.Texts())
	assert.Equal(t, 1, name.FilledAtLoad)

	cases, _ := ds.Column("cases")
	assert.Equal(t, dataset.DTypeInt64, cases.DType)
	nums, _ := cases.Numbers()
	assert.Equal(t, []float64{10, 7, 3}, nums)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"extra field":  "a,b\n1,2,3\n",
		"bad quoting":  "a,b\n\"1,2\n",
		"empty file":   "",
		"missing file": "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.csv")
			if name != "missing file" {
				path = writeFile(t, "data.csv", content)
			}
			_, err := NewDataReader(path).Load(context.Background())
			require.Error(t, err)
			assert.Equal(t, errors.CodeDatasetLoad, errors.GetCode(err))
		})
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDataReader("unused.csv").Load(ctx)
	assert.Equal(t, errors.CodeDatasetLoad, errors.GetCode(err))
}

func TestCSVRoundTrip(t *testing.T) {
	original := loadCSV(t, facilityCSV)

	data, err := CSVBytes(original)
	require.NoError(t, err)

	reloaded := loadCSV(t, string(data))

	assert.Equal(t, original.Records(), reloaded.Records())
	for _, col := range original.Columns() {
		back, err := reloaded.Column(col.Name)
		require.NoError(t, err)
		assert.Equal(t, col.DType, back.DType, col.Name)
		assert.Equal(t, col.Kind, back.Kind, col.Name)
	}
	assert.Equal(t, 0, reloaded.FilledCells())
}

func TestChecksumIsContentBased(t *testing.T) {
	a, err := Checksum(loadCSV(t, facilityCSV))
	require.NoError(t, err)
	b, err := Checksum(loadCSV(t, facilityCSV))
	require.NoError(t, err)
	c, err := Checksum(loadCSV(t, "a\n1\n"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestXLSXRoundTrip(t *testing.T) {
	original := loadCSV(t, "district,cases,rate\nKisumu,10,0.5\nSiaya,3,1.25\n")

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, original))
	path := writeFile(t, "data.xlsx", buf.String())

	reloaded, err := NewDataReader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, original.ColumnNames(), reloaded.ColumnNames())
	assert.Equal(t, original.NumericColumns(), reloaded.NumericColumns())
	rate, _ := reloaded.Column("rate")
	nums, _ := rate.Numbers()
	assert.Equal(t, []float64{0.5, 1.25}, nums)
}
