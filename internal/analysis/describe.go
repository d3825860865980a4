package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// NumericStats are the describe() statistics, in display order
var NumericStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// CategoricalStats are used when the dataset has no numeric column
var CategoricalStats = []string{"count", "unique", "top", "freq"}

// DescribeRow is one column of the transposed describe table
type DescribeRow struct {
	Column string   `json:"column"`
	Values []Number `json:"values,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// DescribeTable is describe().transpose(): one row per column, one column per statistic
type DescribeTable struct {
	Stats   []string      `json:"stats"`
	Numeric bool          `json:"numeric"`
	Rows    []DescribeRow `json:"rows"`
}

// Describe summarises every numeric column. A dataset without numeric columns is
// described by count, unique, top and freq per column instead.
func Describe(ds *dataset.Dataset) *DescribeTable {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return describeCategorical(ds)
	}

	table := &DescribeTable{Stats: NumericStats, Numeric: true}
	for _, name := range numeric {
		col, _ := ds.Column(name)
		values, _ := col.Numbers()
		table.Rows = append(table.Rows, DescribeRow{Column: name, Values: describeValues(values)})
	}
	return table
}

func describeValues(values []float64) []Number {
	nan := math.NaN()
	out := []float64{float64(len(values)), nan, nan, nan, nan, nan, nan, nan}
	if len(values) == 0 {
		return numbersOf(out)
	}

	mean, _, std := centralTendency(values)
	out[1], out[2] = float64(mean), float64(std)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if lowest, err := stats.Min(sorted); err == nil {
		out[3] = lowest
	}
	out[4] = quantile(sorted, 0.25)
	out[5] = quantile(sorted, 0.50)
	out[6] = quantile(sorted, 0.75)
	if highest, err := stats.Max(sorted); err == nil {
		out[7] = highest
	}
	return numbersOf(out)
}

// quantile interpolates linearly between the closest ranks of sorted data
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func describeCategorical(ds *dataset.Dataset) *DescribeTable {
	table := &DescribeTable{Stats: CategoricalStats}
	for _, col := range ds.Columns() {
		counts := ValueCounts(col)
		row := DescribeRow{Column: col.Name, Labels: []string{strconv.Itoa(col.Len()), strconv.Itoa(len(counts)), "", ""}}
		if len(counts) > 0 {
			row.Labels[2] = counts[0].Value
			row.Labels[3] = strconv.Itoa(counts[0].Count)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Cells renders a row's statistics as display text
func (r DescribeRow) Cells() []string {
	if r.Labels != nil {
		return r.Labels
	}
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		if math.IsNaN(float64(v)) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(float64(v), 'f', 6, 64)
	}
	return out
}
