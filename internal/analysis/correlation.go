package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// HeatmapNeedsColumns is the warning shown when fewer than two columns are selected
const HeatmapNeedsColumns = "Select at least two numerical columns for heatmap."

// CorrelationMatrix holds pairwise Pearson coefficients; Values[i][j] pairs Columns[i]
// with Columns[j]. Columns without variance correlate as NaN, including with themselves.
type CorrelationMatrix struct {
	Columns []string   `json:"columns"`
	Values  [][]Number `json:"values"`
}

// Correlate computes the correlation matrix of the selected numeric columns
func Correlate(ds *dataset.Dataset, columns []string) (*CorrelationMatrix, error) {
	data := make([][]float64, len(columns))
	for i, name := range columns {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != dataset.KindNumeric {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q is not numerical", name))
		}
		data[i], _ = col.Numbers()
	}
	if len(columns) < 2 {
		return nil, errors.PreconditionFailed(HeatmapNeedsColumns)
	}

	n := len(columns)
	result := &CorrelationMatrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]Number, n),
	}
	for i := range result.Values {
		result.Values[i] = make([]Number, n)
		for j := range result.Values[i] {
			result.Values[i][j] = Number(math.NaN())
		}
	}

	rows := ds.RowCount()
	if rows < 2 {
		return result, nil
	}

	x := mat.NewDense(rows, n, nil)
	for j, values := range data {
		x.SetCol(j, values)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)

	flat := make([]bool, n)
	for j, values := range data {
		flat[j] = !(stat.Variance(values, nil) > 0)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := corr.At(i, j)
			switch {
			case flat[i] || flat[j] || math.IsNaN(v) || math.IsInf(v, 0):
				v = math.NaN()
			case i == j:
				v = 1
			case v > 1:
				v = 1
			case v < -1:
				v = -1
			}
			result.Values[i][j] = Number(v)
		}
	}
	return result, nil
}
