package analysis

import (
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// Table is a rendered grid of cell texts
type Table struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
	Truncated bool       `json:"truncated"`
}

// Preview restricts the dataset to the given columns in the given order. A positive
// limit caps the number of rows returned; TotalRows always reports the full count.
func Preview(ds *dataset.Dataset, columns []string, limit int) (*Table, error) {
	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	n := ds.RowCount()
	if limit > 0 && limit < n {
		n = limit
	}

	table := &Table{
		Columns:   append([]string(nil), columns...),
		Rows:      make([][]string, n),
		TotalRows: ds.RowCount(),
		Truncated: n < ds.RowCount(),
	}
	for i := 0; i < n; i++ {
		table.Rows[i] = ds.Row(i, cols)
	}
	return table, nil
}
