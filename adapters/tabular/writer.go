package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/core"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

const exportSheet = "Sheet1"

// WriteCSV writes the full dataset with a header row and no index column
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(ds.Records()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// CSVBytes renders the dataset as CSV in memory
func CSVBytes(ds *dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Checksum hashes the CSV rendering so identical content gets identical checksums
func Checksum(ds *dataset.Dataset) (core.Hash, error) {
	data, err := CSVBytes(ds)
	if err != nil {
		return "", err
	}
	return core.NewHash(data), nil
}

// WriteXLSX writes the dataset to a single-sheet workbook with typed cells
func WriteXLSX(w io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	columns := ds.Columns()
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r := 0; r < ds.RowCount(); r++ {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = col.Value(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
