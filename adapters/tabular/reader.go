package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// RawTable is a file's header and rows before typing and cleaning
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// DataReader handles reading CSV and Excel files
type DataReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
}

// NewDataReader creates a reader for filePath; the extension selects the format
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// String names the source for logs and snapshots
func (r *DataReader) String() string {
	return r.filePath
}

// Load reads, types and cleans the file. Every failure is a DATASET_LOAD_FAILED error.
func (r *DataReader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.DatasetLoad("load cancelled", err)
	}

	raw, err := r.ReadData()
	if err != nil {
		return nil, errors.DatasetLoad(fmt.Sprintf("failed to load %s", r.filePath), err)
	}

	name := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	ds, err := FromRaw(name, r.filePath, raw)
	if err != nil {
		return nil, errors.DatasetLoad(fmt.Sprintf("failed to load %s", r.filePath), err)
	}
	return ds, nil
}

// ReadData reads the file into a RawTable
func (r *DataReader) ReadData() (*RawTable, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the first worksheet
func (r *DataReader) readExcelData() (*RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	// Blank spreadsheet rows are layout, not data
	kept := rows[:0]
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}
	return processRows(kept, r.fileType)
}

// readCSVData reads CSV data
func (r *DataReader) readCSVData() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	readStart := time.Now()
	rows, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(rows, r.fileType)
}

// ReadCSV reads comma-delimited records; rows may be shorter than the header
func ReadCSV(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// ParseCSV reads a CSV payload held in memory into a RawTable
func ParseCSV(data []byte) (*RawTable, error) {
	rows, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return processRows(rows, "csv")
}

// processRows splits off the header, normalises column names and squares the rows
func processRows(rows [][]string, fileType string) (*RawTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no header row", strings.ToUpper(fileType))
	}

	headers := normalizeHeaders(rows[0])

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) > len(headers) {
			return nil, fmt.Errorf("malformed %s: line %d has %d fields, header has %d",
				strings.ToUpper(fileType), i+1, len(row), len(headers))
		}
		cells := make([]string, len(headers))
		copy(cells, row)
		dataRows = append(dataRows, cells)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(fileType), len(headers), len(dataRows))

	return &RawTable{Headers: headers, Rows: dataRows}, nil
}

// normalizeHeaders trims names, names blank headers "Unnamed: i" and suffixes repeats
// with ".1", ".2", ...
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, header := range raw {
		name := strings.TrimSpace(header)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		headers[i] = name
	}
	return headers
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
