package tabular

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// MissingMarkers are the cell texts treated as missing before cleaning
var MissingMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// FromRaw infers column types and replaces every missing cell with the zero of its
// column: 0 for numbers, "0" for text and false for flags. Integer columns that needed
// filling become float64, and a column with no values at all becomes a float64 column
// of zeros.
func FromRaw(name, source string, raw *RawTable) (*dataset.Dataset, error) {
	if len(raw.Rows) == 0 {
		columns := make([]*dataset.Column, len(raw.Headers))
		for i, header := range raw.Headers {
			columns[i] = dataset.NewCategoricalColumn(header, []string{})
		}
		return dataset.New(name, source, columns)
	}

	records, types := prepareRecords(raw)
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingMarkers),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to type columns: %w", df.Err)
	}

	columns := make([]*dataset.Column, 0, len(raw.Headers))
	filled := 0
	for i, header := range raw.Headers {
		col := cleanSeries(header, df.Col(df.Names()[i]))
		filled += col.FilledAtLoad
		columns = append(columns, col)
	}
	if filled > 0 {
		log.Printf("[DataReader] Filled %d missing cells in %s", filled, name)
	}

	return dataset.New(name, source, columns)
}

func cleanSeries(name string, s series.Series) *dataset.Column {
	missing := s.IsNaN()
	filled := 0
	for _, m := range missing {
		if m {
			filled++
		}
	}

	var col *dataset.Column
	switch s.Type() {
	case series.Int, series.Float:
		values := s.Float()
		for i, m := range missing {
			if m {
				values[i] = 0
			}
		}
		dtype := dataset.DTypeFloat64
		if s.Type() == series.Int && filled == 0 {
			dtype = dataset.DTypeInt64
		}
		col = dataset.NewNumericColumn(name, dtype, values)
	case series.Bool:
		records := s.Records()
		flags := make([]bool, len(records))
		for i, rec := range records {
			flags[i] = !missing[i] && rec == "true"
		}
		col = dataset.NewBoolColumn(name, flags)
	default:
		if filled == len(missing) {
			col = dataset.NewNumericColumn(name, dataset.DTypeFloat64, make([]float64, len(missing)))
			break
		}
		texts := s.Records()
		for i, m := range missing {
			if m {
				texts[i] = "0"
			}
		}
		col = dataset.NewCategoricalColumn(name, texts)
	}
	col.FilledAtLoad = filled
	return col
}

// flagSpellings maps the accepted true/false spellings to gota's lowercase form
var flagSpellings = map[string]string{
	"true": "true", "True": "true", "TRUE": "true",
	"false": "false", "False": "false", "FALSE": "false",
}

type cellClass int

const (
	cellMissing cellClass = iota
	cellNumber
	cellFlag
	cellText
)

func classifyCell(cell string) cellClass {
	t := strings.TrimSpace(cell)
	if isMissingMarker(t) {
		return cellMissing
	}
	if _, ok := flagSpellings[t]; ok {
		return cellFlag
	}
	if _, err := strconv.ParseFloat(t, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return cellNumber
	}
	return cellText
}

func isMissingMarker(s string) bool {
	for _, m := range MissingMarkers {
		if s == m {
			return true
		}
	}
	return false
}

// prepareRecords readies the raw cells for gota's type detection, column by column.
// Text columns keep their cells verbatim. Number and flag columns are trimmed, flag
// spellings are lowercased and out-of-range numbers become signed infinities. A column
// mixing flags with numbers is pinned to text so no cell is rewritten.
func prepareRecords(raw *RawTable) ([][]string, map[string]series.Type) {
	records := make([][]string, len(raw.Rows)+1)
	records[0] = raw.Headers
	for i, row := range raw.Rows {
		records[i+1] = make([]string, len(row))
	}
	types := make(map[string]series.Type)

	for j, header := range raw.Headers {
		var numbers, flags, texts bool
		classes := make([]cellClass, len(raw.Rows))
		for i, row := range raw.Rows {
			classes[i] = classifyCell(row[j])
			switch classes[i] {
			case cellNumber:
				numbers = true
			case cellFlag:
				flags = true
			case cellText:
				texts = true
			}
		}

		verbatim := texts || (numbers && flags)
		if !texts && numbers && flags {
			types[header] = series.String
		}
		for i, row := range raw.Rows {
			cell := row[j]
			switch {
			case classes[i] == cellMissing:
				cell = ""
			case verbatim:
			case classes[i] == cellFlag:
				cell = flagSpellings[strings.TrimSpace(cell)]
			default:
				cell = normalizeNumber(strings.TrimSpace(cell))
			}
			records[i+1][j] = cell
		}
	}
	return records, types
}

func normalizeNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}
