package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// ColumnKind is the tagged variant every panel dispatches on
type ColumnKind int

const (
	KindOther ColumnKind = iota
	KindNumeric
	KindCategorical
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "other"
	}
}

// MarshalText lets kinds travel as strings in JSON payloads
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names produced by MarshalText; unknown names become KindOther
func (k *ColumnKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "numeric":
		*k = KindNumeric
	case "categorical":
		*k = KindCategorical
	default:
		*k = KindOther
	}
	return nil
}

// Dtype labels as shown to the user
const (
	DTypeInt64   = "int64"
	DTypeFloat64 = "float64"
	DTypeObject  = "object"
	DTypeBool    = "bool"
)

// Column is one named, typed column of a Dataset. Exactly one of the value slices is
// populated, selected by Kind (numbers for numeric, texts for categorical, flags for other).
type Column struct {
	Name  string
	Kind  ColumnKind
	DType string

	// FilledAtLoad counts the cells the loader replaced with a zero-equivalent
	FilledAtLoad int

	numbers []float64
	texts   []string
	flags   []bool
}

// NewNumericColumn builds an int64 or float64 column
func NewNumericColumn(name, dtype string, values []float64) *Column {
	if dtype != DTypeInt64 {
		dtype = DTypeFloat64
	}
	return &Column{Name: name, Kind: KindNumeric, DType: dtype, numbers: values}
}

// NewCategoricalColumn builds an object column
func NewCategoricalColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: KindCategorical, DType: DTypeObject, texts: values}
}

// NewBoolColumn builds a bool column
func NewBoolColumn(name string, values []bool) *Column {
	return &Column{Name: name, Kind: KindOther, DType: DTypeBool, flags: values}
}

// Len returns the number of cells
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.numbers)
	case KindCategorical:
		return len(c.texts)
	default:
		return len(c.flags)
	}
}

// Text returns the cell as it is displayed and exported. Float64 cells always carry a
// decimal point so a re-parse keeps the dtype.
func (c *Column) Text(i int) string {
	switch c.Kind {
	case KindNumeric:
		return FormatNumber(c.numbers[i], c.DType)
	case KindCategorical:
		return c.texts[i]
	default:
		return strconv.FormatBool(c.flags[i])
	}
}

// Float returns the cell as a number. Categorical cells are parsed; ok is false when
// the text is not numeric.
func (c *Column) Float(i int) (float64, bool) {
	switch c.Kind {
	case KindNumeric:
		return c.numbers[i], true
	case KindCategorical:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.texts[i]), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		if c.flags[i] {
			return 1, true
		}
		return 0, true
	}
}

// Numbers returns a copy of the column as float64 values. Bool columns map to 0/1;
// categorical columns report ok=false.
func (c *Column) Numbers() ([]float64, bool) {
	switch c.Kind {
	case KindNumeric:
		out := make([]float64, len(c.numbers))
		copy(out, c.numbers)
		return out, true
	case KindCategorical:
		return nil, false
	default:
		out := make([]float64, len(c.flags))
		for i, f := range c.flags {
			if f {
				out[i] = 1
			}
		}
		return out, true
	}
}

// Texts returns a copy of every cell's display text
func (c *Column) Texts() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Text(i)
	}
	return out
}

// Value returns the cell as a typed Go value (float64, string or bool), for exporters
func (c *Column) Value(i int) interface{} {
	switch c.Kind {
	case KindNumeric:
		return c.numbers[i]
	case KindCategorical:
		return c.texts[i]
	default:
		return c.flags[i]
	}
}

// MissingCount counts missing cells. Numeric NaN is the only missing marker that can
// survive construction, so on a loaded dataset this is always zero.
func (c *Column) MissingCount() int {
	if c.Kind != KindNumeric {
		return 0
	}
	n := 0
	for _, v := range c.numbers {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// FormatNumber renders a number for display and CSV export
func FormatNumber(v float64, dtype string) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if dtype == DTypeFloat64 && !math.IsInf(v, 0) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Dataset is the read-only table every panel reads from
type Dataset struct {
	Name     string
	Source   string
	LoadedAt time.Time

	columns []*Column
	index   map[string]int
	rows    int
}

// New assembles a Dataset, checking that column names are unique and lengths agree
func New(name, source string, columns []*Column) (*Dataset, error) {
	ds := &Dataset{
		Name:     name,
		Source:   source,
		LoadedAt: time.Now().UTC(),
		columns:  columns,
		index:    make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, dup := ds.index[col.Name]; dup {
			return nil, errors.InvalidInput("duplicate column name " + strconv.Quote(col.Name))
		}
		ds.index[col.Name] = i
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, errors.InvalidInput("column " + strconv.Quote(col.Name) + " has " +
				strconv.Itoa(col.Len()) + " rows, expected " + strconv.Itoa(ds.rows))
		}
	}
	return ds, nil
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int { return d.rows }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// Columns returns the columns in file order
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in file order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether the dataset has a column with this name
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks a column up by name
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, errors.NotFound("column " + strconv.Quote(name))
	}
	return d.columns[i], nil
}

// NamesOfKind returns the names of all columns of the given kind, in file order
func (d *Dataset) NamesOfKind(kind ColumnKind) []string {
	var names []string
	for _, col := range d.columns {
		if col.Kind == kind {
			names = append(names, col.Name)
		}
	}
	return names
}

// NumericColumns returns the numeric column names
func (d *Dataset) NumericColumns() []string { return d.NamesOfKind(KindNumeric) }

// CategoricalColumns returns the categorical column names
func (d *Dataset) CategoricalColumns() []string { return d.NamesOfKind(KindCategorical) }

// Row returns the display text of row i across the given columns
func (d *Dataset) Row(i int, columns []*Column) []string {
	out := make([]string, len(columns))
	for j, col := range columns {
		out[j] = col.Text(i)
	}
	return out
}

// Records returns the header followed by every row, all columns in file order
func (d *Dataset) Records() [][]string {
	records := make([][]string, 0, d.rows+1)
	records = append(records, d.ColumnNames())
	for i := 0; i < d.rows; i++ {
		records = append(records, d.Row(i, d.columns))
	}
	return records
}

// FilledCells totals the cells replaced during cleaning
func (d *Dataset) FilledCells() int {
	n := 0
	for _, col := range d.columns {
		n += col.FilledAtLoad
	}
	return n
}
