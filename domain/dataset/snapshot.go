package dataset

import (
	"time"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/core"
)

// ColumnMeta describes a column without its values
type ColumnMeta struct {
	Name         string     `json:"name"`
	Kind         ColumnKind `json:"kind"`
	DType        string     `json:"dtype"`
	FilledAtLoad int        `json:"filled_at_load"`
}

// Snapshot records one successful load of a dataset
type Snapshot struct {
	ID          core.SnapshotID `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Source      string          `json:"source" db:"source"`
	RowCount    int             `json:"row_count" db:"row_count"`
	ColumnCount int             `json:"column_count" db:"column_count"`
	FilledCells int             `json:"filled_cells" db:"filled_cells"`
	Checksum    core.Hash       `json:"checksum" db:"checksum"`
	Columns     []ColumnMeta    `json:"columns" db:"-"`
	LoadedAt    time.Time       `json:"loaded_at" db:"loaded_at"`
}

// Describe returns the column metadata of ds
func (d *Dataset) Describe() []ColumnMeta {
	metas := make([]ColumnMeta, len(d.columns))
	for i, col := range d.columns {
		metas[i] = ColumnMeta{Name: col.Name, Kind: col.Kind, DType: col.DType, FilledAtLoad: col.FilledAtLoad}
	}
	return metas
}

// NewSnapshot captures ds under a fresh ID; checksum is the hash of its CSV export
func NewSnapshot(ds *Dataset, checksum core.Hash) *Snapshot {
	return &Snapshot{
		ID:          core.NewSnapshotID(),
		Name:        ds.Name,
		Source:      ds.Source,
		RowCount:    ds.RowCount(),
		ColumnCount: ds.ColumnCount(),
		FilledCells: ds.FilledCells(),
		Checksum:    checksum,
		Columns:     ds.Describe(),
		LoadedAt:    ds.LoadedAt,
	}
}
