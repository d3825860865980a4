package ports

import (
	"context"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/core"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// DatasetSource produces the dashboard's dataset
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	// String names the source for logs and snapshots
	String() string
}

// SnapshotRepository defines the interface for load snapshot storage
type SnapshotRepository interface {
	// Save stores the snapshot metadata together with every row of ds
	Save(ctx context.Context, snap *dataset.Snapshot, ds *dataset.Dataset) error
	// List returns the newest snapshots first
	List(ctx context.Context, limit int) ([]*dataset.Snapshot, error)
	Get(ctx context.Context, id core.SnapshotID) (*dataset.Snapshot, error)
	Latest(ctx context.Context) (*dataset.Snapshot, error)
	// Records returns the stored header and rows of a snapshot
	Records(ctx context.Context, id core.SnapshotID) ([][]string, error)
}
