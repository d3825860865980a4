package postgres

import (
	"context"
	"fmt"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/tabular"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/ports"
)

// SnapshotSource serves the most recent stored snapshot as the dashboard dataset
type SnapshotSource struct {
	repo ports.SnapshotRepository
}

// NewSnapshotSource creates a dataset source backed by stored snapshots
func NewSnapshotSource(repo ports.SnapshotRepository) *SnapshotSource {
	return &SnapshotSource{repo: repo}
}

func (s *SnapshotSource) String() string {
	return "postgres:latest-snapshot"
}

// Load rebuilds the latest snapshot through the same typing and cleaning as a file load
func (s *SnapshotSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	snap, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, errors.DatasetLoad("no snapshot to load", err)
	}

	records, err := s.repo.Records(ctx, snap.ID)
	if err != nil {
		return nil, errors.DatasetLoad(fmt.Sprintf("failed to read snapshot %s", snap.ID), err)
	}
	if len(records) == 0 {
		return nil, errors.DatasetLoad(fmt.Sprintf("snapshot %s has no header", snap.ID), nil)
	}

	raw := &tabular.RawTable{Headers: records[0], Rows: records[1:]}
	ds, err := tabular.FromRaw(snap.Name, snap.Source, raw)
	if err != nil {
		return nil, errors.DatasetLoad(fmt.Sprintf("failed to rebuild snapshot %s", snap.ID), err)
	}

	// stored cells are already clean; the fill counts come from the original load
	for _, meta := range snap.Columns {
		if col, err := ds.Column(meta.Name); err == nil {
			col.FilledAtLoad = meta.FilledAtLoad
		}
	}
	return ds, nil
}
