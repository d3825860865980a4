package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/core"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/ports"
)

const snapshotColumns = `id, name, source, row_count, column_count, filled_cells, checksum, columns, loaded_at`

// snapshotRecord is a dataset_snapshots row
type snapshotRecord struct {
	dataset.Snapshot
	ColumnsJSON []byte `db:"columns"`
}

func (r *snapshotRecord) toSnapshot() (*dataset.Snapshot, error) {
	snap := r.Snapshot
	if len(r.ColumnsJSON) > 0 {
		if err := json.Unmarshal(r.ColumnsJSON, &snap.Columns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
		}
	}
	return &snap, nil
}

// snapshotRepository implements the SnapshotRepository interface
type snapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Save inserts the snapshot and its rows in one transaction
func (r *snapshotRepository) Save(ctx context.Context, snap *dataset.Snapshot, ds *dataset.Dataset) error {
	columnsJSON, err := json.Marshal(snap.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return databaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO dataset_snapshots (`+snapshotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		snap.ID, snap.Name, snap.Source, snap.RowCount, snap.ColumnCount, snap.FilledCells,
		snap.Checksum, columnsJSON, snap.LoadedAt,
	)
	if err != nil {
		return databaseError("failed to create snapshot", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO dataset_snapshot_rows (snapshot_id, row_index, cells) VALUES ($1, $2, $3)`)
	if err != nil {
		return databaseError("failed to prepare row insert", err)
	}
	defer stmt.Close()

	columns := ds.Columns()
	for i := 0; i < ds.RowCount(); i++ {
		cells, err := json.Marshal(ds.Row(i, columns))
		if err != nil {
			return fmt.Errorf("failed to marshal row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, i, cells); err != nil {
			return databaseError(fmt.Sprintf("failed to insert row %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return databaseError("failed to commit snapshot", err)
	}
	return nil
}

// List returns up to limit snapshots, newest first
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*dataset.Snapshot, error) {
	var records []snapshotRecord
	query := `SELECT ` + snapshotColumns + ` FROM dataset_snapshots ORDER BY loaded_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, databaseError("failed to list snapshots", err)
	}

	snapshots := make([]*dataset.Snapshot, 0, len(records))
	for i := range records {
		snap, err := records[i].toSnapshot()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Get retrieves a snapshot by its ID
func (r *snapshotRepository) Get(ctx context.Context, id core.SnapshotID) (*dataset.Snapshot, error) {
	return r.getOne(ctx, `SELECT `+snapshotColumns+` FROM dataset_snapshots WHERE id = $1`, "snapshot "+id.String(), id)
}

// Latest retrieves the most recently loaded snapshot
func (r *snapshotRepository) Latest(ctx context.Context) (*dataset.Snapshot, error) {
	return r.getOne(ctx, `SELECT `+snapshotColumns+` FROM dataset_snapshots ORDER BY loaded_at DESC LIMIT 1`, "snapshot")
}

func (r *snapshotRepository) getOne(ctx context.Context, query, resource string, args ...interface{}) (*dataset.Snapshot, error) {
	var record snapshotRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound(resource)
		}
		return nil, databaseError("failed to get snapshot", err)
	}
	return record.toSnapshot()
}

// Records rebuilds the header and rows stored for a snapshot
func (r *snapshotRepository) Records(ctx context.Context, id core.SnapshotID) ([][]string, error) {
	snap, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var rows []string
	query := `SELECT cells FROM dataset_snapshot_rows WHERE snapshot_id = $1 ORDER BY row_index`
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, databaseError("failed to read snapshot rows", err)
	}

	header := make([]string, len(snap.Columns))
	for i, col := range snap.Columns {
		header[i] = col.Name
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for i, raw := range rows {
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row %d: %w", i, err)
		}
		records = append(records, cells)
	}
	return records, nil
}

func databaseError(message string, err error) error {
	return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("%s: %w", message, err))
}
