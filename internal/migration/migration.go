package migration

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Reset(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Tables lists the schema's tables in reverse dependency order
var Tables = []string{
	"dataset_snapshot_rows",
	"dataset_snapshots",
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSnapshotsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create dataset_snapshots table")
	}

	if err := r.createSnapshotRowsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create dataset_snapshot_rows table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

// Reset drops every table so Run starts from an empty schema
func (r *MigrationRunner) Reset(ctx context.Context, db *sqlx.DB) error {
	log.Println("[Migration] Resetting database - dropping all tables")

	for _, table := range Tables {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return errors.Wrapf(err, "failed to drop table %s", table)
		}
	}
	return nil
}

func (r *MigrationRunner) createSnapshotsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dataset_snapshots (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL,
			filled_cells INTEGER NOT NULL DEFAULT 0,
			checksum VARCHAR(64) NOT NULL,
			columns JSONB NOT NULL DEFAULT '[]',
			loaded_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createSnapshotRowsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dataset_snapshot_rows (
			snapshot_id UUID NOT NULL REFERENCES dataset_snapshots(id) ON DELETE CASCADE,
			row_index INTEGER NOT NULL,
			cells JSONB NOT NULL,
			PRIMARY KEY (snapshot_id, row_index)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_snapshots_loaded_at ON dataset_snapshots(loaded_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_snapshots_checksum ON dataset_snapshots(checksum)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			log.Printf("[Migration] Warning: failed to create index: %v", err)
		}
	}

	return nil
}
