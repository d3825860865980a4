package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/postgres"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/tabular"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/config"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/migration"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/ports"
)

// migrate brings the snapshot schema up to date and imports every CSV/xlsx file under
// the given paths as a snapshot, so DATA_SOURCE=postgres has something to serve.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [data_file_or_dir...]")
	}

	databaseURL := os.Args[1]
	paths := os.Args[2:]
	ctx := context.Background()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := migration.NewRunner()
	if config.LoadDatabase().ResetOnBoot {
		if err := migrator.Reset(ctx, db); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
	}
	if err := migrator.Run(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Schema %s ready", migrator.Version())

	files, err := findDataFiles(paths)
	if err != nil {
		log.Fatalf("Failed to find data files: %v", err)
	}
	log.Printf("Found %d data files to import", len(files))

	repo := postgres.NewSnapshotRepository(db)
	imported, skipped := 0, 0
	for _, file := range files {
		if err := importFile(ctx, repo, file); err != nil {
			log.Printf("Skipping %s: %v", file, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

// importFile loads one file through the dashboard's loader and stores it as a snapshot
func importFile(ctx context.Context, repo ports.SnapshotRepository, file string) error {
	ds, err := tabular.NewDataReader(file).Load(ctx)
	if err != nil {
		return err
	}
	checksum, err := tabular.Checksum(ds)
	if err != nil {
		return err
	}

	snap := dataset.NewSnapshot(ds, checksum)
	if err := repo.Save(ctx, snap, ds); err != nil {
		return err
	}
	log.Printf("Imported %s as snapshot %s (%d rows, %d cells filled)",
		filepath.Base(file), snap.ID, snap.RowCount, snap.FilledCells)
	return nil
}

// findDataFiles expands directories into the CSV and xlsx files beneath them, in
// lexical order. Plain file arguments are kept as given.
func findDataFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && isDataFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func isDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}
