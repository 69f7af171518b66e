package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mdtangle/internal/chunk"
	"mdtangle/internal/document"
	"mdtangle/internal/storage"
	"mdtangle/internal/tangle"
)

// openCatalog opens and migrates the run catalog, creating its directory if needed.
func openCatalog(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := storage.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Database initialized", "path", dbPath)

	return db, nil
}

// newPipeline wires a tangle pipeline over the local filesystem and the run catalog.
// A nil db gives a pipeline that tangles without recording anything.
func newPipeline(db *sql.DB, scannerName string) (*tangle.Pipeline, error) {
	scanner, err := chunk.ScannerByName(scannerName)
	if err != nil {
		return nil, err
	}

	if db == nil {
		return tangle.NewPipeline(document.NewFileSource(), document.NewFileSink(), nil, nil, nil, scanner), nil
	}

	return tangle.NewPipeline(
		document.NewFileSource(),
		document.NewFileSink(),
		storage.NewDocumentRepo(db),
		storage.NewChunkRepo(db),
		storage.NewRunRepo(db),
		scanner,
	), nil
}
