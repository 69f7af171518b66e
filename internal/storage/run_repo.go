package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks mdtangle/internal/storage RunStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// RunStore defines the interface for tangle run history.
type RunStore interface {
	// Insert records a run. The run ID is generated if empty.
	Insert(ctx context.Context, run *RunRecord) error
	// LastSuccessful returns the newest successful run for a document, root and output.
	// Returns nil and ErrNotFound if there is none.
	LastSuccessful(ctx context.Context, documentID, rootChunk, outputPath string) (*RunRecord, error)
	// ListRecent returns up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*RunRecord, error)
}

// RunRepo provides methods for run operations.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

const runColumns = "id, document_id, root_chunk, output_path, input_hash, status, error_kind, error, output_hash, created_at"

// Insert records a run. The run ID is generated if empty.
func (r *RunRepo) Insert(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, document_id, root_chunk, output_path, input_hash, status, error_kind, error, output_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DocumentID, run.RootChunk, run.OutputPath, run.InputHash, run.Status, run.ErrorKind, run.Error, run.OutputHash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// LastSuccessful returns the newest successful run for a document, root and output.
// Returns nil and ErrNotFound if there is none.
func (r *RunRepo) LastSuccessful(ctx context.Context, documentID, rootChunk, outputPath string) (*RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+runColumns+` FROM runs
		 WHERE document_id = ? AND root_chunk = ? AND output_path = ? AND status = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		documentID, rootChunk, outputPath, RunStatusOK,
	)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRecent returns up to limit runs, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := []*RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var run RunRecord
	var errorKind, errorText, outputHash sql.NullString

	err := row.Scan(&run.ID, &run.DocumentID, &run.RootChunk, &run.OutputPath, &run.InputHash, &run.Status,
		&errorKind, &errorText, &outputHash, &run.CreatedAt)
	if err != nil {
		return nil, err
	}

	run.ErrorKind = errorKind.String
	run.Error = errorText.String
	run.OutputHash = outputHash.String
	return &run, nil
}
