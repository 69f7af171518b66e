package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks mdtangle/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// GetByPath gets a document by its path.
	// Returns nil and ErrNotFound if not found.
	GetByPath(ctx context.Context, path string) (*DocumentRecord, error)
	// Upsert inserts a new document or updates the hash of an existing one.
	Upsert(ctx context.Context, doc *DocumentRecord) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// GetByPath gets a document by its path.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByPath(ctx context.Context, path string) (*DocumentRecord, error) {
	var doc DocumentRecord

	err := r.db.QueryRowContext(ctx,
		"SELECT id, path, hash, updated_at FROM documents WHERE path = ?",
		path,
	).Scan(&doc.ID, &doc.Path, &doc.Hash, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// Upsert inserts a new document or updates an existing one.
// If the document doesn't exist (by path), a new UUID is used.
// If it exists, hash and updated_at are updated and doc.ID is set to the stored ID,
// so concurrent upserts of one path always agree on the ID.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	id := doc.ID
	if id == "" {
		id = uuid.New().String()
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO documents (id, path, hash, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (path) DO UPDATE SET
		 hash = excluded.hash, updated_at = CURRENT_TIMESTAMP
		 RETURNING id`,
		id, doc.Path, doc.Hash,
	).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}
