package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks mdtangle/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ChunkStore defines the interface for chunk catalog operations.
type ChunkStore interface {
	// ReplaceForDocument replaces all chunks of a document with chunks in one transaction.
	// Records without an ID get a new UUID.
	ReplaceForDocument(ctx context.Context, documentID string, chunks []*ChunkRecord) error
	// ListByDocument returns all chunks of a document, ordered by position.
	ListByDocument(ctx context.Context, documentID string) ([]*ChunkRecord, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// ReplaceForDocument deletes the previous chunks of a document and inserts chunks.
// Used on every extraction so the catalog always reflects the latest document content.
func (r *ChunkRepo) ReplaceForDocument(ctx context.Context, documentID string, chunks []*ChunkRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete chunks by document: %w", err)
	}

	for _, c := range chunks {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.DocumentID = documentID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO chunks (id, document_id, name, lang, part_count, position) VALUES (?, ?, ?, ?, ?, ?)",
			c.ID, c.DocumentID, c.Name, c.Lang, c.PartCount, c.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// ListByDocument returns all chunks of a document, ordered by position.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListByDocument(ctx context.Context, documentID string) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, document_id, name, lang, part_count, position FROM chunks WHERE document_id = ? ORDER BY position",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	chunks := []*ChunkRecord{}
	for rows.Next() {
		var c ChunkRecord
		var lang sql.NullString
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Name, &lang, &c.PartCount, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Lang = lang.String
		chunks = append(chunks, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}
