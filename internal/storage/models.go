package storage

import "time"

// Run statuses.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// DocumentRecord represents a literate source document in the database.
type DocumentRecord struct {
	ID        string // UUID
	Path      string // Absolute or caller-relative path, unique
	Hash      string // SHA256 hex string of file content
	UpdatedAt time.Time
}

// ChunkRecord represents one chunk of a document as catalogued at its last extraction.
type ChunkRecord struct {
	ID         string // UUID
	DocumentID string // Foreign key to documents.id
	Name       string // Chunk name
	Lang       string // Language label of the first definition
	PartCount  int    // Number of definition blocks
	Position   int    // Order of first definition in the document (starts at 0)
}

// RunRecord represents one tangle attempt of a document into an output.
type RunRecord struct {
	ID         string // UUID
	DocumentID string // Foreign key to documents.id
	RootChunk  string
	OutputPath string
	InputHash  string // Document hash the run was tangled from
	Status     string // RunStatusOK or RunStatusFailed
	ErrorKind  string // chunk.Kind of the failure, empty on success
	Error      string // Error message, empty on success
	OutputHash string // SHA256 hex string of the written output
	CreatedAt  time.Time
}
