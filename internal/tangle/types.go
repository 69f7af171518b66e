package tangle

import (
	"context"
	"errors"

	"mdtangle/internal/document"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks mdtangle/internal/tangle Source
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_sink.go -package=mocks mdtangle/internal/tangle Sink

// Source loads literate documents.
type Source interface {
	Read(ctx context.Context, path string) (*document.Document, error)
}

// Sink stores tangled output.
type Sink interface {
	Write(ctx context.Context, path string, text string) error
	Exists(path string) bool
}

// Target is one document tangled into one output file.
type Target struct {
	Input  string // Literate document path
	Output string // Output file path
	Root   string // Entry chunk; empty means chunk.DefaultRoot
	Force  bool   // Tangle even if the input is unchanged since the last successful run
}

// Result describes the outcome of running one target.
type Result struct {
	Target  Target
	RunID   string // Catalog run ID, empty when skipped or when no run could be recorded
	Skipped bool   // Input unchanged and output present, nothing written
	Bytes   int    // Size of the written output
	Chunks  int    // Number of chunks extracted from the document
	Err     error  // Failure of this target, nil on success
}

// ErrorKindIO marks a failed run whose error did not come from chunk extraction or resolution.
const ErrorKindIO = "io"

// ErrNoCatalog is returned by catalog operations on a pipeline built without stores.
var ErrNoCatalog = errors.New("no chunk catalog configured")
