package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_history.go -package=mocks mdtangle/internal/service RunHistory
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_tangle_service.go -package=mocks -mock_names=TangleService=MockTangleService mdtangle/internal/service TangleService

import (
	"context"
	"fmt"
	"strings"

	"mdtangle/internal/chunk"
	"mdtangle/internal/contextutil"
	"mdtangle/internal/storage"
)

// MaxRunsLimit caps the number of runs returned by ListRuns.
const MaxRunsLimit = 100

// RunHistory reads the tangle run catalog.
// This interface is defined from the service layer's perspective (consumer-first).
type RunHistory interface {
	ListRecent(ctx context.Context, limit int) ([]*storage.RunRecord, error)
}

// TangleRequest asks for one chunk of a literate document to be assembled.
type TangleRequest struct {
	Document string
	Root     string // Empty means the configured root chunk
}

// TangleResponse carries the assembled program text.
type TangleResponse struct {
	Root   string
	Output string
}

// ChunkInfo describes one chunk of a document.
type ChunkInfo struct {
	Name       string
	Lang       string
	Parts      int
	References []string
}

// ChunkListing describes all chunks of a document.
type ChunkListing struct {
	Chunks []ChunkInfo
	Roots  []string
}

// TangleService tangles documents held in memory.
type TangleService interface {
	// Tangle extracts the chunks of a document and assembles the requested root.
	Tangle(ctx context.Context, req TangleRequest) (TangleResponse, error)
	// ListChunks extracts the chunks of a document without resolving references.
	ListChunks(ctx context.Context, document string) (ChunkListing, error)
	// ListRuns returns recent runs from the catalog, newest first.
	ListRuns(ctx context.Context, limit int) ([]*storage.RunRecord, error)
}

// tangleService implements TangleService.
type tangleService struct {
	scanner     chunk.Scanner
	defaultRoot string
	runs        RunHistory
}

// NewTangleService creates a new TangleService.
// runs may be nil, in which case ListRuns reports a storage error.
func NewTangleService(scanner chunk.Scanner, defaultRoot string, runs RunHistory) TangleService {
	if scanner == nil {
		scanner = chunk.NewRegexScanner()
	}
	if defaultRoot == "" {
		defaultRoot = chunk.DefaultRoot
	}
	return &tangleService{
		scanner:     scanner,
		defaultRoot: defaultRoot,
		runs:        runs,
	}
}

// Tangle extracts the chunks of req.Document and assembles req.Root.
// Chunk errors are returned unwrapped so callers can classify them with chunk.Kind.
func (s *tangleService) Tangle(ctx context.Context, req TangleRequest) (TangleResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Document) == "" {
		logger.WarnContext(ctx, "empty document in tangle request")
		return TangleResponse{}, &ValidationError{
			Field:   "document",
			Message: "cannot be empty",
		}
	}

	root := strings.TrimSpace(req.Root)
	if root == "" {
		root = s.defaultRoot
	}

	chunks, err := chunk.ExtractWith(s.scanner, []byte(req.Document))
	if err != nil {
		logger.InfoContext(ctx, "chunk extraction failed", "error", err, "kind", chunk.Kind(err))
		return TangleResponse{}, err
	}

	output, err := chunk.Assemble(chunks, root)
	if err != nil {
		logger.InfoContext(ctx, "assembly failed", "root", root, "error", err, "kind", chunk.Kind(err))
		return TangleResponse{}, err
	}

	logger.InfoContext(ctx, "tangle request processed successfully",
		"root", root, "chunks", len(chunks), "document_length", len(req.Document), "output_length", len(output))
	return TangleResponse{
		Root:   root,
		Output: output,
	}, nil
}

// ListChunks extracts the chunks of document and reports names, languages, part counts and references.
func (s *tangleService) ListChunks(ctx context.Context, document string) (ChunkListing, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(document) == "" {
		return ChunkListing{}, &ValidationError{
			Field:   "document",
			Message: "cannot be empty",
		}
	}

	chunks, err := chunk.ExtractWith(s.scanner, []byte(document))
	if err != nil {
		logger.InfoContext(ctx, "chunk extraction failed", "error", err, "kind", chunk.Kind(err))
		return ChunkListing{}, err
	}

	names := chunks.Names()
	listing := ChunkListing{
		Chunks: make([]ChunkInfo, 0, len(names)),
		Roots:  chunks.Roots(),
	}
	for _, name := range names {
		c := chunks[name]
		listing.Chunks = append(listing.Chunks, ChunkInfo{
			Name:       c.Name,
			Lang:       c.Lang,
			Parts:      len(c.Parts),
			References: chunks.References(name),
		})
	}

	logger.DebugContext(ctx, "listed chunks", "count", len(listing.Chunks))
	return listing, nil
}

// ListRuns returns up to limit recent runs.
func (s *tangleService) ListRuns(ctx context.Context, limit int) ([]*storage.RunRecord, error) {
	if limit <= 0 || limit > MaxRunsLimit {
		return nil, &ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("must be between 1 and %d", MaxRunsLimit),
		}
	}

	if s.runs == nil {
		return nil, fmt.Errorf("%w: run catalog not configured", ErrStorage)
	}

	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list runs", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return runs, nil
}
