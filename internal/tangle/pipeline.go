package tangle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"mdtangle/internal/chunk"
	"mdtangle/internal/contextutil"
	"mdtangle/internal/document"
	"mdtangle/internal/storage"
)

// Pipeline tangles documents into output files and records every run in the catalog.
type Pipeline struct {
	source    Source
	sink      Sink
	documents storage.DocumentStore
	chunks    storage.ChunkStore
	runs      storage.RunStore
	scanner   chunk.Scanner
}

// NewPipeline creates a new tangle pipeline.
// documents, chunks and runs may all be nil to tangle without a catalog: nothing is recorded
// and no target is ever skipped.
func NewPipeline(
	source Source,
	sink Sink,
	documents storage.DocumentStore,
	chunks storage.ChunkStore,
	runs storage.RunStore,
	scanner chunk.Scanner,
) *Pipeline {
	if scanner == nil {
		scanner = chunk.NewRegexScanner()
	}
	return &Pipeline{
		source:    source,
		sink:      sink,
		documents: documents,
		chunks:    chunks,
		runs:      runs,
		scanner:   scanner,
	}
}

// Run tangles a single target.
// It skips work when the input is unchanged since the last successful run for the same root and
// output and the output file still exists, unless target.Force is set.
// Chunk errors are returned wrapped, so errors.Is and errors.As see the original error.
func (p *Pipeline) Run(ctx context.Context, target Target) (*Result, error) {
	if target.Root == "" {
		target.Root = chunk.DefaultRoot
	}
	result := &Result{Target: target}
	logger := contextutil.LoggerFromContext(ctx).With("input", target.Input, "output", target.Output, "root", target.Root)

	doc, err := p.source.Read(ctx, target.Input)
	if err != nil {
		return p.fail(result, err)
	}

	if !p.cataloged() {
		return p.runUncataloged(ctx, logger, doc, result)
	}

	record := &storage.DocumentRecord{Path: doc.Path, Hash: doc.Hash}
	if err := p.documents.Upsert(ctx, record); err != nil {
		return p.fail(result, fmt.Errorf("failed to upsert document: %w", err))
	}

	if !target.Force {
		last, err := p.runs.LastSuccessful(ctx, record.ID, target.Root, target.Output)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return p.fail(result, fmt.Errorf("failed to check last run: %w", err))
		}
		if last != nil && last.InputHash == doc.Hash && p.sink.Exists(target.Output) {
			logger.DebugContext(ctx, "skipping unchanged document", "hash", doc.Hash)
			result.Skipped = true
			return result, nil
		}
	}

	text, err := p.tangle(ctx, record.ID, doc, target.Root, result)
	if err == nil {
		err = p.sink.Write(ctx, target.Output, text)
	}

	run := &storage.RunRecord{
		DocumentID: record.ID,
		RootChunk:  target.Root,
		OutputPath: target.Output,
		InputHash:  doc.Hash,
		Status:     storage.RunStatusOK,
	}
	if err != nil {
		run.Status = storage.RunStatusFailed
		run.ErrorKind = errorKind(err)
		run.Error = err.Error()
	} else {
		run.OutputHash = document.Hash([]byte(text))
	}

	if insertErr := p.runs.Insert(ctx, run); insertErr != nil {
		logger.WarnContext(ctx, "failed to record run", "error", insertErr)
	} else {
		result.RunID = run.ID
	}

	if err != nil {
		logger.ErrorContext(ctx, "tangle failed", "error", err, "kind", run.ErrorKind)
		return p.fail(result, fmt.Errorf("failed to tangle %s: %w", target.Input, err))
	}

	result.Bytes = len(text)
	logger.InfoContext(ctx, "tangled document", "chunks", result.Chunks, "bytes", result.Bytes)
	return result, nil
}

// runUncataloged tangles doc straight from source to sink.
func (p *Pipeline) runUncataloged(ctx context.Context, logger *slog.Logger, doc *document.Document, result *Result) (*Result, error) {
	target := result.Target

	text, err := p.tangle(ctx, "", doc, target.Root, result)
	if err == nil {
		err = p.sink.Write(ctx, target.Output, text)
	}
	if err != nil {
		logger.ErrorContext(ctx, "tangle failed", "error", err, "kind", errorKind(err))
		return p.fail(result, fmt.Errorf("failed to tangle %s: %w", target.Input, err))
	}

	result.Bytes = len(text)
	logger.InfoContext(ctx, "tangled document without catalog", "chunks", result.Chunks, "bytes", result.Bytes)
	return result, nil
}

// cataloged reports whether the pipeline records documents, chunks and runs.
func (p *Pipeline) cataloged() bool {
	return p.documents != nil && p.chunks != nil && p.runs != nil
}

// tangle extracts the chunks of doc, refreshes the chunk catalog and assembles root.
func (p *Pipeline) tangle(ctx context.Context, documentID string, doc *document.Document, root string, result *Result) (string, error) {
	chunks, err := p.extract(ctx, documentID, doc)
	if err != nil {
		return "", err
	}
	result.Chunks = len(chunks)

	logger := contextutil.LoggerFromContext(ctx)
	return chunk.Assemble(chunks, root, chunk.WithObserver(chunk.ObserverFunc(func(name string) {
		logger.DebugContext(ctx, "expanding chunk", "chunk", name)
	})))
}

// extract scans doc, builds its chunk map and replaces the document's chunk catalog when there is one.
func (p *Pipeline) extract(ctx context.Context, documentID string, doc *document.Document) (chunk.Map, error) {
	blocks, err := p.scanner.Scan(doc.Content)
	if err != nil {
		return nil, err
	}

	chunks, err := chunk.Build(blocks)
	if err != nil {
		return nil, err
	}

	if !p.cataloged() {
		return chunks, nil
	}
	if err := p.chunks.ReplaceForDocument(ctx, documentID, catalog(blocks, chunks)); err != nil {
		return nil, fmt.Errorf("failed to replace chunk catalog: %w", err)
	}
	return chunks, nil
}

// Catalog records the chunks of the document at path without assembling anything.
// It returns the number of chunks found.
func (p *Pipeline) Catalog(ctx context.Context, path string) (int, error) {
	if !p.cataloged() {
		return 0, ErrNoCatalog
	}

	doc, err := p.source.Read(ctx, path)
	if err != nil {
		return 0, err
	}

	record := &storage.DocumentRecord{Path: doc.Path, Hash: doc.Hash}
	if err := p.documents.Upsert(ctx, record); err != nil {
		return 0, fmt.Errorf("failed to upsert document: %w", err)
	}

	chunks, err := p.extract(ctx, record.ID, doc)
	if err != nil {
		return 0, fmt.Errorf("failed to catalog %s: %w", path, err)
	}
	return len(chunks), nil
}

// CatalogDir catalogs every markdown document under root.
// Errors for individual documents are logged but don't stop the scan.
func (p *Pipeline) CatalogDir(ctx context.Context, root string) (*Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	paths, err := document.Scan(ctx, root)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "starting catalog", "root", root, "documents", len(paths))

	summary := &Summary{}
	for _, relPath := range paths {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		summary.Targets++
		n, err := p.Catalog(ctx, filepath.Join(root, filepath.FromSlash(relPath)))
		if err != nil {
			summary.Failed++
			logger.ErrorContext(ctx, "failed to catalog document", "rel_path", relPath, "error", err)
			continue
		}
		summary.Written++
		summary.Chunks += n
	}

	logger.InfoContext(ctx, "catalog completed", "documents", summary.Targets, "chunks", summary.Chunks, "errors", summary.Failed)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("catalog completed with %d errors", summary.Failed)
	}
	return summary, nil
}

func (p *Pipeline) fail(result *Result, err error) (*Result, error) {
	result.Err = err
	return result, err
}

// catalog lists chunks in the order of their first definition block.
func catalog(blocks []chunk.Block, chunks chunk.Map) []*storage.ChunkRecord {
	records := make([]*storage.ChunkRecord, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))

	for _, b := range blocks {
		name := strings.TrimSpace(b.Name)
		if seen[name] {
			continue
		}
		seen[name] = true

		c := chunks[name]
		records = append(records, &storage.ChunkRecord{
			Name:      c.Name,
			Lang:      c.Lang,
			PartCount: len(c.Parts),
			Position:  len(records),
		})
	}
	return records
}

func errorKind(err error) string {
	if kind := chunk.Kind(err); kind != "" {
		return kind
	}
	return ErrorKindIO
}

// RunAll runs targets concurrently with at most workers in flight.
// Targets are independent: a failing target does not cancel the others.
// Results are returned in target order together with the first error encountered.
func (p *Pipeline) RunAll(ctx context.Context, targets []Target, workers int) ([]*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(targets))
	var g errgroup.Group
	g.SetLimit(workers)

	logger.InfoContext(ctx, "starting build", "targets", len(targets), "workers", workers)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = &Result{Target: target, Err: err}
				return err
			}

			targetCtx := contextutil.WithLogger(ctx, logger.With(slog.Int("target", i)))
			result, err := p.Run(targetCtx, target)
			results[i] = result
			return err
		})
	}

	err := g.Wait()
	summary := Summarize(results)
	logger.InfoContext(ctx, "build completed",
		"written", summary.Written, "skipped", summary.Skipped, "failed", summary.Failed, "bytes", summary.Bytes)

	return results, err
}
