package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mdtangle/internal/chunk"
	"mdtangle/internal/document"
	"mdtangle/internal/storage"
	"mdtangle/internal/tangle"
)

func newTangleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tangle <input.md> <output> [<main chunk>]",
		Short: "Tangle one document into one output file",
		Long: `Tangle extracts the chunks of a document, expands the main chunk
("Main Program" unless given) and writes the result to output.
The output is always rewritten. The run is recorded in the catalog when it can be opened.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTangle(cmd.Context(), opts, args)
		},
	}
}

func runTangle(ctx context.Context, opts *options, args []string) error {
	target := tangle.Target{
		Input:  args[0],
		Output: args[1],
		Root:   opts.cfg.RootChunk,
		Force:  true,
	}
	if len(args) == 3 {
		target.Root = args[2]
	}

	// A missing or unwritable catalog only costs the run record.
	db, err := openCatalog(opts.cfg.DBPath)
	if err != nil {
		slog.WarnContext(ctx, "run catalog unavailable, tangling without recording", "path", opts.cfg.DBPath, "error", err)
		db = nil
	} else {
		defer func() {
			_ = db.Close()
		}()
	}

	pipeline, err := newPipeline(db, opts.cfg.Scanner)
	if err != nil {
		return err
	}

	if _, err := pipeline.Run(ctx, target); err != nil {
		// Chunk errors are reported on their own, like "undefined chunk: X".
		if chunk.Kind(err) != "" {
			return unwrapChunkError(err)
		}
		return err
	}
	return nil
}

// unwrapChunkError strips pipeline context from a chunk error.
func unwrapChunkError(err error) error {
	for e := err; e != nil; {
		if chunk.Kind(e) != "" {
			err = e
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return err
}

func newListCmd(opts *options) *cobra.Command {
	var fromCatalog bool

	cmd := &cobra.Command{
		Use:   "list <input.md>",
		Short: "List the chunks of a document",
		Long: `List prints every chunk with its language, number of definition blocks and
the chunks it references, followed by the root chunks nothing else references.

With --catalog the document is not parsed: the chunks recorded by the last
tangle or index of that path are printed in definition order instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromCatalog {
				return listCatalog(cmd.Context(), opts, args[0])
			}

			doc, err := document.NewFileSource().Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			scanner, err := chunk.ScannerByName(opts.cfg.Scanner)
			if err != nil {
				return err
			}

			chunks, err := chunk.ExtractWith(scanner, doc.Content)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHUNK\tLANG\tPARTS\tREFERENCES")
			for _, name := range chunks.Names() {
				c := chunks[name]
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", name, langOrDash(c.Lang), len(c.Parts), strings.Join(chunks.References(name), ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			_, err = fmt.Fprintf(opts.stdout, "\nroots: %s\n", strings.Join(chunks.Roots(), ", "))
			return err
		},
	}

	cmd.Flags().BoolVar(&fromCatalog, "catalog", false, "Print the chunks recorded in the catalog instead of parsing the document")

	return cmd
}

// listCatalog prints the catalog entry of the document recorded under path.
func listCatalog(ctx context.Context, opts *options, path string) error {
	db, err := openCatalog(opts.cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	doc, err := storage.NewDocumentRepo(db).GetByPath(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("document %s is not in the catalog, run tangle or index first", path)
	}
	if err != nil {
		return fmt.Errorf("failed to look up document: %w", err)
	}

	records, err := storage.NewChunkRepo(db).ListByDocument(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	tw := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHUNK\tLANG\tPARTS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Name, langOrDash(r.Lang), r.PartCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(opts.stdout, "\ncataloged: %s (%s)\n", doc.UpdatedAt.Format(time.RFC3339), shortHash(doc.Hash))
	return err
}

func langOrDash(lang string) string {
	if lang == "" {
		return "-"
	}
	return lang
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
