package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mdtangle/internal/manifest"
	"mdtangle/internal/tangle"
	"mdtangle/internal/watch"
)

func newBuildCmd(opts *options) *cobra.Command {
	var (
		manifestPath string
		force        bool
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Tangle every target of a manifest",
		Long: `Build reads a manifest such as

    scanner: fenced
    targets:
      - input: docs/program.md
        output: program.py
      - input: docs/program.md
        output: test_program.py
        root: Tests

and tangles all targets concurrently. Targets whose input is unchanged since
their last successful run are skipped unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := manifest.Load(manifestPath, opts.cfg.RootChunk)
			if err != nil {
				return err
			}

			db, err := openCatalog(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			pipeline, err := newPipeline(db, scannerFor(opts, m))
			if err != nil {
				return err
			}

			results, err := pipeline.RunAll(ctx, m.TangleTargets(force), workers)
			summary := tangle.Summarize(results)
			_, _ = fmt.Fprintf(opts.stdout, "%d written, %d skipped, %d failed (%d bytes)\n",
				summary.Written, summary.Skipped, summary.Failed, summary.Bytes)
			return err
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "file", "f", manifest.DefaultFile, "Manifest file")
	cmd.Flags().BoolVar(&force, "force", false, "Tangle all targets even if unchanged")
	cmd.Flags().IntVar(&workers, "workers", 4, "Number of targets tangled concurrently")

	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-tangle manifest targets whenever their input changes",
		Long: `Watch builds every target once, then watches the input documents and
re-tangles the affected targets after each change. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := manifest.Load(manifestPath, opts.cfg.RootChunk)
			if err != nil {
				return err
			}

			db, err := openCatalog(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			pipeline, err := newPipeline(db, scannerFor(opts, m))
			if err != nil {
				return err
			}

			// Initial build; failures are logged and fixed by the next edit.
			_, _ = pipeline.RunAll(ctx, m.TangleTargets(false), 4)

			w, err := watch.New(pipeline, m.TangleTargets(true), opts.cfg.WatchDebounce)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			_, _ = fmt.Fprintf(opts.stdout, "watching %d documents, press Ctrl-C to stop\n", len(m.Inputs()))
			<-w.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "file", "f", manifest.DefaultFile, "Manifest file")

	return cmd
}

// scannerFor picks the scanner: the --scanner flag wins over the manifest, which wins over the environment.
func scannerFor(opts *options, m *manifest.Manifest) string {
	if opts.scanner == "" && m.Scanner != "" {
		return m.Scanner
	}
	return opts.cfg.Scanner
}
