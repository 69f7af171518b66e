package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "index [dir]",
		Short: "Record the chunks of every markdown document under a directory",
		Long: `Index walks dir (the current directory by default), extracts the chunks of every
.md document and records them in the catalog without tangling anything.
Hidden directories are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			db, err := openCatalog(opts.cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			pipeline, err := newPipeline(db, opts.cfg.Scanner)
			if err != nil {
				return err
			}

			summary, err := pipeline.CatalogDir(cmd.Context(), root)
			if summary != nil {
				_, _ = fmt.Fprintf(opts.stdout, "%d documents, %d chunks, %d failed\n",
					summary.Targets, summary.Chunks, summary.Failed)
			}
			return err
		},
	}
}
