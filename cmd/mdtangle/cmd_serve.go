package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"

	"mdtangle/internal/chunk"
	"mdtangle/internal/http"
	"mdtangle/internal/service"
	"mdtangle/internal/storage"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tangle HTTP API",
		Long: `Serve exposes tangling over HTTP on API_PORT:

  POST /api/tangle   {"document": "...", "root": "..."}
  POST /api/chunks   {"document": "..."}
  GET  /api/runs?limit=20
  GET  /api/health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg

			db, err := openCatalog(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			scanner, err := chunk.ScannerByName(cfg.Scanner)
			if err != nil {
				return err
			}

			tangleService := service.NewTangleService(scanner, cfg.RootChunk, storage.NewRunRepo(db))
			router := http.NewRouter(&http.Deps{
				TangleService: tangleService,
				DB:            db,
			})

			srv := &nethttp.Server{
				Addr:              ":" + cfg.APIPort,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting API server", "addr", srv.Addr, "scanner", cfg.Scanner)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, nethttp.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				slog.Info("Shutting down API server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
