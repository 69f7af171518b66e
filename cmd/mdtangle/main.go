// Command mdtangle extracts named code chunks from literate markdown documents
// and assembles them into source files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mdtangle/internal/chunk"
	"mdtangle/internal/config"
)

// options holds the global flags and the configuration loaded before each command.
type options struct {
	verbose bool
	scanner string

	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "mdtangle <input.md> <output> [<main chunk>]",
		Short: "Tangle literate markdown documents into source files",
		Long: `mdtangle extracts chunks defined in fenced code blocks, such as

    ` + "```python <<Main Program>>=" + `

and expands <<name>> references recursively to produce a source file.
A block using += appends to a chunk defined earlier.

Run with an input and an output to tangle one document, starting from the
"Main Program" chunk unless another chunk name is given.`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTangle(cmd.Context(), opts, args)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.scanner, "scanner", "",
		fmt.Sprintf("Block scanner: %q or %q (default from TANGLE_SCANNER)", chunk.ScannerFenced, chunk.ScannerMarkdown))

	rootCmd.AddCommand(
		newTangleCmd(opts),
		newListCmd(opts),
		newIndexCmd(opts),
		newBuildCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and installs the default logger.
func (o *options) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if o.scanner != "" {
		if _, err := chunk.ScannerByName(o.scanner); err != nil {
			return err
		}
		cfg.Scanner = o.scanner
	}
	if o.verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	o.cfg = cfg

	// Logs go to stderr so command output on stdout stays clean.
	handlerOpts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(o.stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(o.stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	return nil
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
