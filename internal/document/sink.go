package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes tangled output to the local filesystem.
type FileSink struct{}

// NewFileSink creates a new FileSink.
func NewFileSink() *FileSink {
	return &FileSink{}
}

// Write replaces the file at path with text.
// Parent directories are created as needed, and the file is written to a temporary
// sibling first so readers never see a partially written output.
func (s *FileSink) Write(ctx context.Context, path string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write output %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

// Exists reports whether path exists as a regular file.
func (s *FileSink) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
