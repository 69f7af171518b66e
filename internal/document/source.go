package document

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is a literate source file read from disk.
type Document struct {
	Path    string // Path as given by the caller
	Content []byte // Raw file content
	Hash    string // SHA256 hex string of Content
}

// FileSource reads documents from the local filesystem.
type FileSource struct{}

// NewFileSource creates a new FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Read loads the document at path and computes its content hash.
func (s *FileSource) Read(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	return &Document{
		Path:    path,
		Content: content,
		Hash:    Hash(content),
	}, nil
}

// Hash returns the SHA256 hex string of content.
func Hash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// Scan walks root and returns the relative paths of all markdown files, using forward slashes.
// Hidden directories (such as .git) are skipped.
func Scan(ctx context.Context, root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if ext := strings.ToLower(filepath.Ext(path)); ext != ".md" && ext != ".markdown" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		paths = append(paths, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return paths, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return paths, nil
}
