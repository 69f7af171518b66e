package document

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestFileSource_Read(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "program.md")
	content := []byte("# Program\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	source := NewFileSource()

	doc, err := source.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(doc.Content) != string(content) {
		t.Errorf("Read() content = %q, want %q", doc.Content, content)
	}
	if doc.Hash != Hash(content) || len(doc.Hash) != 64 {
		t.Errorf("Read() hash = %q", doc.Hash)
	}

	if _, err := source.Read(context.Background(), filepath.Join(tmpDir, "missing.md")); err == nil {
		t.Error("Read() expected error for missing file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := source.Read(ctx, path); err == nil {
		t.Error("Read() expected error for cancelled context")
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("Hash() should differ for different content")
	}
	if Hash([]byte("same")) != Hash([]byte("same")) {
		t.Error("Hash() should be stable")
	}
}

func TestScan(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		"README.md",
		"book/chapter1.md",
		"book/notes.MARKDOWN",
		"book/image.png",
		".git/HEAD.md",
		"src/main.go",
	}
	for _, f := range files {
		path := filepath.Join(tmpDir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	got, err := Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	sort.Strings(got)

	want := []string{"README.md", "book/chapter1.md", "book/notes.MARKDOWN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	if _, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Scan() expected error for missing root")
	}
}

func TestFileSink_Write(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out", "nested", "main.py")
	sink := NewFileSink()

	if sink.Exists(path) {
		t.Fatal("Exists() = true before write")
	}

	if err := sink.Write(context.Background(), path, "print(\"hi\")"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := sink.Write(context.Background(), path, "print(\"bye\")"); err != nil {
		t.Fatalf("Write() overwrite error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "print(\"bye\")" {
		t.Errorf("Write() content = %q", got)
	}
	if !sink.Exists(path) {
		t.Error("Exists() = false after write")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Write() left %d files in output dir, want 1", len(entries))
	}
}
