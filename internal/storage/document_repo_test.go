package storage

import (
	"context"
	"testing"
)

func TestDocumentRepo_GetByPath_NotFound(t *testing.T) {
	repo := NewDocumentRepo(setupTestDB(t))

	doc, err := repo.GetByPath(context.Background(), "missing.md")
	if err != ErrNotFound {
		t.Errorf("GetByPath() error = %v, want ErrNotFound", err)
	}
	if doc != nil {
		t.Errorf("GetByPath() = %+v, want nil", doc)
	}
}

func TestDocumentRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepo(setupTestDB(t))

	doc := &DocumentRecord{Path: "docs/program.md", Hash: "hash-1"}
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatal("Upsert() should assign an ID to new documents")
	}

	again := &DocumentRecord{Path: "docs/program.md", Hash: "hash-2"}
	if err := repo.Upsert(ctx, again); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	if again.ID != doc.ID {
		t.Errorf("Upsert() ID = %q, want preserved %q", again.ID, doc.ID)
	}

	got, err := repo.GetByPath(ctx, "docs/program.md")
	if err != nil {
		t.Fatalf("GetByPath() error = %v", err)
	}
	if got.Hash != "hash-2" {
		t.Errorf("GetByPath() hash = %q, want hash-2", got.Hash)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("GetByPath() UpdatedAt should be set")
	}
}
