package storage

import (
	"context"
	"testing"
)

func TestNewChunkRepo(t *testing.T) {
	repo := NewChunkRepo(setupTestDB(t))
	if repo == nil {
		t.Fatal("NewChunkRepo() returned nil")
	}
}

func TestChunkRepo_ReplaceForDocument(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	doc := &DocumentRecord{Path: "program.md", Hash: "hash"}
	if err := NewDocumentRepo(db).Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	repo := NewChunkRepo(db)

	first := []*ChunkRecord{
		{Name: "Main Program", Lang: "python", PartCount: 1, Position: 0},
		{Name: "Greeting", Lang: "python", PartCount: 2, Position: 1},
	}
	if err := repo.ReplaceForDocument(ctx, doc.ID, first); err != nil {
		t.Fatalf("ReplaceForDocument() error = %v", err)
	}
	for _, c := range first {
		if c.ID == "" || c.DocumentID != doc.ID {
			t.Errorf("ReplaceForDocument() record = %+v, want ID and DocumentID set", c)
		}
	}

	second := []*ChunkRecord{
		{Name: "Main Program", Lang: "", PartCount: 3, Position: 0},
	}
	if err := repo.ReplaceForDocument(ctx, doc.ID, second); err != nil {
		t.Fatalf("ReplaceForDocument() second call error = %v", err)
	}

	got, err := repo.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListByDocument() len = %d, want 1", len(got))
	}
	if got[0].Name != "Main Program" || got[0].PartCount != 3 {
		t.Errorf("ListByDocument() = %+v", got[0])
	}
}

func TestChunkRepo_ReplaceForDocument_DuplicateNameRollsBack(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	doc := &DocumentRecord{Path: "program.md", Hash: "hash"}
	if err := NewDocumentRepo(db).Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	repo := NewChunkRepo(db)
	if err := repo.ReplaceForDocument(ctx, doc.ID, []*ChunkRecord{{Name: "Keep", PartCount: 1}}); err != nil {
		t.Fatalf("ReplaceForDocument() error = %v", err)
	}

	dup := []*ChunkRecord{
		{Name: "A", PartCount: 1, Position: 0},
		{Name: "A", PartCount: 1, Position: 1},
	}
	if err := repo.ReplaceForDocument(ctx, doc.ID, dup); err == nil {
		t.Fatal("ReplaceForDocument() expected error for duplicate names")
	}

	got, err := repo.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Keep" {
		t.Errorf("ListByDocument() after failed replace = %+v, want previous catalog", got)
	}
}

func TestChunkRepo_ReplaceForDocument_UnknownDocument(t *testing.T) {
	repo := NewChunkRepo(setupTestDB(t))

	err := repo.ReplaceForDocument(context.Background(), "non-existent-id", []*ChunkRecord{{Name: "A", PartCount: 1}})
	if err == nil {
		t.Error("ReplaceForDocument() expected foreign key error for unknown document")
	}
}

func TestChunkRepo_ListByDocument_Empty(t *testing.T) {
	repo := NewChunkRepo(setupTestDB(t))

	got, err := repo.ListByDocument(context.Background(), "non-existent-id")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListByDocument() = %v, want empty slice", got)
	}
}
