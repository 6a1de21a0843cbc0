package vectorstore

import (
	"context"
	"path/filepath"
	"testing"
)

// Writes through one persistent handle are not observed by another
// handle opened on the same path: each handle keeps its own in-memory
// state and only reads the directory at open time. A process must
// therefore route ingest and search through one shared index instance.
func TestPersistentHandlesDoNotShareWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db")

	writer, err := NewChromemIndex(path, "docs")
	if err != nil {
		t.Fatalf("NewChromemIndex: %v", err)
	}
	reader, err := NewChromemIndex(path, "docs")
	if err != nil {
		t.Fatalf("NewChromemIndex: %v", err)
	}

	if err := writer.EnsureCollection(ctx, 3); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	err = writer.Upsert(ctx, []Record{{
		ID:      0,
		Vector:  []float32{1, 0, 0},
		Payload: map[string]string{payloadContentField: "chunk"},
	}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	hits, err := reader.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("second handle sees %d hits from the first handle's write; handles must not be assumed to share state", len(hits))
	}

	// A handle opened after the write does see it.
	late, err := NewChromemIndex(path, "docs")
	if err != nil {
		t.Fatalf("NewChromemIndex: %v", err)
	}
	hits, err = late.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("reloaded handle sees %d hits, want 1", len(hits))
	}
}
