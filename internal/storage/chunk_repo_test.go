package storage

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	"docrag/internal/apperrors"
)

func seedDocument(t *testing.T, repo *DocumentRepo, id, path string) {
	t.Helper()
	if err := repo.Upsert(context.Background(), &Document{ID: id, Path: path}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
}

func TestChunkRepo_Insert(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-1", "a.txt")
	repo := NewChunkRepo(db)

	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: &Chunk{ID: "chunk-1", DocID: "doc-1", ChunkIndex: 0, Text: "Chunk text", Embedding: []float32{0.1, 0.2}, StartChar: 0, EndChar: 10},
		},
		{
			name:    "duplicate ID",
			chunk:   &Chunk{ID: "chunk-1", DocID: "doc-1", ChunkIndex: 1, Text: "Other", Embedding: []float32{0.3}, StartChar: 8, EndChar: 13},
			wantErr: apperrors.ErrStorage,
		},
		{
			name:    "unknown document violates foreign key",
			chunk:   &Chunk{ID: "chunk-2", DocID: "no-such-doc", Text: "x", Embedding: []float32{1}, EndChar: 1},
			wantErr: apperrors.ErrStorage,
		},
		{
			name:    "end before start violates check",
			chunk:   &Chunk{ID: "chunk-3", DocID: "doc-1", Text: "x", Embedding: []float32{1}, StartChar: 5, EndChar: 2},
			wantErr: apperrors.ErrStorage,
		},
		{
			name:    "missing ID",
			chunk:   &Chunk{DocID: "doc-1", Text: "x", Embedding: []float32{1}, EndChar: 1},
			wantErr: apperrors.ErrStorage,
		},
		{
			name:    "NaN cannot be encoded",
			chunk:   &Chunk{ID: "chunk-4", DocID: "doc-1", Text: "x", Embedding: []float32{float32(math.NaN())}, EndChar: 1},
			wantErr: apperrors.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Insert(context.Background(), tt.chunk)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Insert() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Insert() unexpected error: %v", err)
			}
		})
	}
}

func TestChunkRepo_InsertBatch_Atomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-1", "a.txt")
	repo := NewChunkRepo(db)

	batch := []*Chunk{
		{ID: "c1", DocID: "doc-1", ChunkIndex: 0, Text: "a", Embedding: []float32{1}, EndChar: 1},
		{ID: "c2", DocID: "missing", ChunkIndex: 1, Text: "b", Embedding: []float32{1}, EndChar: 1},
	}
	if err := repo.InsertBatch(ctx, batch); !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("InsertBatch() error = %v, want ErrStorage", err)
	}

	stats, err := docs.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Chunks != 0 {
		t.Errorf("failed batch left %d chunks, want 0", stats.Chunks)
	}

	batch[1].DocID = "doc-1"
	if err := repo.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
	if err := repo.InsertBatch(ctx, nil); err != nil {
		t.Errorf("InsertBatch(nil) error = %v", err)
	}

	stats, _ = docs.Stats(ctx)
	if stats.Chunks != 2 {
		t.Errorf("Stats().Chunks = %d, want 2", stats.Chunks)
	}
}

func TestChunkRepo_ListWithPaths(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	docs := NewDocumentRepo(db)
	seedDocument(t, docs, "doc-1", "a.txt")
	seedDocument(t, docs, "doc-2", "dir/b.md")
	repo := NewChunkRepo(db)

	want := map[string]struct {
		path string
		emb  []float32
	}{
		"c1": {"a.txt", []float32{0.1, 0.2, 0.3}},
		"c2": {"a.txt", []float32{1.0 / 3.0, -2.5e-7, 3.4028235e38}},
		"c3": {"dir/b.md", []float32{}},
	}
	inserts := []*Chunk{
		{ID: "c1", DocID: "doc-1", ChunkIndex: 0, Text: "héllo", Embedding: want["c1"].emb, StartChar: 0, EndChar: 5},
		{ID: "c2", DocID: "doc-1", ChunkIndex: 1, Text: "world", Embedding: want["c2"].emb, StartChar: 3, EndChar: 8},
		{ID: "c3", DocID: "doc-2", ChunkIndex: 0, Text: "other", Embedding: want["c3"].emb, StartChar: 0, EndChar: 5},
	}
	for _, c := range inserts {
		if err := repo.Insert(ctx, c); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := repo.ListWithPaths(ctx)
	if err != nil {
		t.Fatalf("ListWithPaths() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListWithPaths() returned %d rows, want 3", len(got))
	}

	for _, item := range got {
		w, ok := want[item.ID]
		if !ok {
			t.Errorf("unexpected chunk %s", item.ID)
			continue
		}
		if item.DocumentPath != w.path {
			t.Errorf("chunk %s path = %q, want %q", item.ID, item.DocumentPath, w.path)
		}
		if len(item.Embedding) != len(w.emb) {
			t.Errorf("chunk %s embedding len = %d, want %d", item.ID, len(item.Embedding), len(w.emb))
			continue
		}
		for i := range w.emb {
			if item.Embedding[i] != w.emb[i] {
				t.Errorf("chunk %s embedding[%d] = %v, want %v", item.ID, i, item.Embedding[i], w.emb[i])
			}
		}
	}
}

func TestChunkRepo_ListWithPaths_MalformedEmbedding(t *testing.T) {
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-1", "a.txt")
	_, err := db.Exec(`INSERT INTO chunks (id, doc_id, chunk_index, text, embedding, start_char, end_char)
		VALUES ('bad', 'doc-1', 0, 'x', 'not-json', 0, 1)`)
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}

	_, err = NewChunkRepo(db).ListWithPaths(context.Background())
	if !errors.Is(err, apperrors.ErrEncoding) {
		t.Errorf("ListWithPaths() error = %v, want ErrEncoding", err)
	}
}

func TestChunkRepo_ListByDocument(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-1", "a.txt")
	repo := NewChunkRepo(db)

	// Insert out of order
	for _, c := range []*Chunk{
		{ID: "c2", DocID: "doc-1", ChunkIndex: 2, Text: "c", Embedding: []float32{1}, StartChar: 4, EndChar: 6},
		{ID: "c0", DocID: "doc-1", ChunkIndex: 0, Text: "a", Embedding: []float32{1}, StartChar: 0, EndChar: 2},
		{ID: "c1", DocID: "doc-1", ChunkIndex: 1, Text: "b", Embedding: []float32{1}, StartChar: 2, EndChar: 4},
	} {
		if err := repo.Insert(ctx, c); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	chunks, err := repo.ListByDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("ListByDocument() returned %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunks[%d].ChunkIndex = %d", i, c.ChunkIndex)
		}
	}

	empty, err := repo.ListByDocument(ctx, "nothing")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListByDocument() for unknown doc = %v, want empty slice", empty)
	}
}

func TestChunkRepo_TextLengths(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedDocument(t, NewDocumentRepo(db), "doc-1", "a.txt")
	repo := NewChunkRepo(db)

	for i, text := range []string{"abc", "日本語です"} {
		c := &Chunk{ID: text, DocID: "doc-1", ChunkIndex: i, Text: text, Embedding: []float32{1}, EndChar: 5}
		if err := repo.Insert(ctx, c); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	lengths, err := repo.TextLengths(ctx)
	if err != nil {
		t.Fatalf("TextLengths() error = %v", err)
	}
	sort.Ints(lengths)
	if len(lengths) != 2 || lengths[0] != 3 || lengths[1] != 5 {
		t.Errorf("TextLengths() = %v, want [3 5]", lengths)
	}
}
