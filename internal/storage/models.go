package storage

import "time"

// Document represents an ingested file.
type Document struct {
	ID        string    // UUID
	Path      string    // Source path as given to ingestion
	CreatedAt time.Time // Set once; upserts never change it
}

// Chunk represents a window of a document's text with its embedding.
type Chunk struct {
	ID         string    // UUID
	DocID      string    // UUID (foreign key to documents.id)
	ChunkIndex int       // Index within document (starts at 0)
	Text       string    // Chunk text content
	Embedding  []float32 // Vector produced at ingestion time
	StartChar  int       // Inclusive rune offset into the document
	EndChar    int       // Exclusive rune offset into the document
}

// ChunkWithPath is a chunk joined with its owning document's path.
type ChunkWithPath struct {
	Chunk
	DocumentPath string
}

// CorpusStats summarises the stored corpus.
type CorpusStats struct {
	Documents              int
	Chunks                 int
	DocumentsWithoutChunks int
	LastIngest             *time.Time // nil when no documents exist
}
