package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks docrag/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"

	"docrag/internal/apperrors"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// Insert inserts a single chunk into the database.
	// The chunk.ID must be set (UUID) before calling this method.
	Insert(ctx context.Context, chunk *Chunk) error
	// InsertBatch inserts chunks in one transaction; either all land or none.
	InsertBatch(ctx context.Context, chunks []*Chunk) error
	// ListWithPaths returns every chunk joined with its document's path.
	// Order is unspecified.
	ListWithPaths(ctx context.Context) ([]ChunkWithPath, error)
	// ListByDocument returns a document's chunks ordered by chunk_index.
	ListByDocument(ctx context.Context, docID string) ([]Chunk, error)
	// TextLengths returns the character length of every stored chunk.
	TextLengths(ctx context.Context) ([]int, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

const insertChunkSQL = `INSERT INTO chunks (id, doc_id, chunk_index, text, embedding, start_char, end_char)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertChunk(ctx context.Context, ex execer, chunk *Chunk) error {
	if chunk.ID == "" {
		return apperrors.Storage("insert chunk", fmt.Errorf("chunk id is empty"))
	}
	emb, err := EncodeEmbedding(chunk.Embedding)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, insertChunkSQL,
		chunk.ID, chunk.DocID, chunk.ChunkIndex, chunk.Text, emb, chunk.StartChar, chunk.EndChar,
	)
	if err != nil {
		return apperrors.Storage("insert chunk", err)
	}
	return nil
}

// Insert inserts a single chunk into the database.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *Chunk) error {
	return insertChunk(ctx, r.db, chunk)
}

// InsertBatch inserts all chunks inside a single transaction.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("begin chunk batch", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, chunk := range chunks {
		if err := insertChunk(ctx, tx, chunk); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("commit chunk batch", err)
	}
	return nil
}

// ListWithPaths returns every stored chunk with its document's path.
func (r *ChunkRepo) ListWithPaths(ctx context.Context) ([]ChunkWithPath, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.doc_id, c.chunk_index, c.text, c.embedding, c.start_char, c.end_char, d.path
		 FROM chunks c
		 JOIN documents d ON c.doc_id = d.id`,
	)
	if err != nil {
		return nil, apperrors.Storage("query chunks", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []ChunkWithPath
	for rows.Next() {
		var item ChunkWithPath
		var emb string
		if err := rows.Scan(&item.ID, &item.DocID, &item.ChunkIndex, &item.Text, &emb,
			&item.StartChar, &item.EndChar, &item.DocumentPath); err != nil {
			return nil, apperrors.Storage("scan chunk", err)
		}
		if item.Embedding, err = DecodeEmbedding(emb); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", item.ID, err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("row iteration", err)
	}

	return out, nil
}

// ListByDocument returns all chunks for a document, ordered by chunk_index.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListByDocument(ctx context.Context, docID string) ([]Chunk, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, doc_id, chunk_index, text, embedding, start_char, end_char
		 FROM chunks WHERE doc_id = ? ORDER BY chunk_index`,
		docID,
	)
	if err != nil {
		return nil, apperrors.Storage("query chunks by document", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	chunks := []Chunk{}
	for rows.Next() {
		var c Chunk
		var emb string
		if err := rows.Scan(&c.ID, &c.DocID, &c.ChunkIndex, &c.Text, &emb, &c.StartChar, &c.EndChar); err != nil {
			return nil, apperrors.Storage("scan chunk", err)
		}
		if c.Embedding, err = DecodeEmbedding(emb); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("row iteration", err)
	}

	return chunks, nil
}

// TextLengths returns length(text) for every chunk. SQLite counts characters,
// not bytes, for TEXT values.
func (r *ChunkRepo) TextLengths(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT length(text) FROM chunks")
	if err != nil {
		return nil, apperrors.Storage("query chunk lengths", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var lengths []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, apperrors.Storage("scan chunk length", err)
		}
		lengths = append(lengths, n)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("row iteration", err)
	}

	return lengths, nil
}
