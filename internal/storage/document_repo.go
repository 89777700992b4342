package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docrag/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"docrag/internal/apperrors"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Upsert inserts a document or updates the path of an existing one.
	// created_at is never changed once written.
	Upsert(ctx context.Context, doc *Document) error
	// GetByID gets a document by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Document, error)
	// Delete removes a document and, through the foreign key, its chunks.
	Delete(ctx context.Context, id string) error
	// Stats returns document and chunk counts and the latest created_at.
	Stats(ctx context.Context) (CorpusStats, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert inserts a new document or updates an existing one keyed by ID.
// A missing ID is filled with a fresh UUID and a zero CreatedAt with the
// current time; both are written back to doc.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, path, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET path = excluded.path`,
		doc.ID, doc.Path, formatTime(doc.CreatedAt),
	)
	if err != nil {
		return apperrors.Storage("upsert document", err)
	}
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	var createdAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, path, created_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.Path, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage("query document", err)
	}

	doc.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, apperrors.Encoding("parse created_at", err)
	}

	return &doc, nil
}

// Delete removes a document. Its chunks go with it via ON DELETE CASCADE.
// Returns ErrNotFound if no row matched.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return apperrors.Storage("delete document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage("delete document", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns corpus counts. LastIngest is nil on an empty corpus.
func (r *DocumentRepo) Stats(ctx context.Context) (CorpusStats, error) {
	var stats CorpusStats

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&stats.Documents); err != nil {
		return CorpusStats{}, apperrors.Storage("count documents", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stats.Chunks); err != nil {
		return CorpusStats{}, apperrors.Storage("count chunks", err)
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents
		 WHERE id NOT IN (SELECT DISTINCT doc_id FROM chunks)`).Scan(&stats.DocumentsWithoutChunks)
	if err != nil {
		return CorpusStats{}, apperrors.Storage("count documents without chunks", err)
	}

	var latest string
	err = r.db.QueryRowContext(ctx,
		"SELECT created_at FROM documents ORDER BY created_at DESC LIMIT 1",
	).Scan(&latest)
	switch {
	case err == sql.ErrNoRows:
		return stats, nil
	case err != nil:
		return CorpusStats{}, apperrors.Storage("query latest document", err)
	}

	t, err := parseTime(latest)
	if err != nil {
		return CorpusStats{}, apperrors.Encoding("parse created_at", err)
	}
	stats.LastIngest = &t

	return stats, nil
}
