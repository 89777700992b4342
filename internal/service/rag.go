package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag_service.go -package=mocks -mock_names=RAGService=MockRAGService docrag/internal/service RAGService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"docrag/internal/apperrors"
	"docrag/internal/contextutil"
	"docrag/internal/indexer"
	"docrag/internal/rag"
	"docrag/internal/storage"
)

// IngestRequest represents an ingestion request in the domain layer.
// A zero ChunkSize or nil Overlap means the configured default.
type IngestRequest struct {
	Paths     []string
	ChunkSize int
	Overlap   *int
}

// DocumentView is a stored document with its text rebuilt from its chunks.
type DocumentView struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Chunks    int       `json:"chunks"`
	Text      string    `json:"text"`
}

// Defaults holds the values used when a request leaves a parameter unset.
// A non-empty IngestRoot confines ingestion to that directory tree.
type Defaults struct {
	ChunkSize  int
	Overlap    int
	TopK       int
	IngestRoot string
}

// RAGService is the caller-facing surface of the retrieval system.
type RAGService interface {
	// Ingest adds the files under the given paths to the corpus.
	Ingest(ctx context.Context, req IngestRequest) (indexer.IngestReport, error)
	// Query ranks stored chunks against a question.
	Query(ctx context.Context, req rag.QueryRequest) (rag.QueryResponse, error)
	// Stats describes the stored corpus.
	Stats(ctx context.Context) (*indexer.CoverageStats, error)
	// Document returns one stored document with its reassembled text.
	Document(ctx context.Context, id string) (DocumentView, error)
}

// ragService implements RAGService.
type ragService struct {
	pipeline  *indexer.Pipeline
	engine    rag.Engine
	docRepo   storage.DocumentStore
	chunkRepo storage.ChunkStore
	defaults  Defaults
	logger    *slog.Logger

	// ingestMu admits one ingestion run at a time.
	ingestMu sync.Mutex
}

// NewRAGService creates a new RAGService.
func NewRAGService(
	pipeline *indexer.Pipeline,
	engine rag.Engine,
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	defaults Defaults,
) RAGService {
	return &ragService{
		pipeline:  pipeline,
		engine:    engine,
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		defaults:  defaults,
		logger:    slog.Default(),
	}
}

// Ingest implements RAGService. A second call made while a run is in
// progress fails fast with ErrBusy.
func (s *ragService) Ingest(ctx context.Context, req IngestRequest) (indexer.IngestReport, error) {
	logger := contextutil.LoggerFromContext(ctx, s.logger)

	if len(req.Paths) == 0 {
		return indexer.IngestReport{}, &ValidationError{Field: "paths", Message: "at least one path is required"}
	}
	for _, p := range req.Paths {
		if strings.TrimSpace(p) == "" {
			return indexer.IngestReport{}, &ValidationError{Field: "paths", Message: "paths cannot be empty"}
		}
		if s.defaults.IngestRoot != "" && !withinRoot(s.defaults.IngestRoot, p) {
			logger.WarnContext(ctx, "rejected path outside ingest root", "path", p)
			return indexer.IngestReport{}, &ValidationError{Field: "paths", Message: fmt.Sprintf("%s is outside the ingest root", p)}
		}
	}

	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = s.defaults.ChunkSize
	}
	overlap := s.defaults.Overlap
	if req.Overlap != nil {
		overlap = *req.Overlap
	}
	if chunkSize <= 0 {
		return indexer.IngestReport{}, &ValidationError{Field: "chunk_size", Message: "must be positive"}
	}
	if overlap < 0 {
		return indexer.IngestReport{}, &ValidationError{Field: "overlap", Message: "cannot be negative"}
	}
	if overlap >= chunkSize {
		logger.WarnContext(ctx, "overlap not smaller than chunk size; each file yields one chunk",
			"chunk_size", chunkSize, "overlap", overlap)
	}

	if !s.ingestMu.TryLock() {
		logger.WarnContext(ctx, "rejected concurrent ingestion")
		return indexer.IngestReport{}, ErrBusy
	}
	defer s.ingestMu.Unlock()

	report, err := s.pipeline.Ingest(ctx, indexer.IngestRequest{
		Paths:     req.Paths,
		ChunkSize: chunkSize,
		Overlap:   overlap,
	})
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "error", err)
		return report, classify(err, "ingestion failed")
	}

	return report, nil
}

// Query implements RAGService. A zero TopK means the configured default.
func (s *ragService) Query(ctx context.Context, req rag.QueryRequest) (rag.QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx, s.logger)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		logger.WarnContext(ctx, "empty question in query request")
		return rag.QueryResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	if req.TopK < 0 {
		return rag.QueryResponse{}, &ValidationError{Field: "top_k", Message: "cannot be negative"}
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.defaults.TopK
	}

	results, err := s.engine.Query(ctx, question, topK)
	if err != nil {
		logger.ErrorContext(ctx, "query failed", "error", err)
		return rag.QueryResponse{}, classify(err, "query failed")
	}

	logger.InfoContext(ctx, "query processed successfully", "question_length", len(question), "results", len(results))
	return rag.BuildResponse(question, results), nil
}

// Stats implements RAGService.
func (s *ragService) Stats(ctx context.Context) (*indexer.CoverageStats, error) {
	stats, err := s.pipeline.CoverageStats(ctx)
	if err != nil {
		return nil, classify(err, "failed to compute stats")
	}
	return stats, nil
}

// Document implements RAGService.
func (s *ragService) Document(ctx context.Context, id string) (DocumentView, error) {
	if strings.TrimSpace(id) == "" {
		return DocumentView{}, &ValidationError{Field: "id", Message: "cannot be empty"}
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return DocumentView{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return DocumentView{}, classify(err, "failed to load document")
	}

	chunks, err := s.chunkRepo.ListByDocument(ctx, id)
	if err != nil {
		return DocumentView{}, classify(err, "failed to load chunks")
	}

	windows := make([]indexer.Chunk, len(chunks))
	for i, c := range chunks {
		windows[i] = indexer.Chunk{Index: c.ChunkIndex, StartChar: c.StartChar, EndChar: c.EndChar, Text: c.Text}
	}

	return DocumentView{
		ID:        doc.ID,
		Path:      doc.Path,
		CreatedAt: doc.CreatedAt,
		Chunks:    len(chunks),
		Text:      indexer.Reassemble(windows),
	}, nil
}

// withinRoot reports whether path lies inside root once both are made
// absolute and symlinks that exist are resolved.
func withinRoot(root, path string) bool {
	root, err := resolvePath(root)
	if err != nil {
		return false
	}
	path, err = resolvePath(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// classify adds the service-level sentinel for embedding failures and wraps
// everything else with msg.
func classify(err error, msg string) error {
	if errors.Is(err, apperrors.ErrEmbedding) {
		return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
	}
	return WrapError(err, msg)
}
