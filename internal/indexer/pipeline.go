package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"docrag/internal/apperrors"
	"docrag/internal/contextutil"
	"docrag/internal/embedder"
	"docrag/internal/storage"
)

// Pipeline orchestrates ingestion: file discovery, chunking, embedding and storage.
type Pipeline struct {
	docRepo   storage.DocumentStore
	chunkRepo storage.ChunkStore
	embedder  embedder.Embedder
	batchMode BatchMode
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewPipeline creates a new ingestion pipeline. An empty batch mode means BatchPerRun.
func NewPipeline(
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	emb embedder.Embedder,
	batchMode BatchMode,
) *Pipeline {
	if batchMode == "" {
		batchMode = BatchPerRun
	}
	return &Pipeline{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		embedder:  emb,
		batchMode: batchMode,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// ParseBatchMode validates a configured batch mode string.
func ParseBatchMode(s string) (BatchMode, error) {
	switch BatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BatchPerRun:
		return BatchPerRun, nil
	case BatchPerFile:
		return BatchPerFile, nil
	default:
		return "", fmt.Errorf("unknown batch mode %q (want %q or %q)", s, BatchPerRun, BatchPerFile)
	}
}

// pendingChunk is a chunk waiting for its embedding.
type pendingChunk struct {
	docID string
	chunk Chunk
}

// Ingest reads every file reachable from req.Paths, stores one document per
// non-blank file and stores its chunks with their embeddings.
//
// The run is not atomic. When a later file or embedding call fails, documents
// and chunks stored earlier in the run stay in place.
func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (IngestReport, error) {
	logger := contextutil.LoggerFromContext(ctx, p.logger)

	report := IngestReport{
		Embedder:     p.embedder.Name(),
		IndexVersion: IndexVersion(req.ChunkSize, req.Overlap, p.embedder.Name()),
	}

	files, err := CollectFiles(ctx, req.Paths)
	if err != nil {
		return report, err
	}
	report.FilesFound = len(files)

	logger.InfoContext(ctx, "starting ingestion",
		"files", len(files),
		"chunk_size", req.ChunkSize,
		"overlap", req.Overlap,
		"batch_mode", string(p.batchMode),
		"embedder", report.Embedder,
	)

	var pending []pendingChunk

	for _, path := range files {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return report, apperrors.IO("read "+path, err)
		}
		if !utf8.Valid(content) {
			return report, apperrors.IO("read "+path, errors.New("file is not valid UTF-8"))
		}

		text := string(content)
		if strings.TrimSpace(text) == "" {
			report.FilesSkipped++
			logger.InfoContext(ctx, "skipping empty file", "path", path)
			continue
		}

		doc := &storage.Document{
			ID:        p.newID(),
			Path:      path,
			CreatedAt: p.now(),
		}
		if err := p.docRepo.Upsert(ctx, doc); err != nil {
			return report, err
		}
		report.Documents++

		windows := ChunkText(text, req.ChunkSize, req.Overlap)
		logger.DebugContext(ctx, "chunked file", "path", path, "doc_id", doc.ID, "chunks", len(windows))

		batch := make([]pendingChunk, len(windows))
		for i, w := range windows {
			batch[i] = pendingChunk{docID: doc.ID, chunk: w}
		}

		if p.batchMode == BatchPerFile {
			stored, err := p.embedAndStore(ctx, batch)
			if err != nil {
				return report, err
			}
			if len(batch) > 0 {
				report.EmbedCalls++
			}
			report.Chunks += stored
			continue
		}
		pending = append(pending, batch...)
	}

	if p.batchMode == BatchPerRun {
		stored, err := p.embedAndStore(ctx, pending)
		if err != nil {
			return report, err
		}
		if len(pending) > 0 {
			report.EmbedCalls++
		}
		report.Chunks += stored
	}

	logger.InfoContext(ctx, "ingestion completed",
		"files", report.FilesFound,
		"documents", report.Documents,
		"skipped", report.FilesSkipped,
		"chunks", report.Chunks,
		"embed_calls", report.EmbedCalls,
	)

	return report, nil
}

// embedAndStore embeds the batch in one call and stores the chunks, one
// transaction per document. An empty batch makes no embedding call.
func (p *Pipeline) embedAndStore(ctx context.Context, batch []pendingChunk) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	texts := make([]string, len(batch))
	for i, pc := range batch {
		texts[i] = pc.chunk.Text
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		if apperrors.KindOf(err) == 0 {
			err = apperrors.Embedding("embed chunks", err)
		}
		return 0, err
	}
	if len(vectors) != len(batch) {
		return 0, apperrors.Embedding("embed chunks",
			fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors)))
	}

	stored := 0
	var group []*storage.Chunk
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		if err := p.chunkRepo.InsertBatch(ctx, group); err != nil {
			return err
		}
		stored += len(group)
		group = nil
		return nil
	}

	for i, pc := range batch {
		if len(group) > 0 && group[0].DocID != pc.docID {
			if err := flush(); err != nil {
				return stored, err
			}
		}
		group = append(group, &storage.Chunk{
			ID:         p.newID(),
			DocID:      pc.docID,
			ChunkIndex: pc.chunk.Index,
			Text:       pc.chunk.Text,
			Embedding:  vectors[i],
			StartChar:  pc.chunk.StartChar,
			EndChar:    pc.chunk.EndChar,
		})
	}
	if err := flush(); err != nil {
		return stored, err
	}

	return stored, nil
}
