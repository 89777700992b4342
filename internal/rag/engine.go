package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"docrag/internal/apperrors"
	"docrag/internal/contextutil"
	"docrag/internal/embedder"
	"docrag/internal/storage"
)

// Engine ranks stored chunks against a question.
type Engine interface {
	// Query embeds the question, scores every stored chunk by cosine
	// similarity and returns the best topK, highest score first.
	Query(ctx context.Context, question string, topK int) ([]SearchResult, error)
}

// ragEngine implements the Engine interface with a brute-force scan.
type ragEngine struct {
	embedder  embedder.Embedder
	chunkRepo storage.ChunkStore
	logger    *slog.Logger
}

// NewEngine creates a new query engine.
func NewEngine(emb embedder.Embedder, chunkRepo storage.ChunkStore) Engine {
	return &ragEngine{
		embedder:  emb,
		chunkRepo: chunkRepo,
		logger:    slog.Default(),
	}
}

// Query implements Engine. A topK of zero or less returns an empty result
// without embedding the question.
func (e *ragEngine) Query(ctx context.Context, question string, topK int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx, e.logger)

	if topK <= 0 {
		return []SearchResult{}, nil
	}

	logger.InfoContext(ctx, "query started", "question_length", len(question), "top_k", topK)

	vecs, err := e.embedder.Embed(ctx, []string{question})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		if apperrors.KindOf(err) == 0 {
			err = apperrors.Embedding("embed question", err)
		}
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, apperrors.Embedding("embed question",
			fmt.Errorf("embedding count mismatch: expected 1, got %d", len(vecs)))
	}
	queryVec := vecs[0]

	all, err := e.chunkRepo.ListWithPaths(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load chunks", "error", err)
		return nil, err
	}

	results := make([]SearchResult, 0, len(all))
	for _, c := range all {
		results = append(results, SearchResult{
			Chunk:        c.Chunk,
			DocumentPath: c.DocumentPath,
			Score:        CosineSimilarity(queryVec, c.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	logger.InfoContext(ctx, "query completed", "chunks_scanned", len(all), "results", len(results))
	if len(results) > 0 {
		logger.DebugContext(ctx, "top result", "path", results[0].DocumentPath, "score", results[0].Score)
	}

	return results, nil
}
