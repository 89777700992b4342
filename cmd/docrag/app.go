package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"docrag/internal/config"
	"docrag/internal/embedder"
	"docrag/internal/indexer"
	"docrag/internal/rag"
	"docrag/internal/service"
	"docrag/internal/storage"
)

// app is the wired application: one database handle, one embedder and the
// service built on them.
type app struct {
	db       *sql.DB
	embedder embedder.Embedder
	service  service.RAGService
}

// newApp opens the store and wires the pipeline, engine and service.
// The caller must Close the returned app.
func newApp(cfg *config.Config) (*app, error) {
	batchMode, err := indexer.ParseBatchMode(cfg.IngestBatchMode)
	if err != nil {
		return nil, err
	}

	emb, err := embedder.New(embedder.Config{
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		OpenAIModel:    cfg.OpenAIModel,
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
		LocalDimension: cfg.LocalEmbeddingDim,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("Database initialized", "path", cfg.DBPath, "embedder", emb.Name())

	docRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	pipeline := indexer.NewPipeline(docRepo, chunkRepo, emb, batchMode)
	engine := rag.NewEngine(emb, chunkRepo)

	svc := service.NewRAGService(pipeline, engine, docRepo, chunkRepo, service.Defaults{
		ChunkSize:  cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
		TopK:       cfg.TopK,
		IngestRoot: cfg.IngestRoot,
	})

	return &app{db: db, embedder: emb, service: svc}, nil
}

// Close releases the database handle.
func (a *app) Close() error {
	return a.db.Close()
}
