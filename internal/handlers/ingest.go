package handlers

import (
	"encoding/json"
	"net/http"

	"docrag/internal/contextutil"
	"docrag/internal/service"
)

// IngestHandler handles HTTP requests that ingest files into the corpus.
type IngestHandler struct {
	ragService service.RAGService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ragService service.RAGService) *IngestHandler {
	return &IngestHandler{ragService: ragService}
}

// IngestRequest represents the HTTP request payload for ingestion.
// Paths are resolved on the server's filesystem.
type IngestRequest struct {
	Paths     []string `json:"paths" validate:"required,min=1,dive,required"`
	ChunkSize int      `json:"chunk_size,omitempty" validate:"gte=0"`
	Overlap   *int     `json:"overlap,omitempty" validate:"omitempty,gte=0"`
}

// ServeHTTP handles POST /api/v1/ingest.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validateRequest(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: fields})
		return
	}

	report, err := h.ragService.Ingest(ctx, service.IngestRequest{
		Paths:     req.Paths,
		ChunkSize: req.ChunkSize,
		Overlap:   req.Overlap,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to ingest files")
		return
	}

	logger.InfoContext(ctx, "ingest request completed", "documents", report.Documents, "chunks", report.Chunks)
	writeJSON(w, http.StatusOK, report)
}
