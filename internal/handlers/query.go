package handlers

import (
	"encoding/json"
	"net/http"

	"docrag/internal/contextutil"
	"docrag/internal/rag"
	"docrag/internal/service"
)

// QueryHandler handles HTTP requests for retrieval queries.
type QueryHandler struct {
	ragService service.RAGService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(ragService service.RAGService) *QueryHandler {
	return &QueryHandler{ragService: ragService}
}

// QueryRequest represents the HTTP request payload for queries.
type QueryRequest struct {
	Question string `json:"question" validate:"required"`
	TopK     int    `json:"top_k,omitempty" validate:"gte=0"`
}

// ServeHTTP handles POST /api/v1/query.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validateRequest(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: fields})
		return
	}

	resp, err := h.ragService.Query(ctx, rag.QueryRequest{Question: req.Question, TopK: req.TopK})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process query")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
