package handlers

import (
	"net/http"

	"docrag/internal/service"
)

// StatsHandler serves corpus statistics.
type StatsHandler struct {
	ragService service.RAGService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(ragService service.RAGService) *StatsHandler {
	return &StatsHandler{ragService: ragService}
}

// ServeHTTP handles GET /api/v1/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.ragService.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r.Context(), err, "Failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
