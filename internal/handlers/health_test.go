package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docrag/internal/indexer"
	"docrag/internal/service/mocks"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		pingErr         error
		wantStatus      int
		wantStatusField string
	}{
		{name: "healthy", method: http.MethodGet, wantStatus: http.StatusOK, wantStatusField: "healthy"},
		{name: "database down", method: http.MethodGet, pingErr: errors.New("closed"), wantStatus: http.StatusServiceUnavailable, wantStatusField: "unhealthy"},
		{name: "method not allowed", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(fakePinger{err: tt.pingErr}, "local-hash-embedding-256")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatusField == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatusField {
				t.Errorf("HealthResponse.Status = %q, want %q", resp.Status, tt.wantStatusField)
			}
			if resp.Embedder != "local-hash-embedding-256" {
				t.Errorf("HealthResponse.Embedder = %q", resp.Embedder)
			}
		})
	}
}

func TestStatsHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("returns stats", func(t *testing.T) {
		m := mocks.NewMockRAGService(ctrl)
		m.EXPECT().Stats(gomock.Any()).Return(&indexer.CoverageStats{Documents: 4, Chunks: 9}, nil)

		w := httptest.NewRecorder()
		NewStatsHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("ServeHTTP() status = %v, want 200", w.Code)
		}
		var stats indexer.CoverageStats
		if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if stats.Documents != 4 || stats.Chunks != 9 || stats.LastIngest != nil {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("service error", func(t *testing.T) {
		m := mocks.NewMockRAGService(ctrl)
		m.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("locked"))

		w := httptest.NewRecorder()
		NewStatsHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ServeHTTP() status = %v, want 500", w.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewStatsHandler(mocks.NewMockRAGService(ctrl)).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/stats", nil))

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("ServeHTTP() status = %v, want 405", w.Code)
		}
	})
}
