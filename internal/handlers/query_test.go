package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docrag/internal/apperrors"
	"docrag/internal/rag"
	"docrag/internal/service"
	"docrag/internal/service/mocks"
)

func TestNewQueryHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRAGService := mocks.NewMockRAGService(ctrl)
	handler := NewQueryHandler(mockRAGService)

	if handler == nil {
		t.Fatal("NewQueryHandler() returned nil")
	}
	if handler.ragService != mockRAGService {
		t.Error("NewQueryHandler() ragService not set correctly")
	}
}

func TestQueryHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name          string
		method        string
		body          interface{}
		mockSetup     func(*mocks.MockRAGService)
		wantStatus    int
		checkResponse func(*httptest.ResponseRecorder) bool
	}{
		{
			name:   "successful POST request",
			method: http.MethodPost,
			body:   QueryRequest{Question: "What is Rust?", TopK: 3},
			mockSetup: func(m *mocks.MockRAGService) {
				m.EXPECT().
					Query(gomock.Any(), rag.QueryRequest{Question: "What is Rust?", TopK: 3}).
					Return(rag.QueryResponse{
						Question: "What is Rust?",
						Answer:   "[1] From rust.txt",
						Hits:     []rag.Hit{{Rank: 1, DocumentPath: "rust.txt", Score: 0.9}},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				var resp rag.QueryResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					return false
				}
				return len(resp.Hits) == 1 && resp.Hits[0].DocumentPath == "rust.txt"
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockRAGService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockRAGService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing question",
			method:     http.MethodPost,
			body:       QueryRequest{},
			mockSetup:  func(m *mocks.MockRAGService) {},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					return false
				}
				return resp.Fields["question"] != ""
			},
		},
		{
			name:       "negative top_k",
			method:     http.MethodPost,
			body:       QueryRequest{Question: "q", TopK: -1},
			mockSetup:  func(m *mocks.MockRAGService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "service validation error",
			method: http.MethodPost,
			body:   QueryRequest{Question: "  "},
			mockSetup: func(m *mocks.MockRAGService) {
				m.EXPECT().
					Query(gomock.Any(), rag.QueryRequest{Question: "  "}).
					Return(rag.QueryResponse{}, &service.ValidationError{Field: "question", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "embedding backend failure",
			method: http.MethodPost,
			body:   QueryRequest{Question: "q"},
			mockSetup: func(m *mocks.MockRAGService) {
				m.EXPECT().
					Query(gomock.Any(), gomock.Any()).
					Return(rag.QueryResponse{}, service.ErrExternalService)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "corrupt stored vector",
			method: http.MethodPost,
			body:   QueryRequest{Question: "q"},
			mockSetup: func(m *mocks.MockRAGService) {
				m.EXPECT().
					Query(gomock.Any(), gomock.Any()).
					Return(rag.QueryResponse{}, apperrors.Encoding("decode embedding", errors.New("bad")))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRAGService := mocks.NewMockRAGService(ctrl)
			tt.mockSetup(mockRAGService)

			handler := NewQueryHandler(mockRAGService)

			req := httptest.NewRequest(tt.method, "/api/v1/query", bytes.NewBuffer(encodeBody(t, tt.body)))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.checkResponse != nil && !tt.checkResponse(w) {
				t.Error("ServeHTTP() response validation failed")
			}
		})
	}
}

// encodeBody marshals body as JSON; a string body is sent verbatim.
func encodeBody(t *testing.T, body interface{}) []byte {
	t.Helper()
	switch b := body.(type) {
	case nil:
		return nil
	case string:
		return []byte(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		return data
	}
}
