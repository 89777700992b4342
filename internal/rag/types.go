package rag

import "docrag/internal/storage"

// SearchResult is a stored chunk scored against a query. It is never persisted.
type SearchResult struct {
	// Chunk is the matching chunk, embedding included.
	Chunk storage.Chunk
	// DocumentPath is the source path of the chunk's document.
	DocumentPath string
	// Score is the cosine similarity to the query, in [-1, 1].
	Score float32
}

// QueryRequest represents a retrieval request.
type QueryRequest struct {
	// Question is the natural-language query text.
	Question string `json:"question"`
	// TopK is the maximum number of results. Zero means the configured default.
	TopK int `json:"top_k,omitempty"`
}

// Hit is the presentation form of a SearchResult.
type Hit struct {
	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`
	// DocumentID is the owning document's ID.
	DocumentID string `json:"document_id"`
	// DocumentPath is the owning document's source path.
	DocumentPath string `json:"document_path"`
	// ChunkIndex is the chunk index within the document.
	ChunkIndex int `json:"chunk_index"`
	// StartChar and EndChar are the chunk's character span.
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`
	// Score is the similarity score.
	Score float32 `json:"score"`
	// Text is the chunk text.
	Text string `json:"text"`
}

// QueryResponse is the result of a retrieval request.
type QueryResponse struct {
	// Question echoes the query text.
	Question string `json:"question"`
	// Answer concatenates the hit snippets into a readable answer.
	Answer string `json:"answer"`
	// Hits are the ranked results, best first.
	Hits []Hit `json:"hits"`
}
