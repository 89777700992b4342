package rag

import (
	"fmt"
	"strings"
)

// NoResultsAnswer is the answer text when nothing was retrieved.
const NoResultsAnswer = "No relevant chunks found. Ingest some documents first."

// BuildResponse converts ranked results into a QueryResponse, with an
// answer made of the numbered snippets.
func BuildResponse(question string, results []SearchResult) QueryResponse {
	hits := make([]Hit, 0, len(results))
	for i, r := range results {
		hits = append(hits, Hit{
			Rank:         i + 1,
			DocumentID:   r.Chunk.DocID,
			DocumentPath: r.DocumentPath,
			ChunkIndex:   r.Chunk.ChunkIndex,
			StartChar:    r.Chunk.StartChar,
			EndChar:      r.Chunk.EndChar,
			Score:        r.Score,
			Text:         r.Chunk.Text,
		})
	}

	return QueryResponse{
		Question: question,
		Answer:   SynthesizeAnswer(results),
		Hits:     hits,
	}
}

// SynthesizeAnswer concatenates the trimmed snippets with their source and score.
func SynthesizeAnswer(results []SearchResult) string {
	if len(results) == 0 {
		return NoResultsAnswer
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d] From %s\n", i+1, r.DocumentPath)
		fmt.Fprintf(&b, "Score: %.4f\n", r.Score)
		fmt.Fprintf(&b, "Snippet:\n%s\n", strings.TrimSpace(r.Chunk.Text))
	}
	return b.String()
}
