package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	// ChunkerVersion is the version identifier for the chunker implementation.
	// Update this when chunking logic changes.
	ChunkerVersion = "v2.0-chars"
)

// CoverageStats describes the stored corpus.
type CoverageStats struct {
	// Documents is the number of stored documents.
	Documents int `json:"documents"`
	// DocumentsWithoutChunks counts documents with no stored chunks.
	DocumentsWithoutChunks int `json:"documents_without_chunks"`
	// Chunks is the number of stored chunks.
	Chunks int `json:"chunks"`
	// LastIngest is the newest document creation time, nil on an empty corpus.
	LastIngest *time.Time `json:"last_ingest,omitempty"`
	// ChunkLengths summarises chunk length in characters.
	ChunkLengths ChunkLengthStats `json:"chunk_lengths"`
	// Embedder is the name of the embedder this pipeline uses.
	Embedder string `json:"embedder"`
	// ChunkerVersion is the version of the chunker in use.
	ChunkerVersion string `json:"chunker_version"`
}

// ChunkLengthStats contains statistics about chunk lengths in characters.
type ChunkLengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// CoverageStats computes corpus statistics from the store.
func (p *Pipeline) CoverageStats(ctx context.Context) (*CoverageStats, error) {
	corpus, err := p.docRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	lengths, err := p.chunkRepo.TextLengths(ctx)
	if err != nil {
		return nil, err
	}

	return &CoverageStats{
		Documents:              corpus.Documents,
		DocumentsWithoutChunks: corpus.DocumentsWithoutChunks,
		Chunks:                 corpus.Chunks,
		LastIngest:             corpus.LastIngest,
		ChunkLengths:           computeLengthStats(lengths),
		Embedder:               p.embedder.Name(),
		ChunkerVersion:         ChunkerVersion,
	}, nil
}

// IndexVersion identifies an index build: chunker version, chunking parameters
// and embedder. Two runs with the same version produce comparable vectors.
func IndexVersion(chunkSize, overlap int, embedderName string) string {
	input := fmt.Sprintf("%s|%s|chunkSize=%d|overlap=%d", ChunkerVersion, embedderName, chunkSize, overlap)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}

// computeLengthStats computes min, max, mean, and p95 from lengths.
func computeLengthStats(lengths []int) ChunkLengthStats {
	if len(lengths) == 0 {
		return ChunkLengthStats{}
	}

	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	sum := 0
	for _, n := range sorted {
		sum += n
	}
	mean := float64(sum) / float64(len(sorted))

	// Nearest rank: the ceil(0.95*n)-th smallest value, 1-based
	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkLengthStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
