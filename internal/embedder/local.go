package embedder

import (
	"context"
	"fmt"
	"strings"
)

// DefaultDimension is the output size of LocalEmbedder when none is given.
const DefaultDimension = 256

// LocalEmbedder is an offline bag-of-words embedder. Each whitespace token is
// hashed into one of dim buckets and the bucket counts form the vector.
// Identical input always yields identical output.
type LocalEmbedder struct {
	dim int
}

var _ Embedder = (*LocalEmbedder)(nil)

// NewLocalEmbedder creates a LocalEmbedder. dim <= 0 means DefaultDimension.
func NewLocalEmbedder(dim int) *LocalEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &LocalEmbedder{dim: dim}
}

// Name returns the backend identifier including the dimension.
func (e *LocalEmbedder) Name() string {
	return fmt.Sprintf("local-hash-embedding-%d", e.dim)
}

// Dimension returns the length of every vector this embedder produces.
func (e *LocalEmbedder) Dimension() int {
	return e.dim
}

// Embed computes term-frequency vectors. It never fails.
func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dim)
		for _, token := range strings.Fields(text) {
			vec[e.bucket(token)]++
		}
		out[i] = vec
	}
	return out, nil
}

// bucket hashes token bytes with h = h*31 + b (wrapping) and reduces mod dim.
func (e *LocalEmbedder) bucket(token string) int {
	var h uint64
	for i := 0; i < len(token); i++ {
		h = h*31 + uint64(token[i])
	}
	return int(h % uint64(e.dim))
}
