// Package embedder maps batches of text to vectors.
package embedder

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docrag/internal/embedder Embedder

import (
	"context"
	"net/http"
)

// Embedder turns an ordered batch of texts into vectors.
// The result has the same length and order as texts. An empty batch returns
// an empty result without contacting any backend.
type Embedder interface {
	// Name identifies the backend, e.g. for logs and index versioning.
	Name() string
	// Embed returns one vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config selects and configures an Embedder.
type Config struct {
	// OpenAIAPIKey selects the remote backend when non-empty.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	// HTTPClient overrides the client used by the remote backend.
	HTTPClient *http.Client
	// LocalDimension is the output size of the local backend. Zero means DefaultDimension.
	LocalDimension int
}

// New returns the remote embedder when an API key is configured and the
// local hash embedder otherwise.
func New(cfg Config) (Embedder, error) {
	if cfg.OpenAIAPIKey != "" {
		return NewOpenAIEmbedder(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	}
	return NewLocalEmbedder(cfg.LocalDimension), nil
}
