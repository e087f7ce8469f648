// Package embeddings provides text embedding providers for the semantic
// validator. Only nearest-neighbor distance is needed downstream, so the
// interface is a single text-to-vector call.
package embeddings

import "context"

// ProviderName identifies an embedding provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOpenAI ProviderName = "openai"
	ProviderMock   ProviderName = "mock"
)

// DefaultDimensions matches the reference corpus schema.
const DefaultDimensions = 1536

// EmbeddingResult contains the embedding vector and metadata.
type EmbeddingResult struct {
	Vector     []float32
	Dimensions int
	Provider   ProviderName
}

// Provider defines the interface for embedding providers.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// GetEmbedding generates an embedding for the given text.
	GetEmbedding(ctx context.Context, text string) (EmbeddingResult, error)

	// IsAvailable returns true if the provider is configured and available.
	IsAvailable() bool

	// Dimensions returns the native output dimensions of this provider.
	Dimensions() int
}
