package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// MockProvider returns deterministic pseudo-embeddings derived from the
// input text, so tests and local runs work without API credentials.
// Identical texts map to identical vectors.
type MockProvider struct {
	dimensions int

	// Err, when set, is returned from every call. Used to exercise the
	// "check inconclusive" path.
	Err error
}

// NewMockProvider creates a mock provider with the given dimensions.
func NewMockProvider(dimensions int) *MockProvider {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	return &MockProvider{dimensions: dimensions}
}

func (p *MockProvider) Name() ProviderName {
	return ProviderMock
}

func (p *MockProvider) Dimensions() int {
	return p.dimensions
}

func (p *MockProvider) IsAvailable() bool {
	return true
}

func (p *MockProvider) GetEmbedding(_ context.Context, text string) (EmbeddingResult, error) {
	if p.Err != nil {
		return EmbeddingResult{}, p.Err
	}

	vec := make([]float32, p.dimensions)
	sum := sha256.Sum256([]byte(text))

	var norm float64

	for i := range vec {
		// Cycle through the digest, re-hashing per block of 8 values.
		if i%8 == 0 && i > 0 {
			sum = sha256.Sum256(sum[:])
		}

		bits := binary.BigEndian.Uint32(sum[(i%8)*4 : (i%8)*4+4])
		v := float32(bits%2000)/1000 - 1 // [-1, 1)
		vec[i] = v
		norm += float64(v) * float64(v)
	}

	// Unit-normalize so cosine distances behave like the real provider.
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}

	return EmbeddingResult{
		Vector:     vec,
		Dimensions: p.dimensions,
		Provider:   ProviderMock,
	}, nil
}
