package embeddings

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/fitstack/food-enrichment/internal/platform/observability"
)

const (
	// ModelTextEmbedding3Small is the default embedding model.
	ModelTextEmbedding3Small = "text-embedding-3-small"

	openaiRateLimiterBurst = 5
)

// ErrOpenAIEmptyResponse indicates an empty embedding response.
var ErrOpenAIEmptyResponse = errors.New("empty embedding response from OpenAI")

// OpenAIProvider implements Provider for the OpenAI embeddings API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	dimensions  int
	rateLimiter *rate.Limiter
	available   bool
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Dimensions int // Output dimensions, 1536 to match the corpus schema
	RateLimit  int // Requests per second
}

// NewOpenAIProvider creates a new OpenAI embedding provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = ModelTextEmbedding3Small
	}

	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1
	}

	return &OpenAIProvider{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		dimensions:  cfg.Dimensions,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), openaiRateLimiterBurst),
		available:   cfg.APIKey != "",
	}
}

func (p *OpenAIProvider) Name() ProviderName {
	return ProviderOpenAI
}

func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}

func (p *OpenAIProvider) IsAvailable() bool {
	return p.available
}

// GetEmbedding generates an embedding for the given text.
func (p *OpenAIProvider) GetEmbedding(ctx context.Context, text string) (EmbeddingResult, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return EmbeddingResult{}, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		observability.EmbeddingRequests.WithLabelValues(string(ProviderOpenAI), "error").Inc()

		return EmbeddingResult{}, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) == 0 {
		observability.EmbeddingRequests.WithLabelValues(string(ProviderOpenAI), "error").Inc()

		return EmbeddingResult{}, ErrOpenAIEmptyResponse
	}

	observability.EmbeddingRequests.WithLabelValues(string(ProviderOpenAI), "success").Inc()

	return EmbeddingResult{
		Vector:     resp.Data[0].Embedding,
		Dimensions: len(resp.Data[0].Embedding),
		Provider:   ProviderOpenAI,
	}, nil
}
