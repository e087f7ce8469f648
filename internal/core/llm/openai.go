package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/platform/observability"
)

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
	rateLimiterBurst        = 5
)

// ErrCircuitBreakerOpen indicates the circuit breaker is open.
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// OpenAIConfig holds configuration for the OpenAI deep-check client.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	RateLimit int // Requests per second
}

type openaiClient struct {
	client      *openai.Client
	model       string
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex

	available bool
}

// NewOpenAI creates the OpenAI-backed deep-check client.
func NewOpenAI(cfg OpenAIConfig, logger *zerolog.Logger) Client {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}

	return &openaiClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst),
		available:   cfg.APIKey != "",
	}
}

func (c *openaiClient) Name() ProviderName {
	return ProviderOpenAI
}

func (c *openaiClient) IsAvailable() bool {
	return c.available
}

func (c *openaiClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", ErrCircuitBreakerOpen, c.circuitOpenUntil)
	}

	return nil
}

func (c *openaiClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures = 0
}

func (c *openaiClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		observability.LLMCircuitBreakerOpens.WithLabelValues(string(ProviderOpenAI)).Inc()
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}

func (c *openaiClient) DeepCheck(ctx context.Context, rec *domain.FoodRecord) (DeepCheckResult, error) {
	if err := c.checkCircuit(); err != nil {
		return DeepCheckResult{}, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return DeepCheckResult{}, fmt.Errorf("rate limiter: %w", err)
	}

	started := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: deepCheckSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildDeepCheckUserPrompt(rec),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})

	observability.LLMRequestDuration.WithLabelValues(c.model).Observe(time.Since(started).Seconds())

	if err != nil {
		c.recordFailure()

		return DeepCheckResult{}, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.recordFailure()

		return DeepCheckResult{}, errors.New("openai chat completion: empty response")
	}

	c.recordSuccess()

	content := resp.Choices[0].Message.Content
	c.logger.Debug().Str("content", content).Msg("deep check response")

	return parseDeepCheckResponse(content)
}

// parseDeepCheckResponse decodes and schema-validates the model output.
// Anything that does not match the contract is an error the caller routes
// to the check-failed path.
func parseDeepCheckResponse(content string) (DeepCheckResult, error) {
	raw := extractJSON(content)

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return DeepCheckResult{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	if err := validateDeepCheckJSON(doc); err != nil {
		return DeepCheckResult{}, err
	}

	var result DeepCheckResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return DeepCheckResult{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	return result, nil
}
