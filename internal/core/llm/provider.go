// Package llm provides the language-model client for the deep validation
// check: a structured prompt asking seven yes/no accuracy questions plus a
// confidence score, returned as a fixed-schema JSON object.
package llm

import (
	"context"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

// ProviderName identifies an LLM provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOpenAI ProviderName = "openai"
	ProviderMock   ProviderName = "mock"
)

// DeepCheckResult is the fixed-schema response to the seven accuracy
// questions. Field order mirrors the prompt.
type DeepCheckResult struct {
	ServingSizePlausible    bool    `json:"serving_size_plausible"`
	CaloriesFatConsistent   bool    `json:"calories_fat_consistent"`
	MicronutrientsPlausible bool    `json:"micronutrients_plausible"`
	ProteinCarbsConsistent  bool    `json:"protein_carbs_consistent"`
	ProteinQualityPlausible bool    `json:"protein_quality_plausible"`
	NoObviousErrors         bool    `json:"no_obvious_errors"`
	Trustworthy             bool    `json:"trustworthy"`
	Confidence              float64 `json:"confidence"`
}

// AllPassed reports whether every boolean dimension is true.
func (r DeepCheckResult) AllPassed() bool {
	return r.ServingSizePlausible &&
		r.CaloriesFatConsistent &&
		r.MicronutrientsPlausible &&
		r.ProteinCarbsConsistent &&
		r.ProteinQualityPlausible &&
		r.NoObviousErrors &&
		r.Trustworthy
}

// Client defines the interface for deep-check providers.
type Client interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// IsAvailable returns true if the provider is configured.
	IsAvailable() bool

	// DeepCheck asks the model the seven accuracy questions about a food
	// record. The response is schema-validated before being returned; a
	// malformed response is an error, never a silently-passing result.
	DeepCheck(ctx context.Context, rec *domain.FoodRecord) (DeepCheckResult, error)
}
