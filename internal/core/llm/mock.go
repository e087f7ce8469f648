package llm

import (
	"context"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

// MockClient implements Client for tests and keyless local runs.
type MockClient struct {
	// Result is returned from every DeepCheck call. The zero value is
	// replaced by an all-pass response with confidence 95.
	Result *DeepCheckResult

	// Err, when set, is returned instead of a result.
	Err error

	// Calls counts DeepCheck invocations, used to assert short-circuits.
	Calls int
}

// NewMockClient creates a mock client that passes every record.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Name() ProviderName {
	return ProviderMock
}

func (c *MockClient) IsAvailable() bool {
	return true
}

func (c *MockClient) DeepCheck(_ context.Context, _ *domain.FoodRecord) (DeepCheckResult, error) {
	c.Calls++

	if c.Err != nil {
		return DeepCheckResult{}, c.Err
	}

	if c.Result != nil {
		return *c.Result, nil
	}

	return DeepCheckResult{
		ServingSizePlausible:    true,
		CaloriesFatConsistent:   true,
		MicronutrientsPlausible: true,
		ProteinCarbsConsistent:  true,
		ProteinQualityPlausible: true,
		NoObviousErrors:         true,
		Trustworthy:             true,
		Confidence:              95,
	}, nil
}
