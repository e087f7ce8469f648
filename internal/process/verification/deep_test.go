package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/core/llm"
)

func newDeep(t *testing.T, client llm.Client) *DeepValidator {
	t.Helper()

	logger := zerolog.Nop()

	return NewDeepValidator(client, testConfig(), &logger)
}

func TestDeepAllPassNoFlags(t *testing.T) {
	v := newDeep(t, llm.NewMockClient())

	flags := v.Validate(context.Background(), &domain.FoodRecord{Name: "Broccoli, raw"})
	assert.Empty(t, flags)
}

func TestDeepOneFlagPerFailingQuestion(t *testing.T) {
	client := llm.NewMockClient()
	client.Result = &llm.DeepCheckResult{
		ServingSizePlausible:    false,
		CaloriesFatConsistent:   true,
		MicronutrientsPlausible: false,
		ProteinCarbsConsistent:  true,
		ProteinQualityPlausible: true,
		NoObviousErrors:         false,
		Trustworthy:             true,
		Confidence:              90,
	}

	flags := newDeep(t, client).Validate(context.Background(), &domain.FoodRecord{Name: "Mystery bar"})

	codes := flagCodes(flags)
	assert.ElementsMatch(t, []domain.FlagCode{
		domain.FlagGPTServingInvalid,
		domain.FlagGPTMicronutrientsInvalid,
		domain.FlagGPTObviousErrors,
	}, codes)
}

func TestDeepLowConfidenceFlagsEvenWhenAllYes(t *testing.T) {
	client := llm.NewMockClient()
	client.Result = &llm.DeepCheckResult{
		ServingSizePlausible:    true,
		CaloriesFatConsistent:   true,
		MicronutrientsPlausible: true,
		ProteinCarbsConsistent:  true,
		ProteinQualityPlausible: true,
		NoObviousErrors:         true,
		Trustworthy:             true,
		Confidence:              79,
	}

	flags := newDeep(t, client).Validate(context.Background(), &domain.FoodRecord{Name: "Broccoli, raw"})

	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagGPTLowConfidence, flags[0].Code)
}

func TestDeepConfidenceExactlyAtFloorPasses(t *testing.T) {
	client := llm.NewMockClient()
	client.Result = &llm.DeepCheckResult{
		ServingSizePlausible:    true,
		CaloriesFatConsistent:   true,
		MicronutrientsPlausible: true,
		ProteinCarbsConsistent:  true,
		ProteinQualityPlausible: true,
		NoObviousErrors:         true,
		Trustworthy:             true,
		Confidence:              80,
	}

	assert.Empty(t, newDeep(t, client).Validate(context.Background(), &domain.FoodRecord{}))
}

func TestDeepErrorIsFlaggedNotPassed(t *testing.T) {
	client := llm.NewMockClient()
	client.Err = errors.New("malformed response")

	flags := newDeep(t, client).Validate(context.Background(), &domain.FoodRecord{Name: "Broccoli, raw"})

	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagGPTResponseInvalid, flags[0].Code)
}
