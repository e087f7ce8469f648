package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeepCheckResponseValid(t *testing.T) {
	content := `{
		"serving_size_plausible": true,
		"calories_fat_consistent": true,
		"micronutrients_plausible": true,
		"protein_carbs_consistent": true,
		"protein_quality_plausible": true,
		"no_obvious_errors": true,
		"trustworthy": true,
		"confidence": 92
	}`

	result, err := parseDeepCheckResponse(content)
	require.NoError(t, err)
	assert.True(t, result.AllPassed())
	assert.InDelta(t, 92.0, result.Confidence, 1e-9)
}

func TestParseDeepCheckResponseWithSurroundingProse(t *testing.T) {
	content := "Here is my assessment:\n```json\n" + `{
		"serving_size_plausible": true,
		"calories_fat_consistent": false,
		"micronutrients_plausible": true,
		"protein_carbs_consistent": true,
		"protein_quality_plausible": true,
		"no_obvious_errors": false,
		"trustworthy": false,
		"confidence": 40
	}` + "\n```"

	result, err := parseDeepCheckResponse(content)
	require.NoError(t, err)
	assert.False(t, result.AllPassed())
	assert.False(t, result.CaloriesFatConsistent)
	assert.InDelta(t, 40.0, result.Confidence, 1e-9)
}

func TestParseDeepCheckResponseMissingKey(t *testing.T) {
	content := `{
		"serving_size_plausible": true,
		"calories_fat_consistent": true,
		"confidence": 92
	}`

	_, err := parseDeepCheckResponse(content)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaViolation))
}

func TestParseDeepCheckResponseWrongType(t *testing.T) {
	content := `{
		"serving_size_plausible": "yes",
		"calories_fat_consistent": true,
		"micronutrients_plausible": true,
		"protein_carbs_consistent": true,
		"protein_quality_plausible": true,
		"no_obvious_errors": true,
		"trustworthy": true,
		"confidence": 92
	}`

	_, err := parseDeepCheckResponse(content)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestParseDeepCheckResponseConfidenceOutOfRange(t *testing.T) {
	content := `{
		"serving_size_plausible": true,
		"calories_fat_consistent": true,
		"micronutrients_plausible": true,
		"protein_carbs_consistent": true,
		"protein_quality_plausible": true,
		"no_obvious_errors": true,
		"trustworthy": true,
		"confidence": 140
	}`

	_, err := parseDeepCheckResponse(content)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestParseDeepCheckResponseNotJSON(t *testing.T) {
	_, err := parseDeepCheckResponse("I cannot assess this food.")
	assert.ErrorIs(t, err, ErrSchemaViolation)
}
