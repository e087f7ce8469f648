package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaViolation indicates the model returned JSON that does not match
// the deep-check response schema. Callers must treat this as a failed
// check, not a pass.
var ErrSchemaViolation = errors.New("deep check response violates schema")

// deepCheckSchemaJSON is the contract the model response must satisfy.
// additionalProperties stays open so harmless extra keys (e.g. reasoning)
// do not fail an otherwise valid answer.
const deepCheckSchemaJSON = `{
	"type": "object",
	"required": [
		"serving_size_plausible",
		"calories_fat_consistent",
		"micronutrients_plausible",
		"protein_carbs_consistent",
		"protein_quality_plausible",
		"no_obvious_errors",
		"trustworthy",
		"confidence"
	],
	"properties": {
		"serving_size_plausible":    {"type": "boolean"},
		"calories_fat_consistent":   {"type": "boolean"},
		"micronutrients_plausible":  {"type": "boolean"},
		"protein_carbs_consistent":  {"type": "boolean"},
		"protein_quality_plausible": {"type": "boolean"},
		"no_obvious_errors":         {"type": "boolean"},
		"trustworthy":               {"type": "boolean"},
		"confidence":                {"type": "number", "minimum": 0, "maximum": 100}
	}
}`

var deepCheckSchema = jsonschema.MustCompileString("deep_check.json", deepCheckSchemaJSON)

// validateDeepCheckJSON checks a decoded response document against the
// deep-check schema.
func validateDeepCheckJSON(doc interface{}) error {
	if err := deepCheckSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	return nil
}

// extractJSON tries to extract a JSON object from a response that might
// carry extra prose or code fences around it.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
