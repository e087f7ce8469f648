package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quotes stripped", `"Cheddar" cheese`, "Cheddar cheese"},
		{"slashes collapsed", "half/half cream", "half half cream"},
		{"whitespace collapsed", "  peanut   butter ", "peanut butter"},
		{"diacritics folded", "jalapeño açaí", "jalapeno acai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeQuery(tt.input))
		})
	}
}

func TestSearchQueriesOrder(t *testing.T) {
	queries := searchQueries("Broccoli, raw (frozen)", "GreenFarm")

	assert.Equal(t, []string{
		"GreenFarm Broccoli, raw (frozen)",
		"Broccoli",
	}, queries)
}

func TestSearchQueriesWithoutBrand(t *testing.T) {
	queries := searchQueries("Greek Yogurt, plain", "")

	assert.Equal(t, []string{"Greek Yogurt", "Greek"}, queries)
}

func TestFirstSignificantTokenSkipsDescriptors(t *testing.T) {
	assert.Equal(t, "almonds", firstSignificantToken("raw organic almonds"))
	assert.Equal(t, "", firstSignificantToken("raw"))
}
