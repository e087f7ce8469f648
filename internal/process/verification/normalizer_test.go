package verification

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/platform/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DeepConfidenceFloor:     80,
		SemanticNeighbors:       5,
		SemanticStdDevLimit:     2.0,
		AtwaterTolerance:        0.20,
		AtwaterAlcoholTolerance: 0.50,
		AtwaterMinCalories:      10,
		PhysicsBufferG:          5,
		NormalizerMinServingG:   30,
		NormalizerMaxServingG:   500,
		NormalizerMaxMultiplier: 5.0,
	}
}

func testNormalizer() *Normalizer {
	logger := zerolog.Nop()

	return NewNormalizer(testConfig(), &logger)
}

func TestNormalizeScalesToPer100g(t *testing.T) {
	n := testNormalizer()

	rec := &domain.FoodRecord{
		Name:          "Greek yogurt, plain",
		ServingAmount: 200,
		ServingUnit:   "g",
		NutrientProfile: domain.NutrientProfile{
			Calories: 120,
			ProteinG: 20,
			CarbsG:   8,
			FatG:     1,
		},
	}

	profile, ok := n.Normalize(rec)
	require.True(t, ok)

	assert.InDelta(t, 60.0, profile.Calories, 1e-9)
	assert.InDelta(t, 10.0, profile.ProteinG, 1e-9)
	assert.InDelta(t, 4.0, profile.CarbsG, 1e-9)
	assert.InDelta(t, 0.5, profile.FatG, 1e-9)
}

func TestNormalizeRefusesSmallServing(t *testing.T) {
	n := testNormalizer()

	// 14g serving with 1g protein: naive normalization would produce 7.14g,
	// which is exactly the amplification that corrupted real data.
	rec := &domain.FoodRecord{
		Name:            "Soy sauce",
		ServingAmount:   14,
		ServingUnit:     "g",
		NutrientProfile: domain.NutrientProfile{Calories: 9, ProteinG: 1},
	}

	_, ok := n.Normalize(rec)
	assert.False(t, ok)
}

func TestNormalizeRefusesBelowMinimumBoundary(t *testing.T) {
	n := testNormalizer()

	for _, amount := range []float64{0.5, 5, 29.9} {
		rec := &domain.FoodRecord{
			Name:            "Hot sauce",
			ServingAmount:   amount,
			ServingUnit:     "g",
			NutrientProfile: domain.NutrientProfile{Calories: 5},
		}

		_, ok := n.Normalize(rec)
		assert.False(t, ok, "serving %.1fg must be refused", amount)
	}
}

func TestNormalizeRefusesOversizedServing(t *testing.T) {
	n := testNormalizer()

	rec := &domain.FoodRecord{
		Name:            "Family lasagna tray",
		ServingAmount:   750,
		ServingUnit:     "g",
		NutrientProfile: domain.NutrientProfile{Calories: 1200, ProteinG: 60, CarbsG: 90, FatG: 55},
	}

	_, ok := n.Normalize(rec)
	assert.False(t, ok)
}

func TestNormalizeRefusesSupplements(t *testing.T) {
	n := testNormalizer()

	rec := &domain.FoodRecord{
		Name:            "Daily Multivitamin Tablets",
		ServingAmount:   100,
		ServingUnit:     "g",
		NutrientProfile: domain.NutrientProfile{Calories: 10},
	}

	_, ok := n.Normalize(rec)
	assert.False(t, ok)
}

func TestNormalizeRefusesNonGramUnits(t *testing.T) {
	n := testNormalizer()

	rec := &domain.FoodRecord{
		Name:            "Protein shake",
		ServingAmount:   2,
		ServingUnit:     "scoop",
		NutrientProfile: domain.NutrientProfile{Calories: 240, ProteinG: 48},
	}

	_, ok := n.Normalize(rec)
	assert.False(t, ok)
}

func TestNormalizeRefusesWhenScaledOutputViolatesBounds(t *testing.T) {
	n := testNormalizer()

	// 40g serving passes the range checks, but scaling by 2.5 pushes the
	// macro sum past the physical ceiling. Bad input, keep originals.
	rec := &domain.FoodRecord{
		Name:          "Trail mix",
		ServingAmount: 40,
		ServingUnit:   "g",
		NutrientProfile: domain.NutrientProfile{
			Calories: 250,
			ProteinG: 10,
			CarbsG:   20,
			FatG:     15,
			FiberG:   3,
		},
	}

	// MacroSum scaled: (10+20+15)*2.5 = 112.5 > 105.
	_, ok := n.Normalize(rec)
	assert.False(t, ok)
}

func TestNormalizeAcceptsMilliliters(t *testing.T) {
	n := testNormalizer()

	rec := &domain.FoodRecord{
		Name:            "Orange juice",
		ServingAmount:   250,
		ServingUnit:     "ml",
		NutrientProfile: domain.NutrientProfile{Calories: 112, CarbsG: 26},
	}

	profile, ok := n.Normalize(rec)
	require.True(t, ok)
	assert.InDelta(t, 44.8, profile.Calories, 1e-9)
}
