package verification

import (
	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/platform/config"
)

// Normalizer converts serving-based nutrient values to the canonical
// per-100g basis, refusing any conversion that could amplify bad data.
// The refusal rules encode the lesson from a production incident where
// aggressive normalization of small servings produced impossible macro
// values on ~130 records.
type Normalizer struct {
	minServingG   float64
	maxServingG   float64
	maxMultiplier float64
	logger        *zerolog.Logger
}

// NewNormalizer builds a Normalizer from configured bounds.
func NewNormalizer(cfg *config.Config, logger *zerolog.Logger) *Normalizer {
	return &Normalizer{
		minServingG:   cfg.NormalizerMinServingG,
		maxServingG:   cfg.NormalizerMaxServingG,
		maxMultiplier: cfg.NormalizerMaxMultiplier,
		logger:        logger,
	}
}

// Normalize returns the per-100g profile for a record's serving-based
// values, or ok=false when conversion is unsafe. Refusal is not an error:
// the caller proceeds with the original values or leaves the record
// pending.
func (n *Normalizer) Normalize(rec *domain.FoodRecord) (domain.NutrientProfile, bool) {
	if isSupplementName(rec.Name) {
		n.refuse(rec, "supplement-like name")

		return domain.NutrientProfile{}, false
	}

	// Only gram and milliliter servings convert safely; anything else
	// ("1 cup", "2 scoops") has no reliable mass.
	if rec.ServingUnit != "g" && rec.ServingUnit != "ml" {
		n.refuse(rec, "non-gram serving unit")

		return domain.NutrientProfile{}, false
	}

	if rec.ServingAmount < n.minServingG || rec.ServingAmount > n.maxServingG {
		n.refuse(rec, "serving outside safe range")

		return domain.NutrientProfile{}, false
	}

	multiplier := 100 / rec.ServingAmount
	if multiplier > n.maxMultiplier {
		n.refuse(rec, "multiplier too aggressive")

		return domain.NutrientProfile{}, false
	}

	scaled := rec.NutrientProfile.Scale(multiplier)

	// If the scaled output breaks physical bounds the input was already
	// bad; keep the original values rather than amplifying them.
	if scaled.Calories > domain.MaxCaloriesPer100g ||
		scaled.ProteinG > domain.MaxMacroPer100g ||
		scaled.CarbsG > domain.MaxMacroPer100g ||
		scaled.FatG > domain.MaxMacroPer100g ||
		scaled.MacroSum() > domain.MaxMacroSum {
		n.refuse(rec, "scaled values violate physical bounds")

		return domain.NutrientProfile{}, false
	}

	return scaled, true
}

func (n *Normalizer) refuse(rec *domain.FoodRecord, reason string) {
	n.logger.Info().
		Str("food_id", rec.ID).
		Str("name", rec.Name).
		Float64("serving_amount", rec.ServingAmount).
		Str("serving_unit", rec.ServingUnit).
		Str("reason", reason).
		Msg("normalization refused")
}
