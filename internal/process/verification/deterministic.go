package verification

import (
	"fmt"
	"math"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/platform/config"
)

// Atwater energy factors, kcal per gram.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// Per-100g outlier bounds by category expectation.
const (
	vegetableMaxFatG      = 10.0
	vegetableMaxCalories  = 100.0
	fruitMaxProteinG      = 5.0
	proteinSourceMinG     = 10.0
	grainMinCarbsG        = 40.0
	oilMinFatG            = 80.0
	normalizedBasisWeight = 100.0
)

// DeterministicResult carries the flags from all checks. A critical flag
// (bounds or physics violation) means the record is known-bad and the
// semantic and deep validators are skipped rather than spending external
// calls on it.
type DeterministicResult struct {
	Flags []domain.Flag
}

// Critical reports whether any check produced a critical flag, gating the
// downstream validators.
func (r DeterministicResult) Critical() bool {
	return domain.HasCritical(r.Flags)
}

// RunDeterministic evaluates all checks. They are independent and never
// short-circuit each other; only downstream stages are gated.
func RunDeterministic(rec *domain.FoodRecord, cfg *config.Config) DeterministicResult {
	var result DeterministicResult

	result.Flags = append(result.Flags, CheckBounds(rec)...)
	result.Flags = append(result.Flags, CheckAtwater(rec, cfg)...)
	result.Flags = append(result.Flags, CheckPhysics(rec, cfg)...)
	result.Flags = append(result.Flags, CheckOutliers(rec)...)

	return result
}

// CheckBounds enforces the per-100g physical ceilings regardless of how
// the values arrived: calories bounded by pure fat, each macro bounded by
// the basis weight. The normalizer refuses conversions that would break
// these, but records that come in already normalized, or enriched from the
// reference API, never pass through it. Critical severity.
func CheckBounds(rec *domain.FoodRecord) []domain.Flag {
	var flags []domain.Flag

	if rec.Calories < 0 || rec.Calories > domain.MaxCaloriesPer100g {
		flags = append(flags, domain.NewFlag(domain.FlagBoundsViolation,
			fmt.Sprintf("%.1f kcal outside [0, %.0f] per 100g", rec.Calories, domain.MaxCaloriesPer100g)))
	}

	macros := []struct {
		name  string
		value float64
	}{
		{"protein_g", rec.ProteinG},
		{"carbs_g", rec.CarbsG},
		{"fat_g", rec.FatG},
	}

	for _, m := range macros {
		if m.value < 0 || m.value > domain.MaxMacroPer100g {
			flags = append(flags, domain.NewFlag(domain.FlagBoundsViolation,
				fmt.Sprintf("%s %.1f outside [0, %.0f] per 100g", m.name, m.value, domain.MaxMacroPer100g)))
		}
	}

	return flags
}

// CheckAtwater validates calories against the 4/4/9 model, measuring the
// discrepancy relative to the macro-derived expectation. Alcoholic
// beverages get a one-sided check: alcohol contributes ~7 kcal/g that no
// macro field tracks, so reported calories legitimately exceed the
// expectation by any amount, and only an under-count beyond the widened
// tolerance is suspicious. Near-zero-calorie foods are dominated by
// rounding and are skipped.
func CheckAtwater(rec *domain.FoodRecord, cfg *config.Config) []domain.Flag {
	if rec.Calories < cfg.AtwaterMinCalories {
		return nil
	}

	expected := kcalPerGramProtein*rec.ProteinG + kcalPerGramCarbs*rec.CarbsG + kcalPerGramFat*rec.FatG

	if isAlcoholName(rec.Name) {
		if expected > rec.Calories {
			diff := (expected - rec.Calories) / expected
			if diff > cfg.AtwaterAlcoholTolerance {
				return []domain.Flag{domain.NewFlag(domain.FlagAtwaterMismatch,
					fmt.Sprintf("calories %.1f under atwater %.1f by %.0f%%, alcohol tolerance %.0f%%",
						rec.Calories, expected, diff*100, cfg.AtwaterAlcoholTolerance*100))}
			}
		}

		return nil
	}

	// Nonzero calories with zero macro energy cannot be reconciled at all.
	if expected <= 0 {
		return []domain.Flag{domain.NewFlag(domain.FlagAtwaterMismatch,
			fmt.Sprintf("calories %.1f with zero macro energy", rec.Calories))}
	}

	diff := math.Abs(rec.Calories-expected) / expected
	if diff > cfg.AtwaterTolerance {
		return []domain.Flag{domain.NewFlag(domain.FlagAtwaterMismatch,
			fmt.Sprintf("calories %.1f vs atwater %.1f (%.0f%% off, tolerance %.0f%%)",
				rec.Calories, expected, diff*100, cfg.AtwaterTolerance*100))}
	}

	return nil
}

// CheckPhysics enforces mass conservation: macros plus fiber cannot weigh
// more than the serving itself, with a small buffer for water/ash/fiber
// double counting. Critical severity.
func CheckPhysics(rec *domain.FoodRecord, cfg *config.Config) []domain.Flag {
	total := rec.ProteinG + rec.CarbsG + rec.FatG + rec.FiberG
	limit := normalizedBasisWeight + cfg.PhysicsBufferG

	if total > limit {
		return []domain.Flag{domain.NewFlag(domain.FlagPhysicsViolation,
			fmt.Sprintf("%.1fg of macros+fiber in a %.0fg basis", total, normalizedBasisWeight))}
	}

	return nil
}

// CheckOutliers applies category-conditioned range rules and detects
// mis-categorizations. Category drives which rules apply elsewhere in the
// system, so a wrong category is itself flag-worthy.
func CheckOutliers(rec *domain.FoodRecord) []domain.Flag {
	var flags []domain.Flag

	flags = append(flags, checkCategoryRanges(rec)...)
	flags = append(flags, checkCategorization(rec)...)

	return flags
}

func checkCategoryRanges(rec *domain.FoodRecord) []domain.Flag {
	var flags []domain.Flag

	if isVegetableCategory(rec.Category) && !isVegetableException(rec.Name) {
		if rec.FatG >= vegetableMaxFatG {
			flags = append(flags, domain.NewFlag(domain.FlagVegetableFatOutlier,
				fmt.Sprintf("%.1fg fat for a vegetable", rec.FatG)))
		}

		if rec.Calories >= vegetableMaxCalories {
			flags = append(flags, domain.NewFlag(domain.FlagVegetableCalorieOutlier,
				fmt.Sprintf("%.0f kcal for a vegetable", rec.Calories)))
		}
	}

	if isFruitCategory(rec.Category) && rec.ProteinG >= fruitMaxProteinG {
		flags = append(flags, domain.NewFlag(domain.FlagFruitProteinOutlier,
			fmt.Sprintf("%.1fg protein for a fruit", rec.ProteinG)))
	}

	if isProteinSourceName(rec.Name) && rec.ProteinG <= proteinSourceMinG {
		flags = append(flags, domain.NewFlag(domain.FlagProteinSourceLowProtein,
			fmt.Sprintf("%.1fg protein for a named protein source", rec.ProteinG)))
	}

	if isGrainName(rec.Name) && !isLowCarbName(rec.Name) && rec.CarbsG <= grainMinCarbsG {
		flags = append(flags, domain.NewFlag(domain.FlagGrainLowCarbs,
			fmt.Sprintf("%.1fg carbs for a grain product", rec.CarbsG)))
	}

	if isOilName(rec.Name) && rec.FatG <= oilMinFatG {
		flags = append(flags, domain.NewFlag(domain.FlagOilLowFat,
			fmt.Sprintf("%.1fg fat for an oil", rec.FatG)))
	}

	return flags
}

func checkCategorization(rec *domain.FoodRecord) []domain.Flag {
	var flags []domain.Flag

	if isAlcoholName(rec.Name) {
		if isGrainCategory(rec.Category) {
			flags = append(flags, domain.NewFlag(domain.FlagAlcoholMiscategorizedAsGrains,
				"alcoholic beverage categorized as grains"))
		}

		if isDairyCategory(rec.Category) {
			flags = append(flags, domain.NewFlag(domain.FlagAlcoholMiscategorizedAsDairy,
				"alcoholic beverage categorized as dairy"))
		}
	}

	if isOilName(rec.Name) && isGrainCategory(rec.Category) {
		flags = append(flags, domain.NewFlag(domain.FlagOilMiscategorizedAsGrains,
			"oil categorized as grains"))
	}

	if isSnackName(rec.Name) && isDairyCategory(rec.Category) {
		flags = append(flags, domain.NewFlag(domain.FlagSnackMiscategorizedAsDairy,
			"snack categorized as dairy"))
	}

	return flags
}
