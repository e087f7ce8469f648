package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

func TestAtwaterChickenBreastPasses(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Chicken breast, grilled",
		NutrientProfile: domain.NutrientProfile{Calories: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6},
	}

	// expected = 124 + 0 + 32.4 = 156.4, 5.5% off, within 20%.
	flags := CheckAtwater(rec, testConfig())
	assert.Empty(t, flags)
}

func TestAtwaterDeviationRelativeToExpected(t *testing.T) {
	// expected = 11.2 + 26.4 + 3.6 = 41.2; |34-41.2|/41.2 = 17.5%, inside
	// the 20% tolerance. Measured against reported calories instead this
	// would be 21.2% and a false positive on a USDA-clean vegetable.
	rec := &domain.FoodRecord{
		Name:            "Broccoli, raw",
		NutrientProfile: domain.NutrientProfile{Calories: 34, ProteinG: 2.8, CarbsG: 6.6, FatG: 0.4},
	}

	assert.Empty(t, CheckAtwater(rec, testConfig()))
}

func TestAtwaterZeroMacrosNonzeroCaloriesFails(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Mystery drink",
		NutrientProfile: domain.NutrientProfile{Calories: 500},
	}

	flags := CheckAtwater(rec, testConfig())
	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagAtwaterMismatch, flags[0].Code)
	assert.Equal(t, domain.SeverityWarning, flags[0].Severity)
}

func TestAtwaterSkipsNearZeroCalories(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Black coffee",
		NutrientProfile: domain.NutrientProfile{Calories: 5},
	}

	assert.Empty(t, CheckAtwater(rec, testConfig()))
}

func TestAtwaterAlcoholExcessCaloriesAllowed(t *testing.T) {
	// Plain Atwater expected = 48 for 150 calories, but alcohol calories
	// are untracked by any macro so a reported excess is legitimate.
	rec := &domain.FoodRecord{
		Name:            "Whiskey and cola",
		NutrientProfile: domain.NutrientProfile{Calories: 150, CarbsG: 12},
	}

	assert.Empty(t, CheckAtwater(rec, testConfig()))

	// The same numbers on a non-alcoholic name must flag.
	rec.Name = "Cola, regular"
	flags := CheckAtwater(rec, testConfig())
	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagAtwaterMismatch, flags[0].Code)
}

func TestAtwaterAlcoholUndercountStillFlags(t *testing.T) {
	// Alcohol cannot explain calories below the macro expectation: 30g of
	// carbs alone is 120 kcal, so 20 reported is 83% under, beyond the 50%
	// alcohol tolerance.
	rec := &domain.FoodRecord{
		Name:            "Margarita cocktail mix",
		NutrientProfile: domain.NutrientProfile{Calories: 20, CarbsG: 30},
	}

	flags := CheckAtwater(rec, testConfig())
	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagAtwaterMismatch, flags[0].Code)
}

func TestPhysicsViolation(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Corrupted bar",
		NutrientProfile: domain.NutrientProfile{ProteinG: 50, CarbsG: 80, FatG: 20},
	}

	flags := CheckPhysics(rec, testConfig())
	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagPhysicsViolation, flags[0].Code)
	assert.Equal(t, domain.SeverityCritical, flags[0].Severity)
}

func TestPhysicsAllowsBuffer(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Peanut butter",
		NutrientProfile: domain.NutrientProfile{ProteinG: 25, CarbsG: 20, FatG: 50, FiberG: 8},
	}

	// 103g total, inside the 105g buffer.
	assert.Empty(t, CheckPhysics(rec, testConfig()))
}

func TestRunDeterministicPhysicsIsCritical(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Corrupted bar",
		NutrientProfile: domain.NutrientProfile{Calories: 700, ProteinG: 50, CarbsG: 80, FatG: 20},
	}

	result := RunDeterministic(rec, testConfig())
	assert.True(t, result.Critical())
	assert.NotEmpty(t, result.Flags)
}

func TestBoundsCaloriesBeyondPureFat(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Cooking spray, butter flavor",
		NutrientProfile: domain.NutrientProfile{Calories: 950, ProteinG: 5, FatG: 100},
	}

	flags := CheckBounds(rec)
	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagBoundsViolation, flags[0].Code)
	assert.Equal(t, domain.SeverityCritical, flags[0].Severity)

	// The flag is critical, so the record can never verify.
	verdict := Score(RunDeterministic(rec, testConfig()).Flags)
	assert.False(t, verdict.IsVerified)
	assert.True(t, verdict.NeedsReview)
}

func TestBoundsMacroBeyondBasisWeight(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Protein isolate, corrupted row",
		NutrientProfile: domain.NutrientProfile{Calories: 400, ProteinG: 120},
	}

	codes := flagCodes(CheckBounds(rec))
	assert.Contains(t, codes, domain.FlagBoundsViolation)
}

func TestBoundsRejectsNegativeValues(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Yogurt, plain",
		NutrientProfile: domain.NutrientProfile{Calories: 61, ProteinG: 3.5, CarbsG: -4.7, FatG: 3.3},
	}

	codes := flagCodes(CheckBounds(rec))
	assert.Contains(t, codes, domain.FlagBoundsViolation)
}

func TestBoundsCleanRecordPasses(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Olive oil, extra virgin",
		NutrientProfile: domain.NutrientProfile{Calories: 884, FatG: 100},
	}

	assert.Empty(t, CheckBounds(rec))
}

func TestOutlierVegetableBounds(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Fried zucchini sticks",
		Category:        "Vegetables",
		NutrientProfile: domain.NutrientProfile{Calories: 250, FatG: 18},
	}

	flags := CheckOutliers(rec)
	codes := flagCodes(flags)
	assert.Contains(t, codes, domain.FlagVegetableFatOutlier)
	assert.Contains(t, codes, domain.FlagVegetableCalorieOutlier)
}

func TestOutlierVegetableExceptions(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Avocado, raw",
		Category:        "Vegetables",
		NutrientProfile: domain.NutrientProfile{Calories: 160, FatG: 15},
	}

	assert.Empty(t, CheckOutliers(rec))
}

func TestOutlierFruitProtein(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Banana, dried",
		Category:        "Fruits",
		NutrientProfile: domain.NutrientProfile{Calories: 340, CarbsG: 80, ProteinG: 9},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagFruitProteinOutlier)
}

func TestOutlierProteinSourceLowProtein(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Chicken breast",
		Category:        "Meat",
		NutrientProfile: domain.NutrientProfile{Calories: 165, ProteinG: 2},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagProteinSourceLowProtein)
}

func TestOutlierGrainLowCarbsSkippedForKeto(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Keto bread, almond flour",
		Category:        "Grains, Bread & Pasta",
		NutrientProfile: domain.NutrientProfile{Calories: 180, CarbsG: 6, FatG: 14, ProteinG: 8},
	}

	assert.NotContains(t, flagCodes(CheckOutliers(rec)), domain.FlagGrainLowCarbs)

	rec.Name = "White bread"
	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagGrainLowCarbs)
}

func TestOutlierOilLowFat(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Olive oil, extra virgin",
		Category:        "Fats & Oils",
		NutrientProfile: domain.NutrientProfile{Calories: 884, FatG: 45},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagOilLowFat)
}

func TestMiscategorizationAlcoholAsGrains(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Whiskey and cola",
		Category:        "Grains, Bread & Pasta",
		NutrientProfile: domain.NutrientProfile{Calories: 150, CarbsG: 12},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagAlcoholMiscategorizedAsGrains)
}

func TestMiscategorizationAlcoholAsDairy(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Irish cream liqueur",
		Category:        "Dairy & Eggs",
		NutrientProfile: domain.NutrientProfile{Calories: 327, CarbsG: 25, FatG: 13},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagAlcoholMiscategorizedAsDairy)
}

func TestMiscategorizationOilAsGrains(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Sunflower oil",
		Category:        "Grains, Bread & Pasta",
		NutrientProfile: domain.NutrientProfile{Calories: 884, FatG: 100},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagOilMiscategorizedAsGrains)
}

func TestMiscategorizationSnackAsDairy(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Potato chips, salted",
		Category:        "Dairy & Eggs",
		NutrientProfile: domain.NutrientProfile{Calories: 536, CarbsG: 53, FatG: 34},
	}

	assert.Contains(t, flagCodes(CheckOutliers(rec)), domain.FlagSnackMiscategorizedAsDairy)
}

func TestOutlierCleanBroccoli(t *testing.T) {
	rec := &domain.FoodRecord{
		Name:            "Broccoli, raw",
		Category:        "Vegetables",
		NutrientProfile: domain.NutrientProfile{Calories: 34, ProteinG: 2.8, CarbsG: 6.6, FatG: 0.4},
	}

	result := RunDeterministic(rec, testConfig())
	assert.Empty(t, result.Flags)
	assert.False(t, result.Critical())
}

func flagCodes(flags []domain.Flag) []domain.FlagCode {
	codes := make([]domain.FlagCode, 0, len(flags))
	for _, f := range flags {
		codes = append(codes, f.Code)
	}

	return codes
}
