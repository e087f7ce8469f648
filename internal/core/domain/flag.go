package domain

// Severity classifies how strongly a flag should gate downstream processing.
type Severity string

// Severity levels. Critical flags short-circuit the remaining validators;
// warnings only route the record to human review.
const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// FlagCode is a discrete, named outcome of a single validation check.
// The set is closed: every code the pipeline can produce is listed here.
type FlagCode string

// Deterministic check flags.
const (
	FlagSentinelValue    FlagCode = "SENTINEL_VALUE"
	FlagBoundsViolation  FlagCode = "BOUNDS_VIOLATION"
	FlagAtwaterMismatch  FlagCode = "ATWATER_MISMATCH"
	FlagPhysicsViolation FlagCode = "PHYSICS_VIOLATION"

	FlagVegetableFatOutlier     FlagCode = "VEGETABLE_FAT_OUTLIER"
	FlagVegetableCalorieOutlier FlagCode = "VEGETABLE_CALORIE_OUTLIER"
	FlagFruitProteinOutlier     FlagCode = "FRUIT_PROTEIN_OUTLIER"
	FlagProteinSourceLowProtein FlagCode = "PROTEIN_SOURCE_LOW_PROTEIN"
	FlagGrainLowCarbs           FlagCode = "GRAIN_LOW_CARBS"
	FlagOilLowFat               FlagCode = "OIL_LOW_FAT"

	FlagAlcoholMiscategorizedAsGrains FlagCode = "ALCOHOL_MISCATEGORIZED_AS_GRAINS"
	FlagAlcoholMiscategorizedAsDairy  FlagCode = "ALCOHOL_MISCATEGORIZED_AS_DAIRY"
	FlagOilMiscategorizedAsGrains     FlagCode = "OIL_MISCATEGORIZED_AS_GRAINS"
	FlagSnackMiscategorizedAsDairy    FlagCode = "SNACK_MISCATEGORIZED_AS_DAIRY"
)

// Semantic check flags.
const (
	FlagSemanticAnomaly FlagCode = "SEMANTIC_ANOMALY"
)

// Deep (LLM) check flags, one per failing question plus the low-confidence
// and unparseable-response outcomes.
const (
	FlagGPTServingInvalid        FlagCode = "GPT_SERVING_INVALID"
	FlagGPTCaloriesFatInvalid    FlagCode = "GPT_CALORIES_FAT_INVALID"
	FlagGPTMicronutrientsInvalid FlagCode = "GPT_MICRONUTRIENTS_INVALID"
	FlagGPTProteinCarbsInvalid   FlagCode = "GPT_PROTEIN_CARBS_INVALID"
	FlagGPTProteinQualityInvalid FlagCode = "GPT_PROTEIN_QUALITY_INVALID"
	FlagGPTObviousErrors         FlagCode = "GPT_OBVIOUS_ERRORS"
	FlagGPTNotTrustworthy        FlagCode = "GPT_NOT_TRUSTWORTHY"
	FlagGPTLowConfidence         FlagCode = "GPT_LOW_CONFIDENCE"
	FlagGPTResponseInvalid       FlagCode = "GPT_RESPONSE_INVALID"
)

// flagSeverities maps every known code to its severity. Codes not listed
// default to warning.
var flagSeverities = map[FlagCode]Severity{
	FlagSentinelValue:    SeverityCritical,
	FlagBoundsViolation:  SeverityCritical,
	FlagPhysicsViolation: SeverityCritical,
}

// Flag attaches a validation outcome to a record.
type Flag struct {
	Code     FlagCode
	Severity Severity
	Detail   string
}

// NewFlag builds a Flag with the severity registered for its code.
func NewFlag(code FlagCode, detail string) Flag {
	sev, ok := flagSeverities[code]
	if !ok {
		sev = SeverityWarning
	}

	return Flag{Code: code, Severity: sev, Detail: detail}
}

func (f Flag) String() string {
	return string(f.Code)
}

// FlagCodes extracts the ordered code list for persistence.
func FlagCodes(flags []Flag) []string {
	codes := make([]string, len(flags))
	for i, f := range flags {
		codes[i] = string(f.Code)
	}

	return codes
}

// HasCritical reports whether any flag in the list is critical.
func HasCritical(flags []Flag) bool {
	for _, f := range flags {
		if f.Severity == SeverityCritical {
			return true
		}
	}

	return false
}
