// Package domain defines the core food record model shared by the
// enrichment and verification pipeline.
package domain

import "time"

// EnrichmentStatus tracks a record's position in the pipeline lifecycle.
type EnrichmentStatus string

// Lifecycle states. A record moves pending -> processing -> completed or
// failed. Failed records re-enter the selection pool after a cooldown.
const (
	StatusPending    EnrichmentStatus = "pending"
	StatusProcessing EnrichmentStatus = "processing"
	StatusCompleted  EnrichmentStatus = "completed"
	StatusFailed     EnrichmentStatus = "failed"
)

// Physical bounds for a verified per-100g record. Pure fat tops out at
// 900 kcal per 100g; the macro sum allows a 5g buffer for water, ash and
// fiber double counting.
const (
	MaxCaloriesPer100g = 900.0
	MaxMacroPer100g    = 100.0
	MaxMacroSum        = 105.0

	// SentinelThreshold marks placeholder values that leaked into nutrient
	// columns. Anything at or above it is corruption, not data.
	SentinelThreshold = 9999.0
)

// NutrientProfile holds nutrient values on a canonical per-100g basis.
type NutrientProfile struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`

	SodiumMg    float64 `json:"sodium_mg"`
	PotassiumMg float64 `json:"potassium_mg"`
	CalciumMg   float64 `json:"calcium_mg"`
	IronMg      float64 `json:"iron_mg"`
	VitaminAMcg float64 `json:"vitamin_a_mcg"`
	VitaminCMg  float64 `json:"vitamin_c_mg"`
	VitaminDMcg float64 `json:"vitamin_d_mcg"`
}

// MacroSum returns protein + carbs + fat in grams.
func (p NutrientProfile) MacroSum() float64 {
	return p.ProteinG + p.CarbsG + p.FatG
}

// Empty reports whether the profile carries no usable data at all.
func (p NutrientProfile) Empty() bool {
	return p.Calories == 0 && p.ProteinG == 0 && p.CarbsG == 0 && p.FatG == 0
}

// HasSentinelValues reports whether any nutrient field holds a placeholder
// value leaked from an upstream importer.
func (p NutrientProfile) HasSentinelValues() bool {
	fields := []float64{
		p.Calories, p.ProteinG, p.CarbsG, p.FatG, p.FiberG, p.SugarG,
		p.SodiumMg, p.PotassiumMg, p.CalciumMg, p.IronMg,
		p.VitaminAMcg, p.VitaminCMg, p.VitaminDMcg,
	}
	for _, v := range fields {
		if v >= SentinelThreshold {
			return true
		}
	}

	return false
}

// Scale returns the profile multiplied by factor. Used when converting
// serving-based values to the per-100g basis.
func (p NutrientProfile) Scale(factor float64) NutrientProfile {
	return NutrientProfile{
		Calories:    p.Calories * factor,
		ProteinG:    p.ProteinG * factor,
		CarbsG:      p.CarbsG * factor,
		FatG:        p.FatG * factor,
		FiberG:      p.FiberG * factor,
		SugarG:      p.SugarG * factor,
		SodiumMg:    p.SodiumMg * factor,
		PotassiumMg: p.PotassiumMg * factor,
		CalciumMg:   p.CalciumMg * factor,
		IronMg:      p.IronMg * factor,
		VitaminAMcg: p.VitaminAMcg * factor,
		VitaminCMg:  p.VitaminCMg * factor,
		VitaminDMcg: p.VitaminDMcg * factor,
	}
}

// FoodRecord is the unit of work for the pipeline.
type FoodRecord struct {
	ID       string
	Name     string
	Brand    string
	Category string

	NutrientProfile

	// Original serving metadata, used only for normalization. Once the
	// record is normalized the per-100g nutrient fields are authoritative.
	ServingAmount float64
	ServingUnit   string

	Status       EnrichmentStatus
	IsVerified   bool
	NeedsReview  bool
	ReviewFlags  []string
	QualityScore int

	LastEnrichment   time.Time
	LastVerification time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NeedsNormalization reports whether the record still carries serving-based
// values. Records with no serving metadata or an exact 100g serving are
// already on the canonical basis.
func (r *FoodRecord) NeedsNormalization() bool {
	if r.ServingUnit == "" || r.ServingAmount <= 0 {
		return false
	}

	return !(r.ServingAmount == 100 && (r.ServingUnit == "g" || r.ServingUnit == "ml"))
}

// NeedsEnrichment reports whether the record is missing its core nutrient
// data and should be looked up against the external reference API.
func (r *FoodRecord) NeedsEnrichment() bool {
	return r.NutrientProfile.Empty()
}

// ReferenceFood is an authoritative (name, per-100g profile) pair from the
// read-only reference corpus used by the semantic validator.
type ReferenceFood struct {
	ID       string
	Name     string
	Category string
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64

	// Distance is the vector distance to the query embedding, populated
	// only on nearest-neighbor lookups.
	Distance float64
}
