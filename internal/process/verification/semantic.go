package verification

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/core/embeddings"
	"github.com/fitstack/food-enrichment/internal/platform/config"
)

// ReferenceSearcher retrieves the nearest reference corpus entries for an
// embedding. Implemented by the pgvector-backed store.
type ReferenceSearcher interface {
	NearestReferences(ctx context.Context, embedding []float32, k int) ([]domain.ReferenceFood, error)
}

// SemanticOutcome distinguishes a clean pass, a flagged anomaly, and an
// inconclusive run (embedding service down, corpus too small). Inconclusive
// is not a failure: the deep validator still runs and can catch the same
// problems independently.
type SemanticOutcome struct {
	Flags        []domain.Flag
	Inconclusive bool
}

// SemanticValidator embeds a record's textual nutrient summary and compares
// it against the distribution of its k nearest known-good reference foods.
type SemanticValidator struct {
	embedder    embeddings.Provider
	refs        ReferenceSearcher
	neighbors   int
	stdDevLimit float64
	logger      *zerolog.Logger
}

func NewSemanticValidator(
	embedder embeddings.Provider,
	refs ReferenceSearcher,
	cfg *config.Config,
	logger *zerolog.Logger,
) *SemanticValidator {
	return &SemanticValidator{
		embedder:    embedder,
		refs:        refs,
		neighbors:   cfg.SemanticNeighbors,
		stdDevLimit: cfg.SemanticStdDevLimit,
		logger:      logger,
	}
}

// Validate embeds the record summary, fetches its reference neighborhood
// and flags the record when any macro deviates more than the configured
// number of standard deviations from the neighborhood distribution.
func (v *SemanticValidator) Validate(ctx context.Context, rec *domain.FoodRecord) SemanticOutcome {
	if !v.embedder.IsAvailable() {
		return v.inconclusive(rec, "embedding provider unavailable", nil)
	}

	result, err := v.embedder.GetEmbedding(ctx, nutrientSummary(rec))
	if err != nil {
		return v.inconclusive(rec, "embedding failed", err)
	}

	neighbors, err := v.refs.NearestReferences(ctx, result.Vector, v.neighbors)
	if err != nil {
		return v.inconclusive(rec, "reference lookup failed", err)
	}

	// A single neighbor has no distribution to deviate from.
	if len(neighbors) < 2 {
		return v.inconclusive(rec, "reference corpus too small", nil)
	}

	if detail, anomalous := v.deviation(rec, neighbors); anomalous {
		return SemanticOutcome{Flags: []domain.Flag{
			domain.NewFlag(domain.FlagSemanticAnomaly, detail),
		}}
	}

	return SemanticOutcome{}
}

// deviation computes per-macro z-scores against the neighborhood and
// reports the first dimension that exceeds the limit.
func (v *SemanticValidator) deviation(rec *domain.FoodRecord, neighbors []domain.ReferenceFood) (string, bool) {
	dims := []struct {
		name   string
		value  float64
		sample func(domain.ReferenceFood) float64
	}{
		{"calories", rec.Calories, func(r domain.ReferenceFood) float64 { return r.Calories }},
		{"protein_g", rec.ProteinG, func(r domain.ReferenceFood) float64 { return r.ProteinG }},
		{"carbs_g", rec.CarbsG, func(r domain.ReferenceFood) float64 { return r.CarbsG }},
		{"fat_g", rec.FatG, func(r domain.ReferenceFood) float64 { return r.FatG }},
	}

	for _, dim := range dims {
		values := make([]float64, len(neighbors))
		for i, n := range neighbors {
			values[i] = dim.sample(n)
		}

		mean, stdDev := meanStdDev(values)
		if stdDev < 1e-9 {
			// Degenerate neighborhood: identical values carry no spread to
			// measure against, skip this dimension.
			continue
		}

		z := math.Abs(dim.value-mean) / stdDev
		if z > v.stdDevLimit {
			return fmt.Sprintf("%s %.1f is %.1f std devs from neighborhood mean %.1f",
				dim.name, dim.value, z, mean), true
		}
	}

	return "", false
}

func (v *SemanticValidator) inconclusive(rec *domain.FoodRecord, reason string, err error) SemanticOutcome {
	evt := v.logger.Warn().Str("food_id", rec.ID).Str("reason", reason)
	if err != nil {
		evt = evt.Err(err)
	}

	evt.Msg("semantic check inconclusive")

	return SemanticOutcome{Inconclusive: true}
}

// nutrientSummary renders the canonical text the embedding is computed
// over. The reference corpus is embedded with the same template.
func nutrientSummary(rec *domain.FoodRecord) string {
	return fmt.Sprintf("%s — 100g serving — %.0f calories, %.1fg protein, %.1fg carbs, %.1fg fat",
		rec.Name, rec.Calories, rec.ProteinG, rec.CarbsG, rec.FatG)
}

// ReferenceSummary renders the same template for a corpus entry, used by
// the seeding tool so query and corpus embeddings share one text shape.
func ReferenceSummary(ref domain.ReferenceFood) string {
	return fmt.Sprintf("%s — 100g serving — %.0f calories, %.1fg protein, %.1fg carbs, %.1fg fat",
		ref.Name, ref.Calories, ref.ProteinG, ref.CarbsG, ref.FatG)
}

func meanStdDev(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
