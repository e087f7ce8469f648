package verification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/core/llm"
	"github.com/fitstack/food-enrichment/internal/platform/config"
)

// DeepValidator runs the LLM deep check and maps the seven-boolean
// response onto flags. A transport error or malformed response is not a
// pass: there is insufficient evidence to verify, so the record is flagged
// for review.
type DeepValidator struct {
	client          llm.Client
	confidenceFloor float64
	logger          *zerolog.Logger
}

func NewDeepValidator(client llm.Client, cfg *config.Config, logger *zerolog.Logger) *DeepValidator {
	return &DeepValidator{
		client:          client,
		confidenceFloor: cfg.DeepConfidenceFloor,
		logger:          logger,
	}
}

// Validate returns one flag per failing dimension. An empty list means the
// model answered yes to all seven questions with confidence at or above
// the floor.
func (v *DeepValidator) Validate(ctx context.Context, rec *domain.FoodRecord) []domain.Flag {
	result, err := v.client.DeepCheck(ctx, rec)
	if err != nil {
		v.logger.Warn().Err(err).Str("food_id", rec.ID).Msg("deep check unusable response")

		return []domain.Flag{domain.NewFlag(domain.FlagGPTResponseInvalid, err.Error())}
	}

	var flags []domain.Flag

	questions := []struct {
		passed bool
		code   domain.FlagCode
	}{
		{result.ServingSizePlausible, domain.FlagGPTServingInvalid},
		{result.CaloriesFatConsistent, domain.FlagGPTCaloriesFatInvalid},
		{result.MicronutrientsPlausible, domain.FlagGPTMicronutrientsInvalid},
		{result.ProteinCarbsConsistent, domain.FlagGPTProteinCarbsInvalid},
		{result.ProteinQualityPlausible, domain.FlagGPTProteinQualityInvalid},
		{result.NoObviousErrors, domain.FlagGPTObviousErrors},
		{result.Trustworthy, domain.FlagGPTNotTrustworthy},
	}

	for _, q := range questions {
		if !q.passed {
			flags = append(flags, domain.NewFlag(q.code, "model answered no"))
		}
	}

	if result.Confidence < v.confidenceFloor {
		flags = append(flags, domain.NewFlag(domain.FlagGPTLowConfidence,
			fmt.Sprintf("confidence %.0f below floor %.0f", result.Confidence, v.confidenceFloor)))
	}

	return flags
}
