package verification

import "github.com/fitstack/food-enrichment/internal/core/domain"

// Score penalties. A single critical flag already marks the record as
// structurally broken, so critical-flagged records are capped well below
// the review threshold regardless of how few flags they carry.
const (
	warningPenalty   = 15
	criticalPenalty  = 50
	criticalScoreCap = 25
)

// Verdict is the aggregated outcome of all validation stages for one
// record, ready for the atomic persistence write.
type Verdict struct {
	IsVerified   bool
	NeedsReview  bool
	QualityScore int
	Flags        []domain.Flag
}

// Score aggregates flags into a verdict. Zero flags is the only path to
// is_verified=true and a score of exactly 100; anything flagged routes to
// human review with a penalty-based score.
func Score(flags []domain.Flag) Verdict {
	if len(flags) == 0 {
		return Verdict{IsVerified: true, QualityScore: 100}
	}

	score := 100
	for _, f := range flags {
		if f.Severity == domain.SeverityCritical {
			score -= criticalPenalty
		} else {
			score -= warningPenalty
		}
	}

	if domain.HasCritical(flags) && score > criticalScoreCap {
		score = criticalScoreCap
	}

	if score < 0 {
		score = 0
	}

	return Verdict{
		NeedsReview:  true,
		QualityScore: score,
		Flags:        flags,
	}
}
