package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitstack/food-enrichment/internal/core/domain"
	"github.com/fitstack/food-enrichment/internal/platform/config"
	"github.com/fitstack/food-enrichment/internal/platform/observability"
	"github.com/fitstack/food-enrichment/internal/process/enrichment"
)

// Store is the record-store surface the runner needs. Implemented by the
// postgres storage layer.
type Store interface {
	ClaimBatch(ctx context.Context, limit, offset int, cooldown time.Duration) ([]domain.FoodRecord, error)
	FinalizeVerification(ctx context.Context, rec *domain.FoodRecord) error
	ReleasePending(ctx context.Context, id string) error
	CountRemaining(ctx context.Context, cooldown time.Duration) (int, error)
	AppendVerificationLog(ctx context.Context, foodID, outcome, failureType string, errs []string) error
}

// BatchReport is the invocation response shape. It is always produced,
// even under total external-API failure.
type BatchReport struct {
	Success    bool     `json:"success"`
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Remaining  int      `json:"remaining"`
	Errors     []string `json:"errors"`
}

// Per-record outcomes. Verified and needs-review are both successful runs:
// a confidently-flagged bad record is the pipeline doing its job.
type outcome string

const (
	outcomeVerified    outcome = "verified"
	outcomeNeedsReview outcome = "needs_review"
	outcomeReleased    outcome = "released"
	outcomeFailed      outcome = "failed"
)

// Failure types recorded in the audit log.
const (
	failurePreValidation  = "pre_validation"
	failureNoData         = "no_data"
	failureCheck          = "check_failure"
	failureInfrastructure = "infrastructure"
)

// Runner drives one batch through all pipeline stages, one record fully
// through every stage before the next.
type Runner struct {
	store      Store
	normalizer *Normalizer
	enricher   enrichment.Client
	semantic   *SemanticValidator
	deep       *DeepValidator
	cfg        *config.Config
	logger     *zerolog.Logger
}

func NewRunner(
	store Store,
	normalizer *Normalizer,
	enricher enrichment.Client,
	semantic *SemanticValidator,
	deep *DeepValidator,
	cfg *config.Config,
	logger *zerolog.Logger,
) *Runner {
	return &Runner{
		store:      store,
		normalizer: normalizer,
		enricher:   enricher,
		semantic:   semantic,
		deep:       deep,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run claims up to batchSize eligible records and processes them
// sequentially. The report is always well-formed; per-record faults never
// abort the batch.
func (r *Runner) Run(ctx context.Context, batchSize, offset int) BatchReport {
	started := time.Now()
	defer func() {
		observability.BatchDurationSeconds.Observe(time.Since(started).Seconds())
	}()

	if batchSize <= 0 {
		batchSize = r.cfg.BatchSize
	}

	report := BatchReport{Success: true, Errors: []string{}}

	records, err := r.store.ClaimBatch(ctx, batchSize, offset, r.cfg.RetryCooldown)
	if err != nil {
		r.logger.Error().Err(err).Msg("claiming batch failed")

		report.Success = false
		report.Errors = append(report.Errors, fmt.Sprintf("claim batch: %v", err))

		return report
	}

	for i := range records {
		rec := &records[i]
		report.Processed++

		switch out := r.processRecord(ctx, rec); out.kind {
		case outcomeVerified, outcomeNeedsReview:
			report.Successful++
		case outcomeFailed:
			report.Failed++
			report.Success = false
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", rec.ID, out.err))
		case outcomeReleased:
			// Claimed but no usable data yet; back to pending, not counted
			// as success or failure.
		}
	}

	remaining, err := r.store.CountRemaining(ctx, r.cfg.RetryCooldown)
	if err != nil {
		r.logger.Warn().Err(err).Msg("counting remaining backlog failed")
	} else {
		report.Remaining = remaining
		observability.PipelineBacklog.Set(float64(remaining))
	}

	return report
}

type recordOutcome struct {
	kind outcome
	err  error
}

// processRecord runs one record through all stages. Any panic degrades to
// an infrastructure failure instead of crashing the batch.
func (r *Runner) processRecord(ctx context.Context, rec *domain.FoodRecord) (out recordOutcome) {
	defer func() {
		if rv := recover(); rv != nil {
			err := fmt.Errorf("record handler panic: %v", rv)
			r.logger.Error().Err(err).Str("food_id", rec.ID).Msg("record processing panicked")
			out = r.fail(ctx, rec, err)
		}

		observability.RecordsProcessed.WithLabelValues(string(out.kind)).Inc()
	}()

	logger := r.logger.With().Str("food_id", rec.ID).Str("name", rec.Name).Logger()

	// Pre-validation: sentinel values are corruption, not data. Do not
	// enrich or validate further, route straight to review.
	if rec.HasSentinelValues() {
		flags := []domain.Flag{domain.NewFlag(domain.FlagSentinelValue, "placeholder value in nutrient fields")}

		return r.finalize(ctx, rec, flags, failurePreValidation)
	}

	if rec.NeedsNormalization() {
		if profile, ok := r.normalizer.Normalize(rec); ok {
			rec.NutrientProfile = profile
			rec.ServingAmount = 100
			rec.ServingUnit = "g"
		}
	}

	if rec.NeedsEnrichment() {
		match, ok := r.enricher.Lookup(ctx, rec.Name, rec.Brand)
		if !ok {
			observability.EnrichmentLookups.WithLabelValues("no_match").Inc()
			logger.Info().Msg("no reference data found, releasing record")

			return r.release(ctx, rec)
		}

		observability.EnrichmentLookups.WithLabelValues("match").Inc()
		r.applyMatch(rec, match)
	}

	// A record that is still empty after enrichment has nothing to verify.
	if rec.NutrientProfile.Empty() {
		logger.Info().Msg("record has no usable nutrient data, releasing")

		return r.release(ctx, rec)
	}

	det := RunDeterministic(rec, r.cfg)
	flags := det.Flags

	// A bounds or physics violation is a known-bad record; an LLM call on
	// it is wasted cost.
	if !det.Critical() {
		semantic := r.semantic.Validate(ctx, rec)
		flags = append(flags, semantic.Flags...)

		// The deep check runs only when the semantic check passed or was
		// inconclusive; a semantic anomaly already routes to review.
		if len(semantic.Flags) == 0 {
			flags = append(flags, r.deep.Validate(ctx, rec)...)
		}
	}

	failureType := ""
	if len(flags) > 0 {
		failureType = failureCheck
	}

	return r.finalize(ctx, rec, flags, failureType)
}

// applyMatch copies an external reference profile onto the record,
// converting to the per-100g basis when the match reports a gram-based
// serving of a different size.
func (r *Runner) applyMatch(rec *domain.FoodRecord, match *enrichment.FoodMatch) {
	profile := match.Profile
	if (match.ServingUnit == "g" || match.ServingUnit == "ml") &&
		match.ServingAmount > 0 && match.ServingAmount != 100 {
		profile = profile.Scale(100 / match.ServingAmount)
	}

	rec.NutrientProfile = profile
	rec.ServingAmount = 100
	rec.ServingUnit = "g"
	rec.LastEnrichment = time.Now().UTC()

	if rec.Category == "" || rec.Category == "Other" {
		rec.Category = match.Category
	}
}

// finalize scores the flags and writes the outcome atomically.
func (r *Runner) finalize(ctx context.Context, rec *domain.FoodRecord, flags []domain.Flag, failureType string) recordOutcome {
	for _, f := range flags {
		observability.FlagsRaised.WithLabelValues(string(f.Code)).Inc()
	}

	verdict := Score(flags)

	rec.Status = domain.StatusCompleted
	rec.IsVerified = verdict.IsVerified
	rec.NeedsReview = verdict.NeedsReview
	rec.ReviewFlags = domain.FlagCodes(verdict.Flags)
	rec.QualityScore = verdict.QualityScore

	if err := r.store.FinalizeVerification(ctx, rec); err != nil {
		return r.fail(ctx, rec, fmt.Errorf("finalize: %w", err))
	}

	out := outcomeVerified
	if verdict.NeedsReview {
		out = outcomeNeedsReview
	}

	r.appendLog(ctx, rec.ID, string(out), failureType, rec.ReviewFlags)

	r.logger.Info().
		Str("food_id", rec.ID).
		Str("outcome", string(out)).
		Int("quality_score", rec.QualityScore).
		Strs("flags", rec.ReviewFlags).
		Msg("record verified")

	return recordOutcome{kind: out}
}

// release returns the record to the pending pool; no-data is not a
// failure, the record just retries on a later batch.
func (r *Runner) release(ctx context.Context, rec *domain.FoodRecord) recordOutcome {
	if err := r.store.ReleasePending(ctx, rec.ID); err != nil {
		return r.fail(ctx, rec, fmt.Errorf("release pending: %w", err))
	}

	r.appendLog(ctx, rec.ID, string(outcomeReleased), failureNoData, nil)

	return recordOutcome{kind: outcomeReleased}
}

// fail marks the record failed so it re-enters the pool after the retry
// cooldown. Best effort: a store that cannot even record the failure is
// left as-is for the next claim cycle to retry.
func (r *Runner) fail(ctx context.Context, rec *domain.FoodRecord, cause error) recordOutcome {
	rec.Status = domain.StatusFailed
	rec.IsVerified = false

	if rec.ReviewFlags == nil {
		rec.ReviewFlags = []string{}
	}

	if err := r.store.FinalizeVerification(ctx, rec); err != nil {
		r.logger.Error().Err(err).Str("food_id", rec.ID).Msg("marking record failed also failed")
	}

	r.appendLog(ctx, rec.ID, string(outcomeFailed), failureInfrastructure, []string{cause.Error()})

	return recordOutcome{kind: outcomeFailed, err: cause}
}

func (r *Runner) appendLog(ctx context.Context, foodID, outcome, failureType string, errs []string) {
	if err := r.store.AppendVerificationLog(ctx, foodID, outcome, failureType, errs); err != nil {
		r.logger.Warn().Err(err).Str("food_id", foodID).Msg("appending verification log failed")
	}
}
