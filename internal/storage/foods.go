package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

// foodColumns is the canonical select list shared by food record queries.
const foodColumns = `
	id, name, brand, category,
	calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g,
	sodium_mg, potassium_mg, calcium_mg, iron_mg,
	vitamin_a_mcg, vitamin_c_mg, vitamin_d_mcg,
	serving_amount, serving_unit,
	enrichment_status, is_verified, needs_review, review_flags, quality_score,
	last_enrichment, last_verification, created_at, updated_at`

// ClaimBatch atomically selects up to limit unverified records that are
// pending, or failed and past the retry cooldown, and moves them to
// processing. SKIP LOCKED keeps concurrent invocations from
// double-processing the same record. Verified records are never selected,
// so re-running on a completed batch is a no-op.
func (db *DB) ClaimBatch(ctx context.Context, limit, offset int, cooldown time.Duration) ([]domain.FoodRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		WITH picked AS (
			SELECT id
			FROM foods
			WHERE is_verified = false
			  AND (
				enrichment_status = $1
				OR (enrichment_status = $2
					AND (last_verification IS NULL
						 OR last_verification < now() - make_interval(secs => $3)))
			  )
			ORDER BY created_at
			OFFSET $5
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		UPDATE foods f
		SET enrichment_status = $6, updated_at = now()
		FROM picked
		WHERE f.id = picked.id
		RETURNING `+foodColumns,
		domain.StatusPending, domain.StatusFailed, cooldown.Seconds(),
		limit, offset, domain.StatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("claim batch: %w", err)
	}
	defer rows.Close()

	var records []domain.FoodRecord

	for rows.Next() {
		rec, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claimed food: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim batch rows: %w", err)
	}

	return records, nil
}

// FinalizeVerification writes the record's verification outcome in a single
// atomic update: nutrient values (which may have been normalized or
// enriched), lifecycle status, flags, score and timestamps together.
// Partial writes can never leave a record in an inconsistent state.
func (db *DB) FinalizeVerification(ctx context.Context, rec *domain.FoodRecord) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE foods
		SET calories = $2, protein_g = $3, carbs_g = $4, fat_g = $5,
			fiber_g = $6, sugar_g = $7,
			sodium_mg = $8, potassium_mg = $9, calcium_mg = $10, iron_mg = $11,
			vitamin_a_mcg = $12, vitamin_c_mg = $13, vitamin_d_mcg = $14,
			serving_amount = $15, serving_unit = $16,
			enrichment_status = $17, is_verified = $18, needs_review = $19,
			review_flags = $20, quality_score = $21,
			last_enrichment = COALESCE($22, last_enrichment),
			last_verification = now(),
			updated_at = now()
		WHERE id = $1
	`,
		rec.ID,
		rec.Calories, rec.ProteinG, rec.CarbsG, rec.FatG,
		rec.FiberG, rec.SugarG,
		rec.SodiumMg, rec.PotassiumMg, rec.CalciumMg, rec.IronMg,
		rec.VitaminAMcg, rec.VitaminCMg, rec.VitaminDMcg,
		rec.ServingAmount, toText(rec.ServingUnit),
		rec.Status, rec.IsVerified, rec.NeedsReview,
		rec.ReviewFlags, rec.QualityScore,
		toTimestamptz(rec.LastEnrichment),
	)
	if err != nil {
		return fmt.Errorf("finalize verification: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finalize verification: food %s not found", rec.ID)
	}

	return nil
}

// ReleasePending returns a claimed record to the pending pool without
// recording a verification outcome. Used when the external reference API
// has no data yet or the record's values are unusable.
func (db *DB) ReleasePending(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE foods
		SET enrichment_status = $2, updated_at = now()
		WHERE id = $1
	`, id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("release pending: %w", err)
	}

	return nil
}

// CountRemaining returns how many records are still eligible for
// processing, using the same selection predicate as ClaimBatch.
func (db *DB) CountRemaining(ctx context.Context, cooldown time.Duration) (int, error) {
	var count int

	err := db.Pool.QueryRow(ctx, `
		SELECT count(*)
		FROM foods
		WHERE is_verified = false
		  AND (
			enrichment_status = $1
			OR (enrichment_status = $2
				AND (last_verification IS NULL
					 OR last_verification < now() - make_interval(secs => $3)))
		  )
	`, domain.StatusPending, domain.StatusFailed, cooldown.Seconds()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count remaining: %w", err)
	}

	return count, nil
}

// GetFoodByID fetches a single record, mostly for tooling and tests.
func (db *DB) GetFoodByID(ctx context.Context, id string) (*domain.FoodRecord, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id)

	rec, err := scanFood(row)
	if err != nil {
		return nil, fmt.Errorf("get food by id: %w", err)
	}

	return &rec, nil
}

func scanFood(row pgx.Row) (domain.FoodRecord, error) {
	var (
		rec              domain.FoodRecord
		brand, category  pgtype.Text
		servingUnit      pgtype.Text
		lastEnrichment   pgtype.Timestamptz
		lastVerification pgtype.Timestamptz
	)

	err := row.Scan(
		&rec.ID, &rec.Name, &brand, &category,
		&rec.Calories, &rec.ProteinG, &rec.CarbsG, &rec.FatG, &rec.FiberG, &rec.SugarG,
		&rec.SodiumMg, &rec.PotassiumMg, &rec.CalciumMg, &rec.IronMg,
		&rec.VitaminAMcg, &rec.VitaminCMg, &rec.VitaminDMcg,
		&rec.ServingAmount, &servingUnit,
		&rec.Status, &rec.IsVerified, &rec.NeedsReview, &rec.ReviewFlags, &rec.QualityScore,
		&lastEnrichment, &lastVerification, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.FoodRecord{}, err
	}

	rec.Brand = brand.String
	rec.Category = category.String
	rec.ServingUnit = servingUnit.String
	rec.LastEnrichment = lastEnrichment.Time
	rec.LastVerification = lastVerification.Time

	return rec, nil
}
