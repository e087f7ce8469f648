package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

// NearestReferences returns the k reference corpus entries closest to the
// query embedding by cosine distance. The corpus is read-only for the
// pipeline; it is populated by cmd/seed-reference.
func (db *DB) NearestReferences(ctx context.Context, embedding []float32, k int) ([]domain.ReferenceFood, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, category, calories, protein_g, carbs_g, fat_g,
			   embedding <=> $1 AS distance
		FROM reference_foods
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("nearest references: %w", err)
	}
	defer rows.Close()

	var refs []domain.ReferenceFood

	for rows.Next() {
		var ref domain.ReferenceFood
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Category,
			&ref.Calories, &ref.ProteinG, &ref.CarbsG, &ref.FatG, &ref.Distance); err != nil {
			return nil, fmt.Errorf("scan reference food: %w", err)
		}

		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nearest references rows: %w", err)
	}

	return refs, nil
}

// InsertReference upserts an authoritative reference entry with its
// embedding, keyed by name so reseeding is idempotent.
func (db *DB) InsertReference(ctx context.Context, ref domain.ReferenceFood, embedding []float32) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO reference_foods (id, name, category, calories, protein_g, carbs_g, fat_g, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE
		SET category = EXCLUDED.category,
			calories = EXCLUDED.calories,
			protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g,
			fat_g = EXCLUDED.fat_g,
			embedding = EXCLUDED.embedding
	`, uuid.NewString(), ref.Name, toText(ref.Category),
		ref.Calories, ref.ProteinG, ref.CarbsG, ref.FatG,
		pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}

	return nil
}

// CountReferences reports the corpus size, used by readiness tooling.
func (db *DB) CountReferences(ctx context.Context) (int, error) {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM reference_foods`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count references: %w", err)
	}

	return count, nil
}
