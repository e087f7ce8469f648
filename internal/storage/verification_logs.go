package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VerificationLog is one append-only audit entry per pipeline run on a
// record. Entries are never mutated or deleted.
type VerificationLog struct {
	ID          string
	FoodID      string
	Outcome     string
	FailureType string
	Errors      []string
	CreatedAt   time.Time
}

// AppendVerificationLog writes an audit entry for a per-record run.
func (db *DB) AppendVerificationLog(ctx context.Context, foodID, outcome, failureType string, errs []string) error {
	if errs == nil {
		errs = []string{}
	}

	errJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("marshal verification errors: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO verification_logs (id, food_id, outcome, failure_type, errors)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), foodID, outcome, toText(failureType), errJSON)
	if err != nil {
		return fmt.Errorf("append verification log: %w", err)
	}

	return nil
}

// RecentVerificationLogs returns the latest audit entries for a record,
// newest first.
func (db *DB) RecentVerificationLogs(ctx context.Context, foodID string, limit int) ([]VerificationLog, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, food_id, outcome, COALESCE(failure_type, ''), errors, created_at
		FROM verification_logs
		WHERE food_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, foodID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent verification logs: %w", err)
	}
	defer rows.Close()

	var logs []VerificationLog

	for rows.Next() {
		var (
			entry   VerificationLog
			errJSON []byte
		)

		if err := rows.Scan(&entry.ID, &entry.FoodID, &entry.Outcome,
			&entry.FailureType, &errJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan verification log: %w", err)
		}

		if len(errJSON) > 0 {
			if err := json.Unmarshal(errJSON, &entry.Errors); err != nil {
				return nil, fmt.Errorf("unmarshal verification errors: %w", err)
			}
		}

		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("verification logs rows: %w", err)
	}

	return logs, nil
}
