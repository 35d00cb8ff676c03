// runs.go stores the history of structural validations.
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// CreateValidationRun inserts a validation record.
// The ID is generated client-side so callers can log it before the insert.
func (db *DB) CreateValidationRun(ctx context.Context, r *models.ValidationRun) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.Email = NormalizeEmail(r.Email)

	query := `
		INSERT INTO validation_runs (id, email, filename, page_count, word_count, is_valid, errors, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return db.QueryRowContext(ctx, query,
		r.ID, r.Email, r.Filename, r.PageCount, r.WordCount,
		r.IsValid, r.Errors, r.Warnings,
	).Scan(&r.CreatedAt)
}

// ListValidationRuns returns a student's most recent validations.
func (db *DB) ListValidationRuns(ctx context.Context, email string, limit int) ([]models.ValidationRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []models.ValidationRun
	err := db.SelectContext(ctx, &runs,
		`SELECT * FROM validation_runs
		 WHERE email = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		NormalizeEmail(email), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation runs: %w", err)
	}
	return runs, nil
}
