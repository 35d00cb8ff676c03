// students.go handles roster operations.
//
// The roster started life as a shared spreadsheet: one row per student,
// keyed by email, with columns for scan status, score, last activity,
// LinkedIn URL, resume link and submission count. The table keeps that shape.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// IsAllowedEmail reports whether the email is on the roster.
func (db *DB) IsAllowedEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM students WHERE email = $1)`, NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("failed to check roster: %w", err)
	}
	return exists, nil
}

// GetStudent retrieves a roster row by email.
func (db *DB) GetStudent(ctx context.Context, email string) (*models.Student, error) {
	var s models.Student
	err := db.GetContext(ctx, &s, `SELECT * FROM students WHERE email = $1`, NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

// ListStudents returns the whole roster ordered by email.
func (db *DB) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := db.SelectContext(ctx, &students, `SELECT * FROM students ORDER BY email`); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// AddStudents inserts emails that aren't already on the roster.
// Returns the number of new rows.
//
// Go Pattern: A transaction (Beginx / Commit / Rollback) makes the batch
// all-or-nothing. Deferring Rollback is safe: after Commit it's a no-op.
func (db *DB) AddStudents(ctx context.Context, emails []string) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, email := range emails {
		email = NormalizeEmail(email)
		if email == "" {
			continue
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO students (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, email)
		if err != nil {
			return 0, fmt.Errorf("failed to add %s: %w", email, err)
		}
		rows, _ := result.RowsAffected()
		added += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit roster update: %w", err)
	}
	return added, nil
}

// UpdateValidationStatus records the outcome of a structural scan.
// A completed scan also resets the score to the default pass score.
func (db *DB) UpdateValidationStatus(ctx context.Context, email string, isValid bool) error {
	return db.updateStudent(ctx, email, `
		UPDATE students
		SET validation_status = $2, score = $3, last_activity_at = NOW()
		WHERE email = $1`,
		models.StatusFor(isValid), models.DefaultPassScore)
}

// UpdateReviewScore records a reviewer's score.
func (db *DB) UpdateReviewScore(ctx context.Context, email string, score int) error {
	return db.updateStudent(ctx, email, `
		UPDATE students
		SET score = $2, last_activity_at = NOW()
		WHERE email = $1`,
		score)
}

// IncrementSubmissionCount bumps the number of resumes a student has sent.
func (db *DB) IncrementSubmissionCount(ctx context.Context, email string) error {
	return db.updateStudent(ctx, email, `
		UPDATE students
		SET submission_count = submission_count + 1
		WHERE email = $1`)
}

// UpdateLinkedInURL stores the student's LinkedIn profile.
func (db *DB) UpdateLinkedInURL(ctx context.Context, email, linkedInURL string) error {
	return db.updateStudent(ctx, email, `
		UPDATE students SET linkedin_url = $2 WHERE email = $1`,
		linkedInURL)
}

// UpdateResumeLink stores where the latest resume file lives.
func (db *DB) UpdateResumeLink(ctx context.Context, email, link string) error {
	return db.updateStudent(ctx, email, `
		UPDATE students SET resume_link = $2 WHERE email = $1`,
		link)
}

// updateStudent runs an UPDATE keyed by email ($1) and maps "no rows" to
// ErrStudentNotFound.
func (db *DB) updateStudent(ctx context.Context, email, query string, args ...interface{}) error {
	args = append([]interface{}{NormalizeEmail(email)}, args...)
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrStudentNotFound
	}
	return nil
}
