// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The `db` tags work with sqlx for database column mapping. The database
// package handles persistence; models are just data containers.
package models

import (
	"time"

	"github.com/lib/pq"
)

// ValidationStatus is what we record in the roster after a scan.
type ValidationStatus string

const (
	StatusNotScanned    ValidationStatus = ""
	StatusFirstScanOK   ValidationStatus = "First scan ok"
	StatusFixesRequired ValidationStatus = "Fixes required"
)

// StatusFor maps a verdict outcome to the roster status.
func StatusFor(isValid bool) ValidationStatus {
	if isValid {
		return StatusFirstScanOK
	}
	return StatusFixesRequired
}

// DefaultPassScore is written to the roster whenever a scan completes.
const DefaultPassScore = 10

// Student is one row of the roster. Only listed emails may use the service.
type Student struct {
	ID              string           `json:"id" db:"id"`
	Email           string           `json:"email" db:"email"`
	ValidationState ValidationStatus `json:"validation_status" db:"validation_status"`
	Score           *int             `json:"score,omitempty" db:"score"` // Pointer = nullable
	LinkedInURL     string           `json:"linkedin_url" db:"linkedin_url"`
	ResumeLink      string           `json:"resume_link" db:"resume_link"`
	SubmissionCount int              `json:"submission_count" db:"submission_count"`
	LastActivityAt  *time.Time       `json:"last_activity_at,omitempty" db:"last_activity_at"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// ValidationRun records one structural check of an uploaded resume.
// Go Pattern: pq.StringArray maps a Postgres text[] column to []string.
type ValidationRun struct {
	ID        string         `json:"id" db:"id"`
	Email     string         `json:"email" db:"email"`
	Filename  string         `json:"filename" db:"filename"`
	PageCount int            `json:"page_count" db:"page_count"`
	WordCount int            `json:"word_count" db:"word_count"`
	IsValid   bool           `json:"is_valid" db:"is_valid"`
	Errors    pq.StringArray `json:"errors" db:"errors"`
	Warnings  pq.StringArray `json:"warnings" db:"warnings"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// --- Request/Response DTOs (Data Transfer Objects) ---

// AccessRequest is the JSON body for POST /api/v1/access.
type AccessRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AccessResponse carries the bearer token for resume routes.
type AccessResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExtractResponse mirrors what the upload form expects from text extraction.
type ExtractResponse struct {
	Text     string `json:"text"`
	NumPages int    `json:"numPages"`
}

// ValidateResponse is the structural verdict plus the text it was based
// on, so the client can send the same text for AI review.
type ValidateResponse struct {
	IsValid   bool     `json:"isValid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
	Text      string   `json:"text"`
	NumPages  int      `json:"numPages"`
	WordCount int      `json:"wordCount"`
}

// UploadField describes one problem with an uploaded file.
type UploadField struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UploadErrorResponse lists every reason an upload was refused.
type UploadErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Code    int           `json:"code"`
	Fields  []UploadField `json:"fields"`
}

// ReviewRequest is the JSON body for POST /api/v1/resume/review.
type ReviewRequest struct {
	Text string `json:"text"`
}

// ReviewResponse holds the AI feedback.
type ReviewResponse struct {
	Feedback string `json:"feedback"`
	Model    string `json:"model"`
	Score    *int   `json:"score,omitempty"`
}

// ScoreRequest is the JSON body for PUT /api/v1/resume/score.
type ScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}

// LinkedInRequest is the JSON body for PUT /api/v1/resume/linkedin.
type LinkedInRequest struct {
	LinkedInURL string `json:"linkedin_url" binding:"required"`
}

// ResumeLinkRequest is the JSON body for PUT /api/v1/resume/drive-link.
type ResumeLinkRequest struct {
	ResumeLink string `json:"resume_link" binding:"required"`
}

// UploadResponse describes where the resume was stored.
type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// NotifyRequest is the JSON body for POST /api/v1/notify.
type NotifyRequest struct {
	Event string `json:"event" binding:"required"`
}

// AddStudentsRequest is the JSON body for POST /api/v1/admin/students.
type AddStudentsRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,max=500"`
}

// AddStudentsResponse reports how many new roster rows were created.
type AddStudentsResponse struct {
	Added int `json:"added"`
}

// SuccessResponse is returned by endpoints that only acknowledge.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Workers  int    `json:"workers"`
	Queue    int    `json:"queue"`
}
