// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// Go handlers are plain functions. We group related handlers into a struct
// (Handler) that holds shared dependencies.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/review"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/storage"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/validation"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/worker"
)

// Version is reported by the health check.
const Version = "1.0.0"

// RosterStore is the part of the database the handlers use.
// *database.DB satisfies it; tests use an in-memory fake.
type RosterStore interface {
	HealthCheck(ctx context.Context) error
	IsAllowedEmail(ctx context.Context, email string) (bool, error)
	AddStudents(ctx context.Context, emails []string) (int, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateReviewScore(ctx context.Context, email string, score int) error
	UpdateLinkedInURL(ctx context.Context, email, linkedInURL string) error
	UpdateResumeLink(ctx context.Context, email, link string) error
	ListValidationRuns(ctx context.Context, email string, limit int) ([]models.ValidationRun, error)
}

// JobQueue accepts background bookkeeping work.
type JobQueue interface {
	Submit(job worker.Job) error
	WorkerCount() int
	QueueSize() int
}

// Notifier posts staff notifications.
type Notifier interface {
	Send(ctx context.Context, ev notify.Event, email string) error
	Notify(ev notify.Event, email string)
}

// ResumeStore keeps uploaded files.
type ResumeStore interface {
	SaveResume(ctx context.Context, email string, data []byte) (*storage.Object, error)
}

// EventPublisher emits outcome events.
type EventPublisher interface {
	Publish(event, email string, data interface{}) error
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy: just create a Handler with fake dependencies.
type Handler struct {
	DB        RosterStore
	Worker    JobQueue
	Extractor validation.TextExtractor
	Checker   *validation.Checker
	Reviewer  review.Reviewer
	Notifier  Notifier
	Storage   ResumeStore
	Events    EventPublisher

	JWTSecret      string
	RosterLocation *time.Location // timezone for the spreadsheet export
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "ok"
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   status,
		Version:  Version,
		Database: dbStatus,
		Workers:  h.Worker.WorkerCount(),
		Queue:    h.Worker.QueueSize(),
	})
}

// respondError writes the standard error body.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}
