// Package worker provides a background job processing system using goroutines.
//
// Go Pattern: Goroutines and channels are Go's concurrency primitives.
// A goroutine is like a lightweight thread (thousands are fine), and
// channels are typed pipes for communication between goroutines.
//
// This worker pool pattern is very common in Go:
// 1. Create a buffered channel as a job queue
// 2. Spawn N worker goroutines that read from the channel
// 3. Send jobs to the channel from your HTTP handlers
// 4. Workers process jobs concurrently
//
// Handlers answer the student as soon as the verdict or feedback is ready;
// the bookkeeping (roster updates, history, Discord, events) happens here.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/events"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
)

// JobType identifies what kind of work a job represents.
type JobType string

const (
	JobRecordValidation JobType = "record_validation"
	JobRecordReview     JobType = "record_review"
)

// Job represents a unit of work to be processed by a worker.
type Job struct {
	ID        string
	Type      JobType
	Payload   json.RawMessage // Different job types carry different data
	CreatedAt time.Time
}

// ValidationPayload describes a finished structural check.
type ValidationPayload struct {
	Email     string   `json:"email"`
	Filename  string   `json:"filename"`
	PageCount int      `json:"page_count"`
	WordCount int      `json:"word_count"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// ReviewPayload describes a finished AI review.
type ReviewPayload struct {
	Email string `json:"email"`
	Model string `json:"model"`
	Score *int   `json:"score,omitempty"` // nil when the feedback had no score line
}

// NewJob wraps a payload in a Job with a fresh ID.
func NewJob(t JobType, payload interface{}) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Job{
		ID:        uuid.New().String(),
		Type:      t,
		Payload:   raw,
		CreatedAt: time.Now(),
	}, nil
}

// Roster is the slice of the database the workers write to.
//
// Go Pattern: Accept interfaces. *database.DB satisfies this without
// knowing about it, and tests pass an in-memory fake.
type Roster interface {
	CreateValidationRun(ctx context.Context, r *models.ValidationRun) error
	UpdateValidationStatus(ctx context.Context, email string, isValid bool) error
	IncrementSubmissionCount(ctx context.Context, email string) error
	UpdateReviewScore(ctx context.Context, email string, score int) error
}

// Notifier posts staff notifications.
type Notifier interface {
	Notify(ev notify.Event, email string)
}

// Publisher emits outcome events.
type Publisher interface {
	Publish(event, email string, data interface{}) error
}

// Pool manages a pool of worker goroutines.
type Pool struct {
	// Go Pattern: Channels are the backbone of Go concurrency.
	// This buffered channel acts as our job queue.
	// Buffered means it can hold `queueSize` jobs before blocking.
	jobs      chan Job
	workers   int
	roster    Roster
	notifier  Notifier
	publisher Publisher

	// Go Pattern: sync.WaitGroup tracks running goroutines.
	// We call wg.Add(1) when starting a worker, wg.Done() when it finishes,
	// and wg.Wait() blocks until all workers are done (used for graceful shutdown).
	wg sync.WaitGroup

	// mu guards stopped. Submit holds the read lock while sending so Stop
	// can't close the channel underneath it.
	mu      sync.RWMutex
	stopped bool

	// ctx is cancelled once the queue has drained.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool.
func NewPool(workers, queueSize int, roster Roster, notifier Notifier, publisher Publisher) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:      make(chan Job, queueSize), // Buffered channel
		workers:   workers,
		roster:    roster,
		notifier:  notifier,
		publisher: publisher,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the worker goroutines.
// Go Pattern: The `go` keyword starts a new goroutine (lightweight thread).
// Each worker runs in its own goroutine, reading from the shared jobs channel.
func (p *Pool) Start() {
	log.Printf("🚀 Starting %d background workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// ErrPoolStopped is returned by Submit once Stop has been called.
var ErrPoolStopped = errors.New("worker pool is stopped")

// Stop closes the queue, lets the workers finish what is already queued,
// then cancels the pool context. Later Submit calls get ErrPoolStopped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	log.Println("⏹️  Stopping workers...")
	close(p.jobs) // Workers drain remaining jobs, then their range loops end
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	log.Println("✅ All workers stopped")
}

// Submit adds a job to the queue.
// Returns an error if the queue is full (non-blocking).
func (p *Pool) Submit(job Job) error {
	// A handler that outlived the server shutdown may still get here.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	// Go Pattern: `select` with `default` makes channel operations non-blocking.
	// Without default, sending to a full channel would block the HTTP handler.
	select {
	case p.jobs <- job:
		log.Printf("📥 Job queued: %s (type: %s)", job.ID, job.Type)
		return nil
	default:
		return fmt.Errorf("job queue is full; try again later")
	}
}

// QueueSize returns the current number of jobs in the queue.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log.Printf("👷 Worker %d started", id)

	// Go Pattern: `range` over a channel reads values until the channel is closed.
	for job := range p.jobs {
		if err := p.process(job); err != nil {
			log.Printf("❌ Worker %d: job %s failed: %v", id, job.ID, err)
		} else {
			log.Printf("✅ Worker %d: job %s completed", id, job.ID)
		}
	}

	log.Printf("👷 Worker %d stopped", id)
}

// process dispatches a job to its handler.
func (p *Pool) process(job Job) error {
	switch job.Type {
	case JobRecordValidation:
		return p.recordValidation(job)
	case JobRecordReview:
		return p.recordReview(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// recordValidation stores the run, updates the student's roster row and
// tells staff a resume came in.
func (p *Pool) recordValidation(job Job) error {
	var payload ValidationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid validation payload: %w", err)
	}
	ctx := p.ctx

	run := &models.ValidationRun{
		Email:     payload.Email,
		Filename:  payload.Filename,
		PageCount: payload.PageCount,
		WordCount: payload.WordCount,
		IsValid:   payload.IsValid,
		Errors:    payload.Errors,
		Warnings:  payload.Warnings,
	}
	if err := p.roster.CreateValidationRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save validation run: %w", err)
	}

	if err := p.roster.UpdateValidationStatus(ctx, payload.Email, payload.IsValid); err != nil {
		return fmt.Errorf("failed to update validation status: %w", err)
	}
	if err := p.roster.IncrementSubmissionCount(ctx, payload.Email); err != nil {
		return fmt.Errorf("failed to increment submission count: %w", err)
	}

	p.notifier.Notify(notify.EventReviewStarted, payload.Email)

	// Non-fatal: the roster is the source of truth, events are a courtesy.
	if err := p.publisher.Publish(events.EventValidated, payload.Email, payload); err != nil {
		log.Printf("⚠️  Failed to publish %s event: %v", events.EventValidated, err)
	}
	return nil
}

// recordReview stores the score (when the model gave one) and announces
// the feedback.
func (p *Pool) recordReview(job Job) error {
	var payload ReviewPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid review payload: %w", err)
	}

	if payload.Score != nil {
		if err := p.roster.UpdateReviewScore(p.ctx, payload.Email, *payload.Score); err != nil {
			return fmt.Errorf("failed to update review score: %w", err)
		}
	}

	p.notifier.Notify(notify.EventAIFeedback, payload.Email)

	if err := p.publisher.Publish(events.EventReviewed, payload.Email, payload); err != nil {
		log.Printf("⚠️  Failed to publish %s event: %v", events.EventReviewed, err)
	}
	return nil
}
