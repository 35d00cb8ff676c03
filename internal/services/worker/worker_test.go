package worker

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/events"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
)

// fakeRoster records every call. Safe for concurrent workers.
type fakeRoster struct {
	mu        sync.Mutex
	runs      []models.ValidationRun
	statuses  map[string]bool
	counts    map[string]int
	scores    map[string]int
	statusErr error
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{statuses: map[string]bool{}, counts: map[string]int{}, scores: map[string]int{}}
}

func (f *fakeRoster) CreateValidationRun(_ context.Context, r *models.ValidationRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, *r)
	return nil
}

func (f *fakeRoster) UpdateValidationStatus(_ context.Context, email string, isValid bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses[email] = isValid
	return nil
}

func (f *fakeRoster) IncrementSubmissionCount(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[email]++
	return nil
}

func (f *fakeRoster) UpdateReviewScore(_ context.Context, email string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[email] = score
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakeNotifier) Notify(ev notify.Event, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (f *fakePublisher) Publish(event, _ string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func TestPool_RecordValidation(t *testing.T) {
	roster, notifier, publisher := newFakeRoster(), &fakeNotifier{}, &fakePublisher{}
	pool := NewPool(2, 10, roster, notifier, publisher)
	pool.Start()

	job, err := NewJob(JobRecordValidation, ValidationPayload{
		Email:     "alex@example.com",
		Filename:  "AlexCruz_Dev_2026.pdf",
		PageCount: 2,
		IsValid:   false,
		Errors:    []string{"Resume must be exactly one page"},
		Warnings:  []string{},
	})
	if err != nil {
		t.Fatalf("NewJob() error = %v", err)
	}
	if err := pool.Submit(job); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	pool.Stop() // drains the queue

	if len(roster.runs) != 1 || roster.runs[0].PageCount != 2 || roster.runs[0].Filename != "AlexCruz_Dev_2026.pdf" {
		t.Errorf("runs = %+v", roster.runs)
	}
	if valid, ok := roster.statuses["alex@example.com"]; !ok || valid {
		t.Errorf("status = %v (set %v), want false", valid, ok)
	}
	if roster.counts["alex@example.com"] != 1 {
		t.Errorf("submission count = %d, want 1", roster.counts["alex@example.com"])
	}
	if !reflect.DeepEqual(notifier.events, []notify.Event{notify.EventReviewStarted}) {
		t.Errorf("notifications = %v", notifier.events)
	}
	if !reflect.DeepEqual(publisher.events, []string{events.EventValidated}) {
		t.Errorf("published = %v", publisher.events)
	}
}

func TestPool_RecordReview(t *testing.T) {
	score := 85
	tests := []struct {
		name      string
		payload   ReviewPayload
		wantScore bool
	}{
		{"with score", ReviewPayload{Email: "a@b.c", Model: "m", Score: &score}, true},
		{"without score", ReviewPayload{Email: "a@b.c", Model: "m"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster, notifier := newFakeRoster(), &fakeNotifier{}
			// A broken broker must not fail the job.
			publisher := &fakePublisher{err: errors.New("broker down")}
			pool := NewPool(1, 1, roster, notifier, publisher)

			job, _ := NewJob(JobRecordReview, tt.payload)
			if err := pool.process(job); err != nil {
				t.Fatalf("process() error = %v", err)
			}

			_, got := roster.scores["a@b.c"]
			if got != tt.wantScore {
				t.Errorf("score recorded = %v, want %v", got, tt.wantScore)
			}
			if len(notifier.events) != 1 || notifier.events[0] != notify.EventAIFeedback {
				t.Errorf("notifications = %v", notifier.events)
			}
		})
	}
}

func TestPool_ProcessErrors(t *testing.T) {
	roster := newFakeRoster()
	roster.statusErr = errors.New("db down")
	pool := NewPool(1, 1, roster, &fakeNotifier{}, &fakePublisher{})

	t.Run("unknown type", func(t *testing.T) {
		if err := pool.process(Job{ID: "x", Type: "nope"}); err == nil {
			t.Error("process() error = nil for unknown job type")
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		if err := pool.process(Job{ID: "x", Type: JobRecordValidation, Payload: []byte("{")}); err == nil {
			t.Error("process() error = nil for malformed payload")
		}
	})

	t.Run("roster failure", func(t *testing.T) {
		job, _ := NewJob(JobRecordValidation, ValidationPayload{Email: "a@b.c"})
		if err := pool.process(job); !errors.Is(err, roster.statusErr) {
			t.Errorf("process() error = %v, want wrapped db error", err)
		}
	})
}

func TestPool_SubmitFullQueue(t *testing.T) {
	pool := NewPool(1, 1, newFakeRoster(), &fakeNotifier{}, &fakePublisher{})
	// Not started, so nothing drains the queue.
	job, _ := NewJob(JobRecordReview, ReviewPayload{Email: "a@b.c"})

	if err := pool.Submit(job); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if err := pool.Submit(job); err == nil {
		t.Error("second Submit() should fail on a full queue")
	}
	if pool.QueueSize() != 1 {
		t.Errorf("QueueSize() = %d, want 1", pool.QueueSize())
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool(1, 1, newFakeRoster(), &fakeNotifier{}, &fakePublisher{})
	pool.Start()
	pool.Stop()
	pool.Stop() // second Stop is a no-op

	job, _ := NewJob(JobRecordReview, ReviewPayload{Email: "a@b.c"})
	if err := pool.Submit(job); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Submit() after Stop error = %v, want ErrPoolStopped", err)
	}
}
