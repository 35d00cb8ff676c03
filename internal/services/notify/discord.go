// Package notify posts resume activity to a Discord channel.
//
// Staff watch the channel to see who is using the checker. Notifications are
// best-effort: a failed delivery is retried a few times and then logged,
// never surfaced to the student.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// ErrNotConfigured is returned by Send when DISCORD_WEBHOOK_URL is unset.
var ErrNotConfigured = errors.New("discord webhook not configured")

// Event names a kind of resume activity.
type Event string

const (
	EventReviewStarted      Event = "RESUME_REVIEW_STARTED"
	EventUnauthorizedAccess Event = "UNAUTHORIZED_ACCESS_ATTEMPT"
	EventAIFeedback         Event = "RESUME_AI_FEEDBACK"
	EventSubmitted          Event = "RESUME_SUBMITTED"
)

// Discord embed colors.
const (
	colorGreen  = 0x00ff00
	colorBlue   = 0x3498db
	colorOrange = 0xe67e22
	colorPurple = 0x9b59b6
)

// ParseEvent accepts the event names clients may send to POST /notify.
func ParseEvent(s string) (Event, bool) {
	switch ev := Event(s); ev {
	case EventReviewStarted, EventUnauthorizedAccess, EventAIFeedback, EventSubmitted:
		return ev, true
	}
	return "", false
}

// --- Discord webhook payload ---

type discordMessage struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []embedField `json:"fields,omitempty"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// buildMessage renders an event as a single Discord embed.
func buildMessage(ev Event, email string, at time.Time) discordMessage {
	e := embed{
		Fields:    []embedField{{Name: "Student Email", Value: email, Inline: true}},
		Timestamp: at.UTC().Format(time.RFC3339),
	}

	switch ev {
	case EventSubmitted:
		e.Title = "New Resume Review Submitted! 📝"
		e.Description = "A new resume has been submitted for review."
		e.Color = colorGreen
	case EventReviewStarted:
		e.Title = "Resume Validation Started"
		e.Description = fmt.Sprintf("🔍 Resume validation started for %s", email)
		e.Color = colorBlue
	case EventUnauthorizedAccess:
		e.Title = "Unauthorized Access Attempt"
		e.Description = fmt.Sprintf("⚠️ Unauthorized access attempt from %s", email)
		e.Color = colorOrange
	case EventAIFeedback:
		e.Title = "AI Feedback Generated"
		e.Description = fmt.Sprintf("🤖 AI feedback generated for %s's resume", email)
		e.Color = colorPurple
	default:
		e.Title = string(ev)
		e.Description = "Unknown event"
	}

	return discordMessage{Embeds: []embed{e}}
}

// Service handles Discord notification delivery.
type Service struct {
	webhookURL  string
	client      *http.Client
	retryDelays []time.Duration
	shutdownCh  chan struct{} // Signals pending deliveries to stop
	wg          sync.WaitGroup
}

// New creates a notification service. An empty URL disables delivery.
func New(webhookURL string) *Service {
	return &Service{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryDelays: []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second},
		shutdownCh:  make(chan struct{}),
	}
}

// Enabled reports whether a webhook URL is configured.
func (s *Service) Enabled() bool {
	return s.webhookURL != ""
}

// Shutdown signals pending deliveries to stop and waits for them to exit.
// Call this during graceful server shutdown.
func (s *Service) Shutdown() {
	close(s.shutdownCh)
	s.wg.Wait()
}

// Send delivers one notification synchronously, without retries.
func (s *Service) Send(ctx context.Context, ev Event, email string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(buildMessage(ev, email, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal discord message: %w", err)
	}
	status, err := s.deliver(ctx, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("discord returned HTTP %d", status)
	}
	return nil
}

// Notify delivers a notification in the background with retries.
// It's a no-op when no webhook URL is configured.
func (s *Service) Notify(ev Event, email string) {
	if !s.Enabled() {
		return
	}
	payload, err := json.Marshal(buildMessage(ev, email, time.Now()))
	if err != nil {
		log.Printf("⚠️  Failed to marshal discord message: %v", err)
		return
	}

	s.wg.Add(1)
	// Fire and forget. Delivery runs in its own goroutine.
	go func() {
		defer s.wg.Done()
		s.deliverWithRetry(ev, payload)
	}()
}

// deliverWithRetry attempts delivery with backoff (immediately, then after
// 1s, 5s and 30s), giving up early on shutdown.
func (s *Service) deliverWithRetry(ev Event, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var lastErr string
	for attempt, delay := range s.retryDelays {
		if attempt > 0 {
			// Wait for the retry delay, but respect shutdown signals
			select {
			case <-s.shutdownCh:
				log.Printf("⚠️  Discord notification aborted due to shutdown: %s", ev)
				return
			case <-ctx.Done():
				log.Printf("⚠️  Discord notification timed out: %s", ev)
				return
			case <-time.After(delay):
			}
		}

		status, err := s.deliver(ctx, payload)
		if err == nil && status >= 200 && status < 300 {
			log.Printf("✅ Discord notified: %s (attempt %d)", ev, attempt+1)
			return
		}

		if err != nil {
			lastErr = err.Error()
		} else {
			lastErr = fmt.Sprintf("HTTP %d", status)
		}
		log.Printf("⚠️  Discord notification failed (attempt %d/%d): %s: %s",
			attempt+1, len(s.retryDelays), ev, lastErr)
	}

	log.Printf("❌ Discord notification failed permanently: %s: %s", ev, lastErr)
}

// deliver sends a single webhook HTTP request.
func (s *Service) deliver(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ResumeReviewAPI/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
