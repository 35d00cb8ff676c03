// Package events publishes resume outcomes to RabbitMQ so other services
// (dashboards, mentors' tools) can react without polling the API.
//
// Messages go to a durable topic exchange with routing keys like
// "resume.validated". Consumers bind with patterns such as "resume.*".
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Exchange is the topic exchange all resume events go to.
const Exchange = "resume_events"

// Event names.
const (
	EventValidated = "validated"
	EventReviewed  = "reviewed"
	EventUploaded  = "uploaded"
)

// Message is the JSON body of every event.
type Message struct {
	Event     string      `json:"event"`
	Email     string      `json:"email"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher sends events. A nil connection means publishing is disabled.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
}

// New connects to RabbitMQ and declares the exchange. An empty URL returns
// a disabled publisher whose Publish is a no-op.
func New(url string) (*Publisher, error) {
	if url == "" {
		return &Publisher{}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// durable, not auto-deleted, not internal, wait for the server
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}

	log.Printf("🐇 Publishing resume events to exchange %s", Exchange)
	return &Publisher{conn: conn}, nil
}

// Enabled reports whether events leave the process.
func (p *Publisher) Enabled() bool {
	return p.conn != nil
}

// RoutingKey maps an event name to its routing key.
func RoutingKey(event string) string {
	return "resume." + strings.ToLower(event)
}

// Publish sends one event.
//
// Go Pattern: amqp channels aren't safe for concurrent use, so each publish
// opens a short-lived channel on the shared connection.
func (p *Publisher) Publish(event, email string, data interface{}) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(Message{
		Event:     event,
		Email:     email,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		Exchange,
		RoutingKey(event),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Close releases the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
