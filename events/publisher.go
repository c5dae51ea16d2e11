// Package events publishes submission lifecycle events to NATS.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectSubmissionCreated  = "overtime.submission.created"
	SubjectSubmissionApproved = "overtime.submission.approved"
	SubjectSubmissionRejected = "overtime.submission.rejected"
)

type SubmissionEvent struct {
	Type         string    `json:"type"`
	SubmissionID string    `json:"submission_id"`
	EmployeeNIK  string    `json:"employee_nik"`
	Status       string    `json:"status"`
	ActorNIK     string    `json:"actor_nik,omitempty"`
	TotalHours   float64   `json:"total_hours"`
	NextApprover string    `json:"next_approver,omitempty"`
	Comments     string    `json:"comments,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(subject string, event *SubmissionEvent) error
	Close()
}

type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("overtime-approval"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("Connected to NATS", "url", url)
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Publish(subject string, event *SubmissionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	event.Type = subject

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published submission event", "subject", subject, "submission_id", event.SubmissionID)
	return nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// Nop drops every event. Used when NATS_URL is unset.
type Nop struct{}

func (Nop) Publish(string, *SubmissionEvent) error {
	return nil
}

func (Nop) Close() {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []SubmissionEvent
}

func (r *Recorder) Publish(subject string, event *SubmissionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *event
	e.Type = subject
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Close() {}
