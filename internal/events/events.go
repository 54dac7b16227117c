// Package events announces project lifecycle changes to other processes.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
)

// Type names a lifecycle event.
type Type string

const (
	ProjectCreated   Type = "project.created"
	ProjectUpdated   Type = "project.updated"
	ProjectDeleted   Type = "project.deleted"
	ProjectSimulated Type = "project.simulated"
)

// Event is one lifecycle notification.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	ProjectID  string    `json:"project_id"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id, the request id carried by ctx and the current time.
func New(ctx context.Context, t Type, projectID string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		ProjectID:  projectID,
		RequestID:  logging.RequestID(ctx),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
