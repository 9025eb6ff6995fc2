// Package events provides Server-Sent Events infrastructure for pushing
// job-board activity to connected admin consoles.
package events

import (
	"context"

	"github.com/jonesrussell/gojobs/internal/models"
)

// Event represents a Server-Sent Event.
// Format: event: <Type>\ndata: <JSON payload>\n\n
type Event struct {
	// Type is the event type (e.g. "jobCreated", "newApplication")
	Type string `json:"type"`
	// Data is the JSON payload
	Data any `json:"data"`
}

// Event types emitted on job lifecycle changes and application intake.
const (
	TypeJobCreated     = "jobCreated"
	TypeJobUpdated     = "jobUpdated"
	TypeJobDeleted     = "jobDeleted"
	TypeNewApplication = "newApplication"
)

// Internal event types.
const (
	eventTypeConnected = "connected"
)

// Publisher sends events to the broker.
type Publisher interface {
	// Publish sends an event to all connected clients.
	// Returns error if the broker is not running or the publish buffer is full.
	Publish(ctx context.Context, event Event) error
}

// Subscriber receives events from the broker.
type Subscriber interface {
	// Subscribe returns a channel that receives events. The channel is
	// closed when the subscription ends (client disconnect or broker
	// shutdown).
	Subscribe(ctx context.Context) (<-chan Event, func())
}

// Broker manages SSE connections and event distribution.
type Broker interface {
	Publisher
	Subscriber
	// Start begins processing events (non-blocking).
	Start(ctx context.Context) error
	// Stop gracefully shuts down the broker.
	Stop() error
	// ClientCount returns the number of connected clients.
	ClientCount() int
}

// JobDeletedData is the payload for jobDeleted events.
type JobDeletedData struct {
	JobID string `json:"jobId"`
}

// NewApplicationData is the payload for newApplication events. The job
// title and company ride alongside the application so consoles can render
// the notification without a lookup.
type NewApplicationData struct {
	Application *models.Application `json:"application"`
	JobTitle    string              `json:"jobTitle"`
	Company     string              `json:"company"`
}

// NewJobCreatedEvent creates a jobCreated event carrying the full job.
func NewJobCreatedEvent(job *models.Job) Event {
	return Event{Type: TypeJobCreated, Data: job}
}

// NewJobUpdatedEvent creates a jobUpdated event carrying the full job.
func NewJobUpdatedEvent(job *models.Job) Event {
	return Event{Type: TypeJobUpdated, Data: job}
}

// NewJobDeletedEvent creates a jobDeleted event carrying only the job ID.
func NewJobDeletedEvent(jobID string) Event {
	return Event{Type: TypeJobDeleted, Data: JobDeletedData{JobID: jobID}}
}

// NewApplicationEvent creates a newApplication event.
func NewApplicationEvent(app *models.Application) Event {
	return Event{
		Type: TypeNewApplication,
		Data: NewApplicationData{
			Application: app,
			JobTitle:    app.JobTitle,
			Company:     app.Company,
		},
	}
}
