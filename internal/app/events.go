package app

import (
	"context"
	"errors"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// Event types published after state changes.
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
	EventJobsLoaded = "jobs.loaded"
	EventToast      = "toast"
)

// Event is a state change broadcast to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// JobDeletedPayload identifies a removed job.
type JobDeletedPayload struct {
	ID models.JobID `json:"id"`
}

// JobsLoadedPayload reports a refreshed list.
type JobsLoadedPayload struct {
	Count int `json:"count"`
}

// Publisher delivers events. Failures never undo the change that caused
// the event.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// MultiPublisher fans an event out to every publisher.
type MultiPublisher []Publisher

// Publish calls every publisher and joins their errors.
func (m MultiPublisher) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
