// Package publisher forwards job events to NATS.
package publisher

import (
	"context"
	"fmt"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/nats"
)

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(ctx context.Context, subject string, data any) error
}

// NATSPublisher implements app.Publisher.
type NATSPublisher struct {
	js NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(client NATSClient) *NATSPublisher {
	return &NATSPublisher{js: client}
}

var subjects = map[string]string{
	app.EventJobCreated: nats.SubjectCreated,
	app.EventJobUpdated: nats.SubjectUpdated,
	app.EventJobDeleted: nats.SubjectDeleted,
	app.EventJobsLoaded: nats.SubjectLoaded,
}

// Publish sends job events; toasts and other UI events are skipped.
func (p *NATSPublisher) Publish(ctx context.Context, evt app.Event) error {
	subject, ok := subjects[evt.Type]
	if !ok {
		return nil
	}

	if err := p.js.Publish(ctx, subject, evt); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}
