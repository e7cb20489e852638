// Package watcher follows job events published to NATS.
package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/nats"
)

// Subscriber is the part of nats.Client the consumer needs.
type Subscriber interface {
	Subscribe(ctx context.Context, consumer, subject string, handler func(subject string, data []byte) error) error
}

// Event is a job event as read from the stream.
type Event struct {
	Subject string          `json:"-"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// JobID returns the id carried by the payload, if any.
func (e Event) JobID() models.JobID {
	var p struct {
		ID models.JobID `json:"id"`
	}
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return ""
	}
	return p.ID
}

func (e Event) String() string {
	s := e.At.Format(time.RFC3339) + " " + e.Type
	if id := e.JobID(); id != "" {
		s += " id=" + id.String()
	}
	return s
}

// Handler receives decoded events. A returned error naks the message.
type Handler func(Event) error

// Consumer handles consuming NATS events
type Consumer struct {
	client  Subscriber
	durable string
	handle  Handler
	log     *logger.Logger
}

// NewConsumer creates a consumer. An empty durable name makes it
// ephemeral.
func NewConsumer(client Subscriber, durable string, handle Handler, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{
		client:  client,
		durable: durable,
		handle:  handle,
		log:     log,
	}
}

// Start subscribes to every job subject and blocks until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info().Str("subject", nats.SubjectAll).Str("durable", c.durable).Msg("starting job event consumer")
	if err := c.client.Subscribe(ctx, c.durable, nats.SubjectAll, c.handleMessage); err != nil {
		return fmt.Errorf("subscribe %s: %w", nats.SubjectAll, err)
	}
	return nil
}

func (c *Consumer) handleMessage(subject string, data []byte) error {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		c.log.Error().Err(err).Str("subject", subject).Msg("invalid nats message format, skipping")
		return nil // ack poison messages
	}
	evt.Subject = subject

	c.log.Debug().Str("subject", subject).Str("type", evt.Type).Msg("received job event")

	if err := c.handle(evt); err != nil {
		c.log.Error().Err(err).Str("subject", subject).Msg("failed to handle job event")
		return err
	}
	return nil
}
