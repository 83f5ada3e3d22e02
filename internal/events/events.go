// Package events carries message triage notifications to live feed subscribers.
package events

import (
	"context"
	"time"

	"github.com/stemsi/contact-backend/internal/model"
)

// Type names a triage event.
type Type string

const (
	MessageCreated Type = "message.created"
	MessageUpdated Type = "message.updated"
	MessageDeleted Type = "message.deleted"
)

// Event is a single triage notification. Message is set for created and
// updated events; IDs lists the removed messages for deleted events.
type Event struct {
	Type       Type           `json:"type"`
	Message    *model.Message `json:"message,omitempty"`
	IDs        []string       `json:"ids,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Broker fans events out to every active subscriber.
type Broker interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe returns a channel of events and a func that releases the
	// subscription. The channel is closed once the subscription ends.
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
}

// subscriberBuffer is the per-subscriber queue length. Slow subscribers
// miss events rather than stall publishers.
const subscriberBuffer = 32
