package events

import (
	"context"

	"github.com/gatherhq/gather/internal/model"
)

// Event topic constants
const (
	TopicEventCreated  = "gather.event.created"
	TopicEventUpdated  = "gather.event.updated"
	TopicEventAttended = "gather.event.attended"
	TopicEventDeleted  = "gather.event.deleted"
)

// Event types

type EventCreated struct {
	Event *model.Event `json:"event"`
}

type EventUpdated struct {
	Event   *model.Event   `json:"event"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type EventAttended struct {
	Event    *model.Event `json:"event"`
	Attendee string       `json:"attendee"`
}

type EventDeleted struct {
	EventID uint64 `json:"event_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
