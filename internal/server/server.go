package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gatherhq/gather/internal/events"
	"github.com/gatherhq/gather/internal/store"
)

// EventsServer implements the event service operations on top of a store
// and an event publisher.
type EventsServer struct {
	store     store.Store
	publisher events.Publisher
	now       func() uint64
}

// NewEventsServer returns a new EventsServer backed by the given store and publisher.
func NewEventsServer(s store.Store, p events.Publisher) *EventsServer {
	return &EventsServer{
		store:     s,
		publisher: p,
		now:       func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// publish emits an event to the bus. Best-effort; failures are logged but do
// not block the caller.
func (s *EventsServer) publish(ctx context.Context, topic string, eventID uint64, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "event_id", eventID, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
