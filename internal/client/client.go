// Package client provides a transport-agnostic interface for the gather
// service and an HTTP/JSON implementation that talks to the gather REST API.
package client

import (
	"context"

	"github.com/gatherhq/gather/internal/model"
)

// EventsClient is the interface that all gather CLI commands use to
// communicate with the gather server. It is implemented by HTTPClient
// (default) and can be backed by any transport.
type EventsClient interface {
	// Event CRUD
	CreateEvent(ctx context.Context, payload model.EventPayload) (*model.Event, error)
	GetEvent(ctx context.Context, id uint64) (*model.Event, error)
	ListEvents(ctx context.Context) (*ListEventsResponse, error)
	UpdateEvent(ctx context.Context, id uint64, payload model.EventPayload) (*model.Event, error)
	AttendEvent(ctx context.Context, id uint64) (*model.Event, error)
	DeleteEvent(ctx context.Context, id uint64) (*model.Event, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListEventsResponse is the response from ListEvents.
type ListEventsResponse struct {
	Events []*model.Event `json:"events"`
	Total  int            `json:"total"`
}
