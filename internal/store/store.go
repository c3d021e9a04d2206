package store

import (
	"context"

	"github.com/gatherhq/gather/internal/model"
)

// Store defines the persistence interface for events.
//
// Lookups return (nil, nil) when no event exists under the id; errors are
// reserved for storage faults, which callers treat as unrecoverable.
type Store interface {
	// NextID issues a fresh event id. Ids are strictly increasing and are
	// never reused, even across restarts.
	NextID(ctx context.Context) (uint64, error)

	// GetEvent returns the event stored under id, or nil if absent.
	GetEvent(ctx context.Context, id uint64) (*model.Event, error)

	// PutEvent inserts or overwrites the event under its id and returns
	// the previous value, if any.
	PutEvent(ctx context.Context, event *model.Event) (*model.Event, error)

	// DeleteEvent removes the event under id and returns it, or nil if
	// absent.
	DeleteEvent(ctx context.Context, id uint64) (*model.Event, error)

	// ListEvents returns all events in ascending id order.
	ListEvents(ctx context.Context) ([]*model.Event, error)

	// Lifecycle
	Close() error
}
