package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherhq/gather/internal/events"
	"github.com/gatherhq/gather/internal/model"
)

// Domain errors. Transport layers map these to status codes; everything else
// is an internal failure.
var (
	ErrNotFound         = errors.New("event not found")
	ErrNotAuthorized    = errors.New("caller is not the event owner")
	ErrAlreadyAttending = errors.New("caller is already attending")
)

// createEvent validates the payload, allocates a fresh id, persists the new
// event owned by caller, and publishes an EventCreated event. Returns
// inputError for validation failures.
func (s *EventsServer) createEvent(ctx context.Context, caller string, payload model.EventPayload) (*model.Event, error) {
	if caller == "" {
		return nil, inputError("caller identity is required")
	}
	if err := model.ValidatePayload(payload); err != nil {
		return nil, inputError(err.Error())
	}

	id, err := s.store.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate id: %w", err)
	}

	event := &model.Event{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		ImageURL:    payload.ImageURL,
		Owner:       caller,
		Attendees:   []string{},
		CreatedAt:   s.now(),
	}

	if _, err := s.store.PutEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	s.publish(ctx, events.TopicEventCreated, event.ID, events.EventCreated{Event: event})

	return event, nil
}

// getEvent returns the event stored under id, or ErrNotFound.
func (s *EventsServer) getEvent(ctx context.Context, id uint64) (*model.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

// updateEvent replaces the payload fields of an event owned by caller.
// Preconditions are checked in order: existence, ownership, then payload
// validity. The stored record is untouched when any of them fails.
func (s *EventsServer) updateEvent(ctx context.Context, caller string, id uint64, payload model.EventPayload) (*model.Event, error) {
	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Owner != caller {
		return nil, ErrNotAuthorized
	}
	if err := model.ValidatePayload(payload); err != nil {
		return nil, inputError(err.Error())
	}

	updated := current.Clone()
	updated.Title = payload.Title
	updated.Description = payload.Description
	updated.Location = payload.Location
	updated.ImageURL = payload.ImageURL
	now := s.now()
	updated.UpdatedAt = &now

	if _, err := s.store.PutEvent(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	s.publish(ctx, events.TopicEventUpdated, id, events.EventUpdated{
		Event: updated,
		Changes: map[string]any{
			"title":       payload.Title,
			"description": payload.Description,
			"location":    payload.Location,
			"image_url":   payload.ImageURL,
		},
	})

	return updated, nil
}

// attendEvent appends caller to the event's attendee list. Any identity may
// attend, but only once per event.
func (s *EventsServer) attendEvent(ctx context.Context, caller string, id uint64) (*model.Event, error) {
	if caller == "" {
		return nil, inputError("caller identity is required")
	}

	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Attending(caller) {
		return nil, ErrAlreadyAttending
	}

	updated := current.Clone()
	updated.Attendees = append(updated.Attendees, caller)
	now := s.now()
	updated.UpdatedAt = &now

	if _, err := s.store.PutEvent(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	s.publish(ctx, events.TopicEventAttended, id, events.EventAttended{
		Event:    updated,
		Attendee: caller,
	})

	return updated, nil
}

// deleteEvent removes an event owned by caller and returns the last stored
// record. An ownership failure leaves the record stored and unchanged.
func (s *EventsServer) deleteEvent(ctx context.Context, caller string, id uint64) (*model.Event, error) {
	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Owner != caller {
		return nil, ErrNotAuthorized
	}

	removed, err := s.store.DeleteEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}
	if removed == nil {
		return nil, ErrNotFound
	}

	s.publish(ctx, events.TopicEventDeleted, id, events.EventDeleted{EventID: id})

	return removed, nil
}

// listEvents returns all events in ascending id order.
func (s *EventsServer) listEvents(ctx context.Context) ([]*model.Event, error) {
	list, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return list, nil
}
