package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gatherhq/gather/internal/model"
)

// callerHeader carries the opaque caller identity. The identity is trusted
// as given; authenticating it is the deployment's problem.
const callerHeader = "X-Gather-Caller"

func callerFrom(r *http.Request) string {
	return r.Header.Get(callerHeader)
}

// eventID parses the {id} path value. The second return is false when the
// value is missing or not a uint64; the handler has already responded.
func eventID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return 0, false
	}
	return id, true
}

// writeEventError maps service errors to HTTP status codes.
func writeEventError(w http.ResponseWriter, err error) {
	var ie inputError
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyAttending):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleCreateEvent handles POST /v1/events.
func (s *EventsServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var payload model.EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.createEvent(r.Context(), callerFrom(r), payload)
	if err != nil {
		writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// handleListEvents handles GET /v1/events.
func (s *EventsServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.listEvents(r.Context())
	if err != nil {
		writeEventError(w, err)
		return
	}

	// Ensure events is never null in JSON output.
	if list == nil {
		list = []*model.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": list,
		"total":  len(list),
	})
}

// handleGetEvent handles GET /v1/events/{id}.
func (s *EventsServer) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := s.getEvent(r.Context(), id)
	if err != nil {
		writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// handleUpdateEvent handles PATCH /v1/events/{id}.
func (s *EventsServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var payload model.EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.updateEvent(r.Context(), callerFrom(r), id, payload)
	if err != nil {
		writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// handleAttendEvent handles POST /v1/events/{id}/attend.
func (s *EventsServer) handleAttendEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := s.attendEvent(r.Context(), callerFrom(r), id)
	if err != nil {
		writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// handleDeleteEvent handles DELETE /v1/events/{id}.
// Responds with the last stored record.
func (s *EventsServer) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := s.deleteEvent(r.Context(), callerFrom(r), id)
	if err != nil {
		writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}
