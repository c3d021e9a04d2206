package model

// Event is the core record: a gathering with an owner and a list of
// attendees. Timestamps are Unix nanoseconds; UpdatedAt is nil until the
// first successful update.
type Event struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Owner       string   `json:"owner"`
	Attendees   []string `json:"attendees"`
	CreatedAt   uint64   `json:"created_at"`
	UpdatedAt   *uint64  `json:"updated_at,omitempty"`
}

// EventPayload carries the caller-editable fields of an event.
// ID, owner, attendees, and timestamps are managed by the service.
type EventPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

// Attending reports whether the given identity is already on the attendee
// list. Identities are opaque and compared by equality only.
func (e *Event) Attending(identity string) bool {
	for _, a := range e.Attendees {
		if a == identity {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the event. Mutating service operations work
// on a copy so a failed validation never touches the stored value.
func (e *Event) Clone() *Event {
	c := *e
	c.Attendees = append([]string(nil), e.Attendees...)
	if e.UpdatedAt != nil {
		u := *e.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}
