package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gatherhq/gather/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EventCount int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all events from the store as JSONL to w, in ascending
// id order.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		EventCount: len(events),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write events.
	for _, e := range events {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %d: %w", e.ID, err)
		}
	}

	return nil
}
