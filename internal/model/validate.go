package model

import "fmt"

// ValidatePayload checks that a payload is well-formed enough to store.
// Field sizes are not bounded here; the codec enforces the total encoded
// record limit.
func ValidatePayload(p EventPayload) error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
