package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var attendCmd = &cobra.Command{
	Use:     "attend <id>",
	Short:   "Attend an event as the current caller",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		event, err := eventsClient.AttendEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("attending event: %w", err)
		}

		if jsonOutput {
			printEventJSON(event)
		} else {
			printEventTable(event)
		}
		return nil
	},
}
