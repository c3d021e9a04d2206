package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete an event you own",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		event, err := eventsClient.DeleteEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}

		if jsonOutput {
			printEventJSON(event)
		} else {
			fmt.Printf("event %d deleted\n", event.ID)
		}
		return nil
	},
}
