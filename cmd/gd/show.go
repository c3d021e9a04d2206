package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// parseEventID parses a CLI id argument.
func parseEventID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid event id %q", arg)
	}
	return id, nil
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show an event",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		event, err := eventsClient.GetEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("getting event: %w", err)
		}

		if jsonOutput {
			printEventJSON(event)
		} else {
			printEventTable(event)
		}
		return nil
	},
}
