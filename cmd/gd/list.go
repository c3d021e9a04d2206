package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all events",
	GroupID: "events",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := eventsClient.ListEvents(context.Background())
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		if jsonOutput {
			printEventListJSON(resp.Events)
		} else {
			printEventListTable(resp.Events, resp.Total)
		}
		return nil
	},
}
