package main

import (
	"context"
	"fmt"

	"github.com/gatherhq/gather/internal/model"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <id> <title>",
	Short:   "Update an event you own",
	GroupID: "events",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		location, _ := cmd.Flags().GetString("location")
		imageURL, _ := cmd.Flags().GetString("image")

		event, err := eventsClient.UpdateEvent(context.Background(), id, model.EventPayload{
			Title:       args[1],
			Description: description,
			Location:    location,
			ImageURL:    imageURL,
		})
		if err != nil {
			return fmt.Errorf("updating event: %w", err)
		}

		if jsonOutput {
			printEventJSON(event)
		} else {
			printEventTable(event)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringP("description", "d", "", "event description")
	updateCmd.Flags().StringP("location", "l", "", "event location")
	updateCmd.Flags().String("image", "", "event card image URL")
}
