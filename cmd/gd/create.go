package main

import (
	"context"
	"fmt"

	"github.com/gatherhq/gather/internal/model"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	Short:   "Create a new event",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		location, _ := cmd.Flags().GetString("location")
		imageURL, _ := cmd.Flags().GetString("image")

		event, err := eventsClient.CreateEvent(context.Background(), model.EventPayload{
			Title:       args[0],
			Description: description,
			Location:    location,
			ImageURL:    imageURL,
		})
		if err != nil {
			return fmt.Errorf("creating event: %w", err)
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
	createCmd.Flags().StringP("description", "d", "", "event description")
	createCmd.Flags().StringP("location", "l", "", "event location")
	createCmd.Flags().String("image", "", "event card image URL")
}
