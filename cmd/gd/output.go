package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gatherhq/gather/internal/model"
)

func formatTimestamp(ns uint64) string {
	return time.Unix(0, int64(ns)).UTC().Format("2006-01-02 15:04:05")
}

func printEventJSON(event *model.Event) {
	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEventTable(event *model.Event) {
	fmt.Printf("ID:          %d\n", event.ID)
	fmt.Printf("Title:       %s\n", event.Title)
	if event.Description != "" {
		fmt.Printf("Description: %s\n", event.Description)
	}
	if event.Location != "" {
		fmt.Printf("Location:    %s\n", event.Location)
	}
	if event.ImageURL != "" {
		fmt.Printf("Image:       %s\n", event.ImageURL)
	}
	fmt.Printf("Owner:       %s\n", event.Owner)
	fmt.Printf("Attendees:   %d\n", len(event.Attendees))
	for _, a := range event.Attendees {
		fmt.Printf("  - %s\n", a)
	}
	fmt.Printf("Created At:  %s\n", formatTimestamp(event.CreatedAt))
	if event.UpdatedAt != nil {
		fmt.Printf("Updated At:  %s\n", formatTimestamp(*event.UpdatedAt))
	}
}

func printEventListJSON(events []*model.Event) {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEventListTable(events []*model.Event, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tOWNER\tATTENDEES")
	for _, e := range events {
		title := e.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			e.ID,
			title,
			e.Location,
			e.Owner,
			len(e.Attendees),
		)
	}
	w.Flush()
	fmt.Printf("\n%d events (%d total)\n", len(events), total)
}
