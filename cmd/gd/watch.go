package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gatherhq/gather/internal/events"
	"github.com/gatherhq/gather/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch for new and changed events",
	GroupID: "events",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[uint64]uint64)

		// Initial query.
		if err := queryAndPrint(ctx, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Event-driven when a NATS URL is configured, polling otherwise.
		natsURL := os.Getenv("GATHER_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, seen)
		}
		return watchPoll(ctx, interval, seen)
	},
}

// watchNATS subscribes to NATS events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, seen map[uint64]uint64) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("gather.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, seen map[uint64]uint64) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists events, diffs against the seen map, and prints any changes.
func queryAndPrint(ctx context.Context, seen map[uint64]uint64) error {
	resp, err := eventsClient.ListEvents(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	changed := diffEvents(resp.Events, seen)
	if len(changed) > 0 {
		if jsonOutput {
			printEventListJSON(changed)
		} else {
			printEventListTable(changed, resp.Total)
		}
	}
	return nil
}

// diffEvents compares events against the seen map and returns those that are
// new or have a different updated_at timestamp. It updates seen in place.
func diffEvents(list []*model.Event, seen map[uint64]uint64) []*model.Event {
	var changed []*model.Event
	for _, e := range list {
		var updatedAt uint64
		if e.UpdatedAt != nil {
			updatedAt = *e.UpdatedAt
		}
		prev, ok := seen[e.ID]
		if !ok || updatedAt != prev {
			changed = append(changed, e)
		}
		seen[e.ID] = updatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first poll")
}
