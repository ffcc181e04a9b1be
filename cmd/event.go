package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the lifecycle events the console emits and publish test events`,
}

var listEventCmd = &cobra.Command{
	Use:   "list",
	Short: "List the event types the console emits",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.Types {
			fmt.Println(t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus, with the audit subscriber attached`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(events.Types, args[0]) {
			return fmt.Errorf("unknown event type %q, see `event list`", args[0])
		}
		return publishTestEvent(args[0])
	},
}

var eventData string

func publishTestEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	subscribeAudit(bus, lg)

	testEvent := events.NewBaseEvent(eventType, map[string]interface{}{
		"message": eventData,
		"source":  "cli-command",
	})

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)
	if err := bus.Publish(context.Background(), testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	bus.Wait()
	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(listEventCmd)
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
