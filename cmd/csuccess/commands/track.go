package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// NewTrackCommand creates the track command for sending usage activity
// events to the events collector.
func NewTrackCommand() *cobra.Command {
	var (
		contactID   string
		occurrences int
		timestamp   string
	)

	cmd := &cobra.Command{
		Use:   "track CLIENT_ID ACTIVITY",
		Short: "Track a usage activity event",
		Long:  "Send a usage activity event to the ClientSuccess events collector. Requires events-project-id and events-api-key in the configuration.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("events-project-id") == "" || viper.GetString("events-api-key") == "" {
				return ErrEventsConfigIncomplete
			}

			api, err := CreateClient()
			if err != nil {
				return err
			}

			activity := &clientsuccess.Activity{
				ClientID:    args[0],
				ContactID:   contactID,
				Activity:    args[1],
				Occurrences: occurrences,
			}

			if timestamp != "" {
				when, err := time.Parse(time.RFC3339, timestamp)
				if err != nil {
					return fmt.Errorf("parsing timestamp: %w", err)
				}

				activity.Timestamp = &when
			}

			if err := api.Activities().Track(context.Background(), activity); err != nil {
				return err
			}

			fmt.Printf("Tracked %q for client %s\n", args[1], args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&contactID, "contact", "", "contact ID the activity is attributed to")
	cmd.Flags().IntVar(&occurrences, "occurrences", 0, "number of occurrences (defaults to 1)")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "event time in RFC3339 (defaults to now)")

	return cmd
}
