package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shandysiswandi/coursebell/internal/app"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/shared/event"
	"github.com/spf13/cobra"
)

var (
	eventUserID int64
	eventPostID int64
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Publish LMS events to the broker",
}

var eventPublishCmd = &cobra.Command{
	Use:   "publish <event>",
	Short: "Publish one LMS event, e.g. llms_user_enrolled_in_course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(event.LMSEventMessage{Event: args[0], UserID: eventUserID, PostID: eventPostID})
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app.App) error {
			if _, err := a.Messaging().Publish(cmd.Context(), event.LMSEventDestination, messaging.OutgoingMessage{
				Body: body,
				Key:  []byte(strconv.FormatInt(eventUserID, 10)),
			}); err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s\n", args[0], event.LMSEventDestination)
			return nil
		})
	},
}

func init() {
	eventPublishCmd.Flags().Int64Var(&eventUserID, "user-id", 0, "acting user")
	eventPublishCmd.Flags().Int64Var(&eventPostID, "post-id", 0, "course or lesson id")
	eventCmd.AddCommand(eventPublishCmd)
	rootCmd.AddCommand(eventCmd)
}
