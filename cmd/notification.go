package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shandysiswandi/coursebell/internal/app"
	"github.com/shandysiswandi/coursebell/internal/notification/inbound"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
	"github.com/spf13/cobra"
)

var (
	notifType       string
	notifData       string
	notifSubscriber string
	notifUserID     int64
	notifPostID     int64
	recordsType     string
	notifLimit      int32
	notifRoles      map[string]string
	notifCustom     string
)

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notif"},
	Short:   "Administer notification triggers, settings and records",
}

var notificationTriggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List the registered triggers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionListTriggers, struct{}{})
	},
}

var notificationSendTestCmd = &cobra.Command{
	Use:   "send-test <trigger>",
	Short: "Send a test notification of one type to yourself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data valueobject.JSONMap
		if notifData != "" {
			if err := json.Unmarshal([]byte(notifData), &data); err != nil {
				return fmt.Errorf("--data: %w", err)
			}
		}
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionSendTest, inbound.SendTestRequest{
			TriggerID: args[0],
			Type:      notifType,
			Data:      data,
		})
	},
}

var notificationPreviewCmd = &cobra.Command{
	Use:   "preview <trigger>",
	Short: "Render a notification without sending it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionPreview, inbound.PreviewRequest{
			TriggerID:  args[0],
			Type:       notifType,
			Subscriber: notifSubscriber,
			UserID:     notifUserID,
			PostID:     notifPostID,
		})
	},
}

var notificationTestSettingsCmd = &cobra.Command{
	Use:   "test-settings <trigger>",
	Short: "Show the data a test send of a type accepts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionTestSettings, inbound.TriggerTypeRequest{
			TriggerID: args[0],
			Type:      notifType,
		})
	},
}

var notificationSettingsCmd = &cobra.Command{
	Use:   "settings <trigger>",
	Short: "Show the subscriber settings of a trigger and type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionGetSubscriberSettings, inbound.TriggerTypeRequest{
			TriggerID: args[0],
			Type:      notifType,
		})
	},
}

var notificationSetCmd = &cobra.Command{
	Use:   "set <trigger>",
	Short: "Update the subscriber settings of a trigger and type",
	Long: `Roles are given as --role student=yes --role course_author=no. Roles
that are not given keep their stored value. --custom replaces the custom
subscriber list when set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roles := make(map[string]bool, len(notifRoles))
		for role, raw := range notifRoles {
			on, err := parseYesNo(raw)
			if err != nil {
				return fmt.Errorf("--role %s: %w", role, err)
			}
			roles[role] = on
		}

		req := inbound.UpdateSubscriberSettingsRequest{TriggerID: args[0], Type: notifType, Roles: roles}
		if cmd.Flags().Changed("custom") {
			req.Custom = &notifCustom
		}
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionUpdateSubscriberSettings, req)
	},
}

var notificationRecordsCmd = &cobra.Command{
	Use:   "records <subscriber>",
	Short: "List the notifications of a subscriber, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionListRecords, inbound.ListRecordsRequest{
			Subscriber: args[0],
			Type:       recordsType,
			Limit:      notifLimit,
		})
	},
}

var notificationMarkReadCmd = &cobra.Command{
	Use:   "mark-read <record-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("record id: %w", err)
		}
		return runAdmin(cmd, app.ModuleNotification, inbound.ActionMarkRead, inbound.MarkReadRequest{ID: id})
	},
}

func parseYesNo(raw string) (bool, error) {
	switch raw {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("want yes or no, got %q", raw)
	}
}

func init() {
	for _, c := range []*cobra.Command{notificationSendTestCmd, notificationPreviewCmd, notificationTestSettingsCmd, notificationSettingsCmd, notificationSetCmd} {
		c.Flags().StringVar(&notifType, "type", "email", "delivery type (basic, email)")
	}
	notificationRecordsCmd.Flags().StringVar(&recordsType, "type", "", "only records of this type")
	notificationRecordsCmd.Flags().Int32Var(&notifLimit, "limit", 20, "maximum records")

	notificationSendTestCmd.Flags().StringVar(&notifData, "data", "", `test data as JSON, e.g. {"course_id":7}`)

	notificationPreviewCmd.Flags().StringVar(&notifSubscriber, "subscriber", "", "subscriber (defaults to you)")
	notificationPreviewCmd.Flags().Int64Var(&notifUserID, "user-id", 0, "event user (defaults to you)")
	notificationPreviewCmd.Flags().Int64Var(&notifPostID, "post-id", 0, "event post")

	notificationSetCmd.Flags().StringToStringVar(&notifRoles, "role", nil, "role=yes|no, repeatable")
	notificationSetCmd.Flags().StringVar(&notifCustom, "custom", "", "comma separated custom subscribers")

	notificationCmd.AddCommand(
		notificationTriggersCmd,
		notificationSendTestCmd,
		notificationPreviewCmd,
		notificationTestSettingsCmd,
		notificationSettingsCmd,
		notificationSetCmd,
		notificationRecordsCmd,
		notificationMarkReadCmd,
	)
	rootCmd.AddCommand(notificationCmd)
}
