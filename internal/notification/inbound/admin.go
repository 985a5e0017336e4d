package inbound

import (
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
)

// Admin actions served on the notification_admin topic and by the CLI.
const (
	ActionListTriggers             = "list_triggers"
	ActionSendTest                 = "send_test"
	ActionPreview                  = "preview"
	ActionTestSettings             = "test_settings"
	ActionGetSubscriberSettings    = "get_subscriber_settings"
	ActionUpdateSubscriberSettings = "update_subscriber_settings"
	ActionListRecords              = "list_records"
	ActionMarkRead                 = "mark_read"
)

func RegisterAdminEndpoint(r *router.Router, uc ucAdmin) {
	end := &AdminEndpoint{uc: uc}

	r.Handle(ActionListTriggers, end.ListTriggers)
	r.Handle(ActionSendTest, end.SendTest)
	r.Handle(ActionPreview, end.Preview)
	r.Handle(ActionTestSettings, end.TestSettings)
	r.Handle(ActionGetSubscriberSettings, end.GetSubscriberSettings)
	r.Handle(ActionUpdateSubscriberSettings, end.UpdateSubscriberSettings)

	r.Handle(ActionListRecords, end.ListRecords)
	r.Handle(ActionMarkRead, end.MarkRead)
}
