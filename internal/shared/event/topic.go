package event

// Broker topics and the consumer names subscribing to them.
const (
	// LMSEventDestination carries LMS lifecycle events published by the LMS.
	LMSEventDestination                     = "lms_events"
	LMSEventDestinationConsumerNotification = "notification_lms_events"

	// NotificationProcessDestination carries processor run schedules.
	NotificationProcessDestination          = "notification_process"
	NotificationProcessConsumerNotification = "notification_process_worker"

	NotificationAdminDestination          = "notification_admin"
	NotificationAdminConsumerNotification = "notification_admin_worker"

	CertificateAdminDestination         = "certificate_admin"
	CertificateAdminConsumerCertificate = "certificate_admin_worker"
)
