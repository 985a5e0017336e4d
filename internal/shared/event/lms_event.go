package event

// LMSEventMessage is one LMS action, e.g. llms_user_enrolled_in_course with
// the enrolled user and the course.
type LMSEventMessage struct {
	Event  string `json:"event" validate:"required,max=191"`
	UserID int64  `json:"user_id" validate:"gte=0"`
	PostID int64  `json:"post_id" validate:"gte=0"`
}

// ProcessMessage asks the processor of Type to drain its queue.
type ProcessMessage struct {
	Type string `json:"type" validate:"required,notification_type"`
}
