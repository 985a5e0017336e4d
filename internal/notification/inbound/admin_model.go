package inbound

import (
	"time"

	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

type TriggerResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Events         []string `json:"events"`
	SupportedTypes []string `json:"supported_types"`
	TestableTypes  []string `json:"testable_types"`
	AutoDedup      bool     `json:"auto_dedup"`
}

type TriggersResponse struct {
	Triggers []TriggerResponse `json:"triggers"`
}

type TriggerTypeRequest struct {
	TriggerID string `json:"trigger_id"`
	Type      string `json:"type"`
}

type SendTestRequest struct {
	TriggerID string              `json:"trigger_id"`
	Type      string              `json:"type"`
	Data      valueobject.JSONMap `json:"data"`
}

type SendTestResponse struct {
	RecordID int64 `json:"record_id,string"`
	Queued   bool  `json:"queued"`
}

type PreviewRequest struct {
	TriggerID  string `json:"trigger_id"`
	Type       string `json:"type"`
	Subscriber string `json:"subscriber"`
	UserID     int64  `json:"user_id"`
	PostID     int64  `json:"post_id"`
}

type ViewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type TestSettingResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ContentKind string `json:"content_kind"`
}

type TestSettingsResponse struct {
	Settings []TestSettingResponse `json:"settings"`
}

type RoleOptionResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Default     string `json:"default"`
}

type SubscriberSettingsResponse struct {
	Type    string               `json:"type"`
	Options []RoleOptionResponse `json:"options"`
	Roles   map[string]bool      `json:"roles"`
	Custom  string               `json:"custom"`
}

type UpdateSubscriberSettingsRequest struct {
	TriggerID string          `json:"trigger_id"`
	Type      string          `json:"type"`
	Roles     map[string]bool `json:"roles"`
	Custom    *string         `json:"custom"`
}

type ListRecordsRequest struct {
	Subscriber string `json:"subscriber"`
	Type       string `json:"type"`
	Limit      int32  `json:"limit"`
}

type RecordResponse struct {
	ID         int64     `json:"id,string"`
	TriggerID  string    `json:"trigger_id"`
	Subscriber string    `json:"subscriber"`
	Type       string    `json:"type"`
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RecordsResponse struct {
	Records []RecordResponse `json:"records"`
}

type MarkReadRequest struct {
	ID int64 `json:"id,string"`
}
