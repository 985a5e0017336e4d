package entity

import (
	"time"
)

// Record is one persisted notification for one (subscriber, type) pair.
// Subscriber is a user id in decimal or a literal address.
type Record struct {
	ID         int64
	TriggerID  string
	Subscriber string
	Type       Type
	PostID     int64
	UserID     int64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateRecord struct {
	ID         int64
	TriggerID  string
	Subscriber string
	Type       Type
	PostID     int64
	UserID     int64
	Status     Status
	CreatedAt  time.Time
}

// RecordFilter matches records for the dedup check. Zero PostID or UserID
// means the column is not filtered.
type RecordFilter struct {
	TriggerID  string
	Type       Type
	Subscriber string
	PostID     int64
	UserID     int64
}

// Content is a course or lesson referenced by a trigger event.
type Content struct {
	ID       int64
	Kind     ContentKind
	Title    string
	AuthorID int64
	ParentID int64
}

type User struct {
	ID          int64
	Email       string
	DisplayName string
}

type Template struct {
	TriggerID string
	Type      Type
	Subject   string
	Body      string
}

// View is a rendered notification.
type View struct {
	Subject string
	Body    string
}

// TestSetting describes one input the admin supplies for a test send.
type TestSetting struct {
	ID          string
	Title       string
	Description string
	ContentKind ContentKind
}

// TriggerInfo summarises a registered controller for admin listings.
type TriggerInfo struct {
	ID             string
	Title          string
	Events         []string
	SupportedTypes []Type
	TestableTypes  []Type
	AutoDedup      bool
}
