package controller

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

// Event is the state captured from one trigger firing.
type Event struct {
	UserID int64
	PostID int64
	// Post is the content referenced by PostID, nil when it could not be loaded.
	Post *entity.Content
}

// Trigger describes one kind of notification: which events fire it, which
// types and subscriber roles it offers and how roles map to recipients.
type Trigger interface {
	ID() string
	Title() string
	Events() []string
	AcceptedArgs() int
	// Capture builds the event from callback args, already padded to AcceptedArgs.
	Capture(ctx context.Context, args []any) (Event, error)
	SupportedTypes() []entity.Type
	SubscriberOptions(t entity.Type) []entity.RoleOption
	// Subscriber resolves role to a recipient identity, "" when there is none.
	Subscriber(ctx context.Context, ev Event, role string) string
}

// Tester is implemented by triggers that can build an event for a test send.
type Tester interface {
	TestSettings(t entity.Type) []entity.TestSetting
	TestEvent(ctx context.Context, t entity.Type, actorID int64, data valueobject.JSONMap) (Event, error)
}

// Callback receives the raw args of an event.
type Callback func(ctx context.Context, args ...any)

// EventSource lets a controller subscribe to named events.
type EventSource interface {
	On(event string, priority, acceptedArgs int, cb Callback)
}

// RecordStore persists records. HasRecord ignores failed records so a
// notification that never left the queue can be sent again.
type RecordStore interface {
	CreateRecord(ctx context.Context, in entity.CreateRecord) error
	HasRecord(ctx context.Context, filter entity.RecordFilter) (bool, error)
	UpdateRecordStatus(ctx context.Context, id int64, status entity.Status) error
}

// OptionStore reads and writes named settings. GetOption returns
// goerror.ErrNotFound when the option was never saved.
type OptionStore interface {
	GetOption(ctx context.Context, name string) (string, error)
	SetOption(ctx context.Context, name, value string) error
}

// AsyncSink is the queue of a per-type background processor.
type AsyncSink interface {
	Enqueue(ctx context.Context, recordID int64) error
	// ScheduleRun asks for a processor run; repeated calls while a run is
	// pending are no-ops.
	ScheduleRun(ctx context.Context) error
}

type ViewRenderer interface {
	Render(ctx context.Context, rec entity.Record) (entity.View, error)
}
