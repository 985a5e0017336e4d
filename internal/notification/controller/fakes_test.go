package controller

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

// enrollmentTrigger mirrors the course enrollment trigger with an in-memory
// content table.
type enrollmentTrigger struct {
	authors map[int64]int64
}

func (enrollmentTrigger) ID() string        { return "course_enrollment" }
func (enrollmentTrigger) Title() string     { return "Course Enrollment" }
func (enrollmentTrigger) Events() []string  { return []string{"llms_user_enrolled_in_course"} }
func (enrollmentTrigger) AcceptedArgs() int { return 2 }
func (enrollmentTrigger) SupportedTypes() []entity.Type {
	return []entity.Type{entity.TypeBasic, entity.TypeEmail}
}

func (tr enrollmentTrigger) Capture(_ context.Context, args []any) (Event, error) {
	userID, _ := args[0].(int64)
	courseID, _ := args[1].(int64)
	ev := Event{UserID: userID, PostID: courseID}
	if author, ok := tr.authors[courseID]; ok {
		ev.Post = &entity.Content{ID: courseID, Kind: entity.ContentKindCourse, AuthorID: author}
	}
	return ev, nil
}

func (enrollmentTrigger) SubscriberOptions(t entity.Type) []entity.RoleOption {
	switch t {
	case entity.TypeBasic:
		return []entity.RoleOption{
			entity.MustRoleOption(entity.RoleStudent, entity.Enabled),
			entity.MustRoleOption(entity.RoleCourseAuthor, entity.Disabled),
		}
	case entity.TypeEmail:
		return []entity.RoleOption{
			entity.MustRoleOption(entity.RoleStudent, entity.Disabled),
			entity.MustRoleOption(entity.RoleCourseAuthor, entity.Disabled),
			entity.MustRoleOption(entity.RoleCustom, entity.Disabled),
		}
	}
	return nil
}

func (enrollmentTrigger) Subscriber(_ context.Context, ev Event, role string) string {
	switch role {
	case entity.RoleStudent:
		return UserSubscriber(ev.UserID)
	case entity.RoleCourseAuthor:
		if ev.Post == nil {
			return ""
		}
		return UserSubscriber(ev.Post.AuthorID)
	}
	return ""
}

func (enrollmentTrigger) TestSettings(entity.Type) []entity.TestSetting {
	return []entity.TestSetting{{ID: "course_id", Title: "Course", ContentKind: entity.ContentKindCourse}}
}

func (enrollmentTrigger) TestEvent(_ context.Context, _ entity.Type, actorID int64, data valueobject.JSONMap) (Event, error) {
	courseID := data.GetInt64("course_id")
	if courseID <= 0 {
		return Event{}, errors.New("course_id is required")
	}
	return Event{UserID: actorID, PostID: courseID}, nil
}

type memStore struct {
	mu        sync.Mutex
	records   []entity.CreateRecord
	failFor   map[string]error
	hasRecErr error
	updateErr error
}

func (s *memStore) CreateRecord(_ context.Context, in entity.CreateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failFor[in.Subscriber]; err != nil {
		return err
	}
	s.records = append(s.records, in)
	return nil
}

func (s *memStore) HasRecord(_ context.Context, f entity.RecordFilter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasRecErr != nil {
		return false, s.hasRecErr
	}
	for _, r := range s.records {
		if r.TriggerID != f.TriggerID || r.Type != f.Type || r.Subscriber != f.Subscriber || r.Status == entity.StatusFailed {
			continue
		}
		if f.PostID != 0 && r.PostID != f.PostID {
			continue
		}
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (s *memStore) UpdateRecordStatus(_ context.Context, id int64, status entity.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = status
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (s *memStore) all() []entity.CreateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.CreateRecord(nil), s.records...)
}

type memOptions struct {
	values map[string]string
	getErr error
}

func (o *memOptions) GetOption(_ context.Context, name string) (string, error) {
	if o.getErr != nil {
		return "", o.getErr
	}
	v, ok := o.values[name]
	if !ok {
		return "", goerror.ErrNotFound
	}
	return v, nil
}

func (o *memOptions) SetOption(_ context.Context, name, value string) error {
	if o.values == nil {
		o.values = map[string]string{}
	}
	o.values[name] = value
	return nil
}

type fakeSink struct {
	enqueued   []int64
	scheduled  int
	enqueueErr error
	// failures is how many Enqueue calls fail before one succeeds
	failures int
	attempts int
}

func (s *fakeSink) Enqueue(_ context.Context, id int64) error {
	s.attempts++
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	if s.failures > 0 {
		s.failures--
		return errors.New("redis: i/o timeout")
	}
	s.enqueued = append(s.enqueued, id)
	return nil
}

func (s *fakeSink) ScheduleRun(context.Context) error {
	s.scheduled++
	return nil
}

type echoViews struct{}

func (echoViews) Render(_ context.Context, rec entity.Record) (entity.View, error) {
	return entity.View{
		Subject: rec.TriggerID + ":" + rec.Type.String(),
		Body:    rec.Subscriber + "/" + strconv.FormatInt(rec.UserID, 10) + "/" + strconv.FormatInt(rec.PostID, 10),
	}, nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

type fixture struct {
	store   *memStore
	options *memOptions
	sink    *fakeSink
	ctrl    *Controller
}

func newFixture(t *testing.T, cfg Config, hooks Hooks) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	f := &fixture{
		store:   &memStore{},
		options: &memOptions{values: map[string]string{}},
		sink:    &fakeSink{},
	}

	ctrl, err := New(Dependency{
		Trigger:    enrollmentTrigger{authors: map[int64]int64{7: 9, 8: 0}},
		Config:     cfg,
		Hooks:      hooks,
		Store:      f.store,
		Options:    f.options,
		Sinks:      map[entity.Type]AsyncSink{entity.TypeEmail: f.sink},
		Views:      echoViews{},
		UID:        &seqID{},
		Clock:      clock.Fixed(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)),
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	ctrl.dispatcher.enqueueBackoff = time.Millisecond
	f.ctrl = ctrl
	return f
}
