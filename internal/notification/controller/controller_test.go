package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

func TestController_Send(t *testing.T) {
	t.Run("enrollment with defaults creates one basic record for the student", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})

		// Act
		results := f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 7}, false)

		// Assert
		if len(results) != 1 {
			t.Fatalf("results = %d, want 1", len(results))
		}
		if results[0].Outcome != OutcomeCreated || results[0].Queued {
			t.Fatalf("result = %+v, want created and not queued", results[0])
		}
		recs := f.store.all()
		if len(recs) != 1 {
			t.Fatalf("records = %d, want 1", len(recs))
		}
		got := recs[0]
		if got.Subscriber != "42" || got.Type != entity.TypeBasic || got.PostID != 7 || got.UserID != 42 {
			t.Fatalf("record = %+v", got)
		}
		if got.Status != entity.StatusNew || got.TriggerID != "course_enrollment" {
			t.Fatalf("record = %+v", got)
		}
		if len(f.sink.enqueued) != 0 {
			t.Fatalf("basic record was enqueued")
		}
	})

	t.Run("auto dedup skips a repeated event", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{AutoDedup: true}, Hooks{})
		ev := Event{UserID: 42, PostID: 7}
		f.ctrl.Send(t.Context(), ev, false)

		// Act
		results := f.ctrl.Send(t.Context(), ev, false)

		// Assert
		for _, r := range results {
			if r.Outcome != OutcomeSkipped {
				t.Fatalf("outcome = %s, want skipped", r.Outcome)
			}
		}
		if n := len(f.store.all()); n != 1 {
			t.Fatalf("records = %d, want 1", n)
		}
	})

	t.Run("forced send ignores dedup", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{AutoDedup: true}, Hooks{})
		ev := Event{UserID: 42, PostID: 7}
		f.ctrl.Send(t.Context(), ev, false)

		// Act
		results := f.ctrl.Send(t.Context(), ev, true)

		// Assert
		if len(results) != 1 || results[0].Outcome != OutcomeCreated {
			t.Fatalf("results = %+v", results)
		}
		if n := len(f.store.all()); n != 2 {
			t.Fatalf("records = %d, want 2", n)
		}
	})

	t.Run("without auto dedup a repeated event creates again", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		ev := Event{UserID: 42, PostID: 7}
		f.ctrl.Send(t.Context(), ev, false)

		// Act
		f.ctrl.Send(t.Context(), ev, false)

		// Assert
		if n := len(f.store.all()); n != 2 {
			t.Fatalf("records = %d, want 2", n)
		}
	})

	t.Run("custom recipients become separate email subscribers", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		f.options.values["notification_course_enrollment_email_subscribers"] = `{"custom":"yes"}`
		f.options.values["notification_course_enrollment_email_custom_subscribers"] = "a@x.com, b@y.com,"

		// Act
		results := f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 7}, false)

		// Assert
		var emails []string
		for _, r := range f.store.all() {
			if r.Type == entity.TypeEmail {
				emails = append(emails, r.Subscriber)
			}
		}
		if len(emails) != 2 || emails[0] != "a@x.com" || emails[1] != "b@y.com" {
			t.Fatalf("email subscribers = %v", emails)
		}
		if len(results) != 3 {
			t.Fatalf("results = %d, want 3", len(results))
		}
		if len(f.sink.enqueued) != 2 || f.sink.scheduled != 2 {
			t.Fatalf("enqueued = %v scheduled = %d", f.sink.enqueued, f.sink.scheduled)
		}
	})

	t.Run("numeric custom recipient is not sent as a user", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		f.options.values["notification_course_enrollment_email_subscribers"] = `{"custom":"yes"}`
		f.options.values["notification_course_enrollment_email_custom_subscribers"] = "42, a@x.com"

		// Act
		f.ctrl.Send(t.Context(), Event{UserID: 7, PostID: 7}, false)

		// Assert
		var emails []string
		for _, r := range f.store.all() {
			if r.Type == entity.TypeEmail {
				emails = append(emails, r.Subscriber)
			}
		}
		if len(emails) != 1 || emails[0] != "a@x.com" {
			t.Fatalf("email subscribers = %v", emails)
		}
	})

	t.Run("enabled author role with no author creates nothing for it", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		f.options.values["notification_course_enrollment_basic_subscribers"] = `{"student":"no","course_author":"yes"}`

		// Act
		results := f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 8}, false)

		// Assert
		if len(results) != 0 {
			t.Fatalf("results = %+v, want none", results)
		}
	})

	t.Run("enabled author role resolves the content author", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		f.options.values["notification_course_enrollment_email_subscribers"] = `{"course_author":"yes"}`

		// Act
		f.ctrl.Handle(t.Context(), int64(42), int64(7))

		// Assert
		recs := f.store.all()
		if len(recs) != 2 {
			t.Fatalf("records = %d, want 2", len(recs))
		}
		if recs[1].Subscriber != "9" || recs[1].Type != entity.TypeEmail {
			t.Fatalf("author record = %+v", recs[1])
		}
	})

	t.Run("persist failure is reported and the loop continues", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		f.options.values["notification_course_enrollment_email_subscribers"] = `{"custom":"yes"}`
		f.options.values["notification_course_enrollment_email_custom_subscribers"] = "a@x.com,b@y.com"
		f.store.failFor = map[string]error{"a@x.com": errors.New("disk full")}

		// Act
		results := f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 7}, false)

		// Assert
		if len(results) != 3 {
			t.Fatalf("results = %d, want 3", len(results))
		}
		if results[1].Outcome != OutcomeFailed || results[1].Err == nil {
			t.Fatalf("result[1] = %+v, want failed", results[1])
		}
		if results[2].Outcome != OutcomeCreated || !results[2].Queued {
			t.Fatalf("result[2] = %+v, want created and queued", results[2])
		}
		if len(f.sink.enqueued) != 1 {
			t.Fatalf("enqueued = %v, want one", f.sink.enqueued)
		}
	})

	t.Run("option store failure falls back to defaults", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		f.options.getErr = errors.New("connection refused")

		// Act
		results := f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 7}, false)

		// Assert
		if len(results) != 1 || results[0].Outcome != OutcomeCreated {
			t.Fatalf("results = %+v", results)
		}
	})

	t.Run("resolver override takes precedence", func(t *testing.T) {
		// Arrange
		hooks := Hooks{Resolvers: []ResolveFunc{
			func(_ context.Context, _ Event, role string) (string, bool) {
				return "override", role == entity.RoleStudent
			},
		}}
		f := newFixture(t, Config{}, hooks)

		// Act
		f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 7}, false)

		// Assert
		recs := f.store.all()
		if len(recs) != 1 || recs[0].Subscriber != "override" {
			t.Fatalf("records = %+v", recs)
		}
	})
}

func TestController_Handle(t *testing.T) {
	t.Run("missing args are padded", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})

		// Act
		f.ctrl.Handle(t.Context(), int64(42))

		// Assert
		recs := f.store.all()
		if len(recs) != 1 || recs[0].PostID != 0 || recs[0].UserID != 42 {
			t.Fatalf("records = %+v", recs)
		}
	})

	t.Run("extra args are dropped", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})

		// Act
		f.ctrl.Handle(t.Context(), int64(42), int64(7), "extra")

		// Assert
		if n := len(f.store.all()); n != 1 {
			t.Fatalf("records = %d, want 1", n)
		}
	})

	t.Run("panicking hook does not stop later controllers", func(t *testing.T) {
		// Arrange
		broken := newFixture(t, Config{Priority: 1}, Hooks{
			Resolvers: []ResolveFunc{func(context.Context, Event, string) (string, bool) {
				panic("resolver exploded")
			}},
		})
		healthy := newFixture(t, Config{Priority: 2}, Hooks{})
		r := NewRegistry()
		if err := broken.ctrl.Bind(r); err != nil {
			t.Fatalf("bind broken: %v", err)
		}
		if err := healthy.ctrl.Bind(r); err != nil {
			t.Fatalf("bind healthy: %v", err)
		}

		// Act
		n := r.Fire(t.Context(), "llms_user_enrolled_in_course", int64(42), int64(7))

		// Assert
		if n != 2 {
			t.Fatalf("Fire() = %d, want 2", n)
		}
		if got := len(broken.store.all()); got != 0 {
			t.Fatalf("broken records = %d, want 0", got)
		}
		if got := len(healthy.store.all()); got != 1 {
			t.Fatalf("healthy records = %d, want 1", got)
		}
	})

	t.Run("panicking supported types hook is contained", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{
			SupportedTypes: []func([]entity.Type) []entity.Type{func([]entity.Type) []entity.Type {
				panic("types exploded")
			}},
		})

		// Act
		f.ctrl.Handle(t.Context(), int64(42), int64(7))

		// Assert
		if n := len(f.store.all()); n != 0 {
			t.Fatalf("records = %d, want 0", n)
		}
	})
}

func TestController_Bind(t *testing.T) {
	// Arrange
	f := newFixture(t, Config{}, Hooks{})
	r := NewRegistry()

	// Act
	first := f.ctrl.Bind(r)
	second := f.ctrl.Bind(r)

	// Assert
	if first != nil {
		t.Fatalf("first Bind() error = %v", first)
	}
	if !errors.Is(second, ErrAlreadyBound) {
		t.Fatalf("second Bind() error = %v, want ErrAlreadyBound", second)
	}
	if got := r.Events(); len(got) != 1 || got[0] != "llms_user_enrolled_in_course" {
		t.Fatalf("events = %v", got)
	}
}

func TestController_SendTest(t *testing.T) {
	testable := Config{AutoDedup: true, Testable: map[entity.Type]bool{entity.TypeBasic: true}}

	t.Run("no actor", func(t *testing.T) {
		// Arrange
		f := newFixture(t, testable, Hooks{})

		// Act
		_, err := f.ctrl.SendTest(t.Context(), entity.TypeBasic, valueobject.JSONMap{"course_id": 7})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("error = %v, want unauthorized", err)
		}
	})

	t.Run("type not testable", func(t *testing.T) {
		// Arrange
		f := newFixture(t, testable, Hooks{})
		ctx := jwt.SetAuth(t.Context(), jwt.Claims{UserID: 5})

		// Act
		_, err := f.ctrl.SendTest(ctx, entity.TypeEmail, valueobject.JSONMap{"course_id": 7})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("error = %v, want invalid input", err)
		}
	})

	t.Run("invalid test data", func(t *testing.T) {
		// Arrange
		f := newFixture(t, testable, Hooks{})
		ctx := jwt.SetAuth(t.Context(), jwt.Claims{UserID: 5})

		// Act
		_, err := f.ctrl.SendTest(ctx, entity.TypeBasic, valueobject.JSONMap{})

		// Assert
		if err == nil {
			t.Fatal("expected error")
		}
		if n := len(f.store.all()); n != 0 {
			t.Fatalf("records = %d, want 0", n)
		}
	})

	t.Run("forced to the actor even after a real send", func(t *testing.T) {
		// Arrange
		f := newFixture(t, testable, Hooks{})
		ctx := jwt.SetAuth(t.Context(), jwt.Claims{UserID: 5})
		f.ctrl.Send(ctx, Event{UserID: 5, PostID: 7}, false)

		// Act
		res, err := f.ctrl.SendTest(ctx, entity.TypeBasic, valueobject.JSONMap{"course_id": "7"})

		// Assert
		if err != nil {
			t.Fatalf("SendTest() error = %v", err)
		}
		if res.Outcome != OutcomeCreated {
			t.Fatalf("outcome = %s", res.Outcome)
		}
		recs := f.store.all()
		if len(recs) != 2 || recs[1].Subscriber != "5" || recs[1].PostID != 7 {
			t.Fatalf("records = %+v", recs)
		}
	})
}

func TestController_Types(t *testing.T) {
	t.Run("hooks extend and dedupe supported types", func(t *testing.T) {
		// Arrange
		hooks := Hooks{SupportedTypes: []func([]entity.Type) []entity.Type{
			func(ts []entity.Type) []entity.Type { return append(ts, entity.TypeBasic) },
		}}
		f := newFixture(t, Config{}, hooks)

		// Act
		got := f.ctrl.SupportedTypes()

		// Assert
		if len(got) != 2 || got[0] != entity.TypeBasic || got[1] != entity.TypeEmail {
			t.Fatalf("types = %v", got)
		}
	})

	t.Run("hooks can drop a type", func(t *testing.T) {
		// Arrange
		hooks := Hooks{SupportedTypes: []func([]entity.Type) []entity.Type{
			func([]entity.Type) []entity.Type { return []entity.Type{entity.TypeEmail} },
		}}
		f := newFixture(t, Config{}, hooks)

		// Act
		results := f.ctrl.Send(t.Context(), Event{UserID: 42, PostID: 7}, false)

		// Assert
		if f.ctrl.Supports(entity.TypeBasic) {
			t.Fatal("basic still supported")
		}
		if f.ctrl.SubscriberOptions(entity.TypeBasic) != nil {
			t.Fatal("options returned for unsupported type")
		}
		if len(results) != 0 {
			t.Fatalf("results = %+v, want none", results)
		}
	})

	t.Run("testable types and settings", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{Testable: map[entity.Type]bool{entity.TypeEmail: true}}, Hooks{})

		// Act
		types := f.ctrl.TestableTypes()

		// Assert
		if len(types) != 1 || types[0] != entity.TypeEmail {
			t.Fatalf("testable = %v", types)
		}
		if f.ctrl.TestSettings(entity.TypeBasic) != nil {
			t.Fatal("settings for untestable type")
		}
		if s := f.ctrl.TestSettings(entity.TypeEmail); len(s) != 1 || s[0].ID != "course_id" {
			t.Fatalf("settings = %+v", s)
		}
	})
}

func TestController_MockView(t *testing.T) {
	t.Run("defaults subscriber and user to the actor", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		ctx := jwt.SetAuth(t.Context(), jwt.Claims{UserID: 5})

		// Act
		view, err := f.ctrl.MockView(ctx, entity.TypeEmail, "", 0, 7)

		// Assert
		if err != nil {
			t.Fatalf("MockView() error = %v", err)
		}
		if view.Subject != "course_enrollment:email" || view.Body != "5/5/7" {
			t.Fatalf("view = %+v", view)
		}
		if n := len(f.store.all()); n != 0 {
			t.Fatalf("mock view persisted %d records", n)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})

		// Act
		_, err := f.ctrl.MockView(t.Context(), entity.Type("sms"), "", 0, 0)

		// Assert
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
