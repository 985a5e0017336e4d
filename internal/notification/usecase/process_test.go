package usecase

import (
	"testing"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/notification/trigger"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

func TestUsecase_ProcessQueue(t *testing.T) {
	t.Run("sends a batch and reschedules the rest", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		custom := "a@x.com, b@y.com, c@z.com"
		if err := f.uc.UpdateSubscriberSettings(asAdmin(t.Context()), UpdateSubscriberSettingsInput{
			TriggerID: trigger.CourseEnrollmentID,
			Type:      "email",
			Roles:     map[string]bool{entity.RoleCustom: true},
			Custom:    &custom,
		}); err != nil {
			t.Fatalf("update error = %v", err)
		}
		f.uc.HandleTriggerEvent(t.Context(), HandleTriggerEventInput{Event: trigger.EventUserEnrolled, UserID: 42, PostID: 7})
		queued := append([]int64(nil), f.queue.ids...)
		scheduled := f.queue.scheduled

		// Act
		out, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})

		// Assert
		if err != nil {
			t.Fatalf("ProcessQueue() error = %v", err)
		}
		if out.Sent != 2 || !out.Rescheduled || f.queue.scheduled != scheduled+1 || f.queue.unlocked != 1 {
			t.Fatalf("out = %+v queue = %+v", out, f.queue)
		}
		if f.mailer.sent[0].To[0] != "a@x.com" || f.mailer.sent[0].Subject != trigger.CourseEnrollmentID {
			t.Fatalf("first mail = %+v", f.mailer.sent[0])
		}
		if f.store.status(queued[0]) != entity.StatusSent || f.store.status(queued[2]) != entity.StatusNew {
			t.Fatal("unexpected record statuses")
		}
	})

	t.Run("numeric subscriber resolves to the user email after retries", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.mailer.failures = 2
		out, err := f.uc.SendTest(asAdmin(t.Context()), SendTestInput{
			TriggerID: trigger.CourseEnrollmentID,
			Type:      "email",
			Data:      valueobject.JSONMap{"course_id": 7},
		})
		if err != nil {
			t.Fatalf("SendTest() error = %v", err)
		}

		// Act
		res, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})

		// Assert
		if err != nil {
			t.Fatalf("ProcessQueue() error = %v", err)
		}
		if res.Sent != 1 || res.Rescheduled {
			t.Fatalf("out = %+v", res)
		}
		if len(f.mailer.sent) != 1 || f.mailer.sent[0].To[0] != "admin@x.com" {
			t.Fatalf("sent = %+v", f.mailer.sent)
		}
		if f.store.status(out.RecordID) != entity.StatusSent {
			t.Fatalf("status = %s", f.store.status(out.RecordID))
		}
	})

	t.Run("exhausted retries mark the record failed", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.mailer.failures = 10
		out, err := f.uc.SendTest(asAdmin(t.Context()), SendTestInput{
			TriggerID: trigger.CourseEnrollmentID,
			Type:      "email",
			Data:      valueobject.JSONMap{"course_id": 7},
		})
		if err != nil {
			t.Fatalf("SendTest() error = %v", err)
		}

		// Act
		res, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})

		// Assert
		if err != nil {
			t.Fatalf("ProcessQueue() error = %v", err)
		}
		if res.Failed != 1 || f.store.status(out.RecordID) != entity.StatusFailed {
			t.Fatalf("out = %+v status = %s", res, f.store.status(out.RecordID))
		}
		if f.mailer.failures != 7 {
			t.Fatalf("attempts = %d, want 3", 10-f.mailer.failures)
		}
	})

	t.Run("user without email fails without sending", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.uc.HandleTriggerEvent(t.Context(), HandleTriggerEventInput{Event: trigger.EventCourseCompleted, UserID: 43, PostID: 7})

		// Act
		res, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})

		// Assert
		if err != nil {
			t.Fatalf("ProcessQueue() error = %v", err)
		}
		if res.Failed != 1 || len(f.mailer.sent) != 0 {
			t.Fatalf("out = %+v sent = %d", res, len(f.mailer.sent))
		}
	})

	t.Run("store read error puts the record back", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		out, err := f.uc.SendTest(asAdmin(t.Context()), SendTestInput{
			TriggerID: trigger.CourseEnrollmentID,
			Type:      "email",
			Data:      valueobject.JSONMap{"course_id": 7},
		})
		if err != nil {
			t.Fatalf("SendTest() error = %v", err)
		}
		f.store.getFailures = 1

		// Act
		first, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})

		// Assert
		if err != nil {
			t.Fatalf("first ProcessQueue() error = %v", err)
		}
		if first.Requeued != 1 || first.Skipped != 0 || !first.Rescheduled {
			t.Fatalf("first out = %+v", first)
		}
		if len(f.queue.ids) != 1 || f.queue.ids[0] != out.RecordID {
			t.Fatalf("queue = %+v", f.queue.ids)
		}
		if f.store.status(out.RecordID) != entity.StatusNew || len(f.mailer.sent) != 0 {
			t.Fatalf("status = %s sent = %d", f.store.status(out.RecordID), len(f.mailer.sent))
		}

		second, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})
		if err != nil {
			t.Fatalf("second ProcessQueue() error = %v", err)
		}
		if second.Sent != 1 || f.store.status(out.RecordID) != entity.StatusSent {
			t.Fatalf("second out = %+v status = %s", second, f.store.status(out.RecordID))
		}
	})

	t.Run("already handled records are skipped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.queue.ids = []int64{999}

		// Act
		res, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "email"})

		// Assert
		if err != nil {
			t.Fatalf("ProcessQueue() error = %v", err)
		}
		if res.Skipped != 1 {
			t.Fatalf("out = %+v", res)
		}
	})

	t.Run("basic has no processor", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.ProcessQueue(t.Context(), ProcessQueueInput{Type: "basic"})

		// Assert
		if code := errCode(t, err); code != goerror.CodeInvalidInput {
			t.Fatalf("code = %v", code)
		}
	})
}
