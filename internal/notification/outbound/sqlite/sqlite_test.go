package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
)

var now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()

	conn, err := sqlitedb.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := sqlitedb.Migrate(t.Context(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return New(conn, clock.Fixed(now), instrument.NewNoop())
}

func record(id int64, subscriber string, t entity.Type, postID int64) entity.CreateRecord {
	return entity.CreateRecord{
		ID:         id,
		TriggerID:  "course_complete",
		Subscriber: subscriber,
		Type:       t,
		PostID:     postID,
		UserID:     42,
		Status:     entity.StatusNew,
		CreatedAt:  now,
	}
}

func TestStore_Records(t *testing.T) {

	t.Run("CreateAndGet", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		err := s.CreateRecord(t.Context(), record(1, "42", entity.TypeEmail, 7))
		got, getErr := s.GetRecord(t.Context(), 1)

		// Assert
		if err != nil || getErr != nil {
			t.Fatalf("create=%v get=%v", err, getErr)
		}
		if got.Subscriber != "42" || got.Type != entity.TypeEmail || got.PostID != 7 || got.Status != entity.StatusNew {
			t.Fatalf("unexpected record %+v", got)
		}
		if !got.CreatedAt.Equal(now) {
			t.Fatalf("created_at = %v", got.CreatedAt)
		}
	})

	t.Run("DuplicateIsConflict", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		_ = s.CreateRecord(t.Context(), record(1, "42", entity.TypeEmail, 7))

		// Act
		err := s.CreateRecord(t.Context(), record(1, "42", entity.TypeEmail, 7))

		// Assert
		if !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		_, err := s.GetRecord(t.Context(), 99)

		// Assert
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("HasRecord", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		_ = s.CreateRecord(t.Context(), record(1, "42", entity.TypeEmail, 7))

		tests := []struct {
			name   string
			filter entity.RecordFilter
			want   bool
		}{
			{"exact", entity.RecordFilter{TriggerID: "course_complete", Type: entity.TypeEmail, Subscriber: "42", PostID: 7, UserID: 42}, true},
			{"any post", entity.RecordFilter{TriggerID: "course_complete", Type: entity.TypeEmail, Subscriber: "42"}, true},
			{"other post", entity.RecordFilter{TriggerID: "course_complete", Type: entity.TypeEmail, Subscriber: "42", PostID: 8}, false},
			{"other type", entity.RecordFilter{TriggerID: "course_complete", Type: entity.TypeBasic, Subscriber: "42", PostID: 7}, false},
			{"other trigger", entity.RecordFilter{TriggerID: "lesson_complete", Type: entity.TypeEmail, Subscriber: "42", PostID: 7}, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Act
				got, err := s.HasRecord(t.Context(), tt.filter)

				// Assert
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Fatalf("got %v want %v", got, tt.want)
				}
			})
		}
	})

	t.Run("HasRecordIgnoresFailed", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		_ = s.CreateRecord(t.Context(), record(1, "42", entity.TypeEmail, 7))
		if err := s.UpdateRecordStatus(t.Context(), 1, entity.StatusFailed); err != nil {
			t.Fatalf("update status: %v", err)
		}

		// Act
		got, err := s.HasRecord(t.Context(), entity.RecordFilter{
			TriggerID: "course_complete", Type: entity.TypeEmail, Subscriber: "42", PostID: 7,
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got {
			t.Fatal("a failed record must not count as received")
		}
	})

	t.Run("ListFiltersAndOrders", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		_ = s.CreateRecord(t.Context(), record(1, "42", entity.TypeBasic, 7))
		_ = s.CreateRecord(t.Context(), record(2, "42", entity.TypeEmail, 7))
		_ = s.CreateRecord(t.Context(), record(3, "42", entity.TypeBasic, 8))
		_ = s.CreateRecord(t.Context(), record(4, "9", entity.TypeBasic, 7))

		// Act
		all, errAll := s.ListRecords(t.Context(), "42", "", 10)
		basic, errBasic := s.ListRecords(t.Context(), "42", entity.TypeBasic, 1)

		// Assert
		if errAll != nil || errBasic != nil {
			t.Fatalf("all=%v basic=%v", errAll, errBasic)
		}
		if len(all) != 3 || all[0].ID != 3 || all[2].ID != 1 {
			t.Fatalf("unexpected list %+v", all)
		}
		if len(basic) != 1 || basic[0].ID != 3 {
			t.Fatalf("unexpected basic list %+v", basic)
		}
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		_ = s.CreateRecord(t.Context(), record(1, "42", entity.TypeEmail, 7))

		// Act
		err := s.UpdateRecordStatus(t.Context(), 1, entity.StatusSent)
		missing := s.UpdateRecordStatus(t.Context(), 2, entity.StatusSent)
		got, _ := s.GetRecord(t.Context(), 1)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(missing, goerror.ErrNotFound) {
			t.Fatalf("expected not found, got %v", missing)
		}
		if got.Status != entity.StatusSent {
			t.Fatalf("status = %s", got.Status)
		}
	})
}

func TestStore_Options(t *testing.T) {
	// Arrange
	s := newStore(t)
	key := "notification_course_complete_email_subscribers"

	// Act
	_, missing := s.GetOption(t.Context(), key)
	errFirst := s.SetOption(t.Context(), key, `{"student":"yes"}`)
	errSecond := s.SetOption(t.Context(), key, `{"student":"no"}`)
	got, err := s.GetOption(t.Context(), key)

	// Assert
	if !errors.Is(missing, goerror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", missing)
	}
	if errFirst != nil || errSecond != nil || err != nil {
		t.Fatalf("first=%v second=%v get=%v", errFirst, errSecond, err)
	}
	if got != `{"student":"no"}` {
		t.Fatalf("got %q", got)
	}
}

func TestStore_Templates(t *testing.T) {
	// Arrange
	s := newStore(t)
	tpl := entity.Template{TriggerID: "course_enrollment", Type: entity.TypeEmail, Subject: "Welcome", Body: "Hi {{.user_name}}"}

	// Act
	_, missing := s.GetTemplate(t.Context(), tpl.TriggerID, tpl.Type)
	err := s.SetTemplate(t.Context(), tpl)
	got, getErr := s.GetTemplate(t.Context(), tpl.TriggerID, tpl.Type)

	// Assert
	if !errors.Is(missing, goerror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", missing)
	}
	if err != nil || getErr != nil {
		t.Fatalf("set=%v get=%v", err, getErr)
	}
	if *got != tpl {
		t.Fatalf("got %+v", got)
	}
}

func TestStore_LMS(t *testing.T) {
	// Arrange
	s := newStore(t)
	course := entity.Content{ID: 7, Kind: entity.ContentKindCourse, Title: "Go 101", AuthorID: 9}
	user := entity.User{ID: 42, Email: "jane@x.com", DisplayName: "Jane"}

	// Act
	errContent := s.PutContent(t.Context(), course)
	errUser := s.PutUser(t.Context(), user)
	gotContent, errGetContent := s.GetContent(t.Context(), 7)
	gotUser, errGetUser := s.GetUser(t.Context(), 42)
	_, missing := s.GetUser(t.Context(), 43)

	// Assert
	if errContent != nil || errUser != nil || errGetContent != nil || errGetUser != nil {
		t.Fatalf("errors: %v %v %v %v", errContent, errUser, errGetContent, errGetUser)
	}
	if *gotContent != course {
		t.Fatalf("content %+v", gotContent)
	}
	if *gotUser != user {
		t.Fatalf("user %+v", gotUser)
	}
	if !errors.Is(missing, goerror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", missing)
	}
}
