package trigger

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

const (
	LessonCompleteID     = "lesson_complete"
	EventLessonCompleted = "lifterlms_lesson_completed"
	lessonCompleteTitle  = "Lesson Complete"
)

// LessonComplete notifies when a student completes a lesson. The course
// author is the author of the lesson's parent course.
type LessonComplete struct {
	contents ContentReader
}

func NewLessonComplete(contents ContentReader) *LessonComplete {
	return &LessonComplete{contents: contents}
}

func (*LessonComplete) ID() string { return LessonCompleteID }

func (*LessonComplete) Title() string { return lessonCompleteTitle }

func (*LessonComplete) Events() []string { return []string{EventLessonCompleted} }

func (*LessonComplete) AcceptedArgs() int { return 2 }

func (*LessonComplete) SupportedTypes() []entity.Type { return supportedTypes }

func (tr *LessonComplete) Capture(ctx context.Context, args []any) (controller.Event, error) {
	userID, err := argID(args, 0, "user_id")
	if err != nil {
		return controller.Event{}, err
	}
	lessonID, err := argID(args, 1, "lesson_id")
	if err != nil {
		return controller.Event{}, err
	}

	lesson, err := loadContent(ctx, tr.contents, lessonID, entity.ContentKindLesson)
	if err != nil {
		return controller.Event{}, err
	}

	return controller.Event{UserID: userID, PostID: lessonID, Post: lesson}, nil
}

func (*LessonComplete) SubscriberOptions(t entity.Type) []entity.RoleOption {
	switch t {
	case entity.TypeBasic:
		return []entity.RoleOption{
			entity.MustRoleOption(entity.RoleStudent, entity.Enabled),
		}
	case entity.TypeEmail:
		return []entity.RoleOption{
			entity.MustRoleOption(entity.RoleStudent, entity.Disabled),
			entity.MustRoleOption(entity.RoleLessonAuthor, entity.Disabled),
			entity.MustRoleOption(entity.RoleCourseAuthor, entity.Disabled),
			entity.MustRoleOption(entity.RoleCustom, entity.Disabled),
		}
	default:
		return nil
	}
}

func (tr *LessonComplete) Subscriber(ctx context.Context, ev controller.Event, role string) string {
	switch role {
	case entity.RoleStudent:
		return controller.UserSubscriber(ev.UserID)
	case entity.RoleLessonAuthor:
		return authorOf(ev.Post)
	case entity.RoleCourseAuthor:
		if ev.Post == nil {
			return ""
		}
		course, err := loadContent(ctx, tr.contents, ev.Post.ParentID, entity.ContentKindCourse)
		if err != nil {
			slog.WarnContext(ctx, "failed to load parent course", "lesson_id", ev.Post.ID, "error", err)
			return ""
		}
		return authorOf(course)
	default:
		return ""
	}
}

func (*LessonComplete) TestSettings(entity.Type) []entity.TestSetting {
	return []entity.TestSetting{{
		ID:          "lesson_id",
		Title:       "Send test notification using the following lesson",
		ContentKind: entity.ContentKindLesson,
	}}
}

func (tr *LessonComplete) TestEvent(ctx context.Context, _ entity.Type, actorID int64, data valueobject.JSONMap) (controller.Event, error) {
	lesson, err := testContent(ctx, tr.contents, data, "lesson_id", entity.ContentKindLesson)
	if err != nil {
		return controller.Event{}, err
	}
	return controller.Event{UserID: actorID, PostID: lesson.ID, Post: lesson}, nil
}
