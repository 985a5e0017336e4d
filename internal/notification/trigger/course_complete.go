package trigger

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

const (
	CourseCompleteID     = "course_complete"
	EventCourseCompleted = "lifterlms_course_completed"
	courseCompleteTitle  = "Course Complete"
)

// CourseComplete notifies when a student completes a course.
type CourseComplete struct {
	contents ContentReader
}

func NewCourseComplete(contents ContentReader) *CourseComplete {
	return &CourseComplete{contents: contents}
}

func (*CourseComplete) ID() string { return CourseCompleteID }

func (*CourseComplete) Title() string { return courseCompleteTitle }

func (*CourseComplete) Events() []string { return []string{EventCourseCompleted} }

func (*CourseComplete) AcceptedArgs() int { return 2 }

func (*CourseComplete) SupportedTypes() []entity.Type { return supportedTypes }

func (tr *CourseComplete) Capture(ctx context.Context, args []any) (controller.Event, error) {
	userID, err := argID(args, 0, "user_id")
	if err != nil {
		return controller.Event{}, err
	}
	courseID, err := argID(args, 1, "course_id")
	if err != nil {
		return controller.Event{}, err
	}

	course, err := loadContent(ctx, tr.contents, courseID, entity.ContentKindCourse)
	if err != nil {
		return controller.Event{}, err
	}

	return controller.Event{UserID: userID, PostID: courseID, Post: course}, nil
}

func (*CourseComplete) SubscriberOptions(t entity.Type) []entity.RoleOption {
	switch t {
	case entity.TypeBasic:
		return []entity.RoleOption{
			entity.MustRoleOption(entity.RoleStudent, entity.Enabled),
		}
	case entity.TypeEmail:
		return []entity.RoleOption{
			entity.MustRoleOption(entity.RoleStudent, entity.Enabled),
			entity.MustRoleOption(entity.RoleCourseAuthor, entity.Disabled),
			entity.MustRoleOption(entity.RoleCustom, entity.Disabled),
		}
	default:
		return nil
	}
}

func (*CourseComplete) Subscriber(_ context.Context, ev controller.Event, role string) string {
	switch role {
	case entity.RoleStudent:
		return controller.UserSubscriber(ev.UserID)
	case entity.RoleCourseAuthor:
		return authorOf(ev.Post)
	default:
		return ""
	}
}

func (*CourseComplete) TestSettings(entity.Type) []entity.TestSetting {
	return []entity.TestSetting{{
		ID:          "course_id",
		Title:       "Send test notification using the following course",
		ContentKind: entity.ContentKindCourse,
	}}
}

func (tr *CourseComplete) TestEvent(ctx context.Context, _ entity.Type, actorID int64, data valueobject.JSONMap) (controller.Event, error) {
	course, err := testContent(ctx, tr.contents, data, "course_id", entity.ContentKindCourse)
	if err != nil {
		return controller.Event{}, err
	}
	return controller.Event{UserID: actorID, PostID: course.ID, Post: course}, nil
}
