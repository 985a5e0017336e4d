package trigger

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
)

const (
	CourseEnrollmentID    = "course_enrollment"
	EventUserEnrolled     = "llms_user_enrolled_in_course"
	courseEnrollmentTitle = "Course Enrollment"
)

// CourseEnrollment notifies when a student enrolls into a course.
type CourseEnrollment struct {
	contents ContentReader
}

func NewCourseEnrollment(contents ContentReader) *CourseEnrollment {
	return &CourseEnrollment{contents: contents}
}

func (*CourseEnrollment) ID() string { return CourseEnrollmentID }

func (*CourseEnrollment) Title() string { return courseEnrollmentTitle }

func (*CourseEnrollment) Events() []string { return []string{EventUserEnrolled} }

func (*CourseEnrollment) AcceptedArgs() int { return 2 }

func (*CourseEnrollment) SupportedTypes() []entity.Type { return supportedTypes }

// Capture reads (user_id, course_id).
func (tr *CourseEnrollment) Capture(ctx context.Context, args []any) (controller.Event, error) {
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

func (*CourseEnrollment) SubscriberOptions(t entity.Type) []entity.RoleOption {
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
	default:
		return nil
	}
}

func (*CourseEnrollment) Subscriber(_ context.Context, ev controller.Event, role string) string {
	switch role {
	case entity.RoleStudent:
		return controller.UserSubscriber(ev.UserID)
	case entity.RoleCourseAuthor:
		return authorOf(ev.Post)
	default:
		return ""
	}
}

func (*CourseEnrollment) TestSettings(entity.Type) []entity.TestSetting {
	return []entity.TestSetting{{
		ID:          "course_id",
		Title:       "Send test notification using the following course",
		ContentKind: entity.ContentKindCourse,
	}}
}

// TestEvent enrolls the actor into the course named by data["course_id"].
func (tr *CourseEnrollment) TestEvent(ctx context.Context, _ entity.Type, actorID int64, data valueobject.JSONMap) (controller.Event, error) {
	course, err := testContent(ctx, tr.contents, data, "course_id", entity.ContentKindCourse)
	if err != nil {
		return controller.Event{}, err
	}
	return controller.Event{UserID: actorID, PostID: course.ID, Post: course}, nil
}
