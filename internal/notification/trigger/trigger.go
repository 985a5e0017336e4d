package trigger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/valueobject"
	"github.com/spf13/cast"
)

// ContentReader loads courses and lessons. A missing id returns
// goerror.ErrNotFound.
type ContentReader interface {
	GetContent(ctx context.Context, id int64) (*entity.Content, error)
}

// Definition pairs a trigger with the controller config it ships with.
type Definition struct {
	Trigger controller.Trigger
	Config  controller.Config
}

// Definitions returns every built-in trigger.
func Definitions(contents ContentReader) []Definition {
	both := map[entity.Type]bool{entity.TypeBasic: true, entity.TypeEmail: true}

	return []Definition{
		{Trigger: NewCourseEnrollment(contents), Config: controller.Config{Testable: both}},
		{Trigger: NewLessonComplete(contents), Config: controller.Config{AutoDedup: true, Testable: both}},
		{Trigger: NewCourseComplete(contents), Config: controller.Config{AutoDedup: true, Testable: both}},
	}
}

var supportedTypes = []entity.Type{entity.TypeBasic, entity.TypeEmail}

func argID(args []any, i int, name string) (int64, error) {
	if i >= len(args) || args[i] == nil {
		return 0, nil
	}
	id, err := cast.ToInt64E(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return id, nil
}

// loadContent returns nil without error when the content does not exist or
// is of another kind.
func loadContent(ctx context.Context, contents ContentReader, id int64, kind entity.ContentKind) (*entity.Content, error) {
	if id <= 0 {
		return nil, nil
	}

	c, err := contents.GetContent(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, nil
	}
	return c, nil
}

func authorOf(c *entity.Content) string {
	if c == nil {
		return ""
	}
	return controller.UserSubscriber(c.AuthorID)
}

// testContent validates the test data key holding a content id of kind.
func testContent(ctx context.Context, contents ContentReader, data valueobject.JSONMap, key string, kind entity.ContentKind) (*entity.Content, error) {
	id := data.GetInt64(key)
	if id <= 0 {
		return nil, fmt.Errorf("%s is required", key)
	}

	c, err := loadContent(ctx, contents, id, kind)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%s %d is not a %s", key, id, kind)
	}
	return c, nil
}
