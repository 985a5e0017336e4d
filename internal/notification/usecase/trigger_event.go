package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

type HandleTriggerEventInput struct {
	Event  string `validate:"required,max=191"`
	UserID int64  `validate:"gte=0"`
	PostID int64  `validate:"gte=0"`
}

// HandleTriggerEvent fires an LMS event at every controller bound to it and
// reports how many callbacks ran. Delivery failures never surface here.
func (s *Usecase) HandleTriggerEvent(ctx context.Context, in HandleTriggerEventInput) (int, error) {
	ctx, span := s.startSpan(ctx, "HandleTriggerEvent")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return 0, goerror.NewInvalidInput(err)
	}

	n := s.registry.Fire(ctx, in.Event, in.UserID, in.PostID)
	if n == 0 {
		slog.InfoContext(ctx, "no notification trigger for event", "event", in.Event)
	}

	return n, nil
}
