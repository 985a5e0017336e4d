package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

type ListRecordsInput struct {
	// Subscriber defaults to the actor.
	Subscriber string `validate:"omitempty,max=191"`
	Type       string `validate:"omitempty,notification_type"`
	Limit      int32  `validate:"omitempty,gte=1,lte=100"`
}

// ListRecords lists the newest records of a subscriber. Reading another
// subscriber's records needs the notification read permission.
func (s *Usecase) ListRecords(ctx context.Context, in ListRecordsInput) ([]entity.Record, error) {
	ctx, span := s.startSpan(ctx, "ListRecords")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	own := controller.UserSubscriber(clm.UserID)
	if in.Subscriber == "" {
		in.Subscriber = own
	}
	if in.Subscriber != own {
		if _, err := s.authenticatedAndAuthorized(ctx, objNotification, actRead); err != nil {
			return nil, err
		}
	}
	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var t entity.Type
	if in.Type != "" {
		if t, err = parseType(in.Type); err != nil {
			return nil, err
		}
	}

	items, err := s.repoDB.ListRecords(ctx, in.Subscriber, t, in.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notification records", "subscriber", in.Subscriber, "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

// MarkRead marks one of the actor's own basic records as read. Email
// records belong to the processor and keep their delivery status.
func (s *Usecase) MarkRead(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "MarkRead")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if id <= 0 {
		return goerror.NewInvalidInput(nil, "id", "id must be positive")
	}

	rec, err := s.repoDB.GetRecord(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Notification not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get notification record", "record_id", id, "error", err)
		return goerror.NewServer(err)
	}

	if rec.Subscriber != controller.UserSubscriber(clm.UserID) {
		return goerror.NewBusiness("Notification not found", goerror.CodeNotFound)
	}
	if rec.Type != entity.TypeBasic {
		return goerror.NewBusiness("Only basic notifications can be marked read", goerror.CodeInvalidInput)
	}
	if rec.Status == entity.StatusRead {
		return nil
	}

	if err := s.repoDB.UpdateRecordStatus(ctx, id, entity.StatusRead); err != nil {
		slog.ErrorContext(ctx, "failed to repo update notification record status", "record_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
