package db

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlc"
)

func (s *DB) CreateRecord(ctx context.Context, in entity.CreateRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRecord")
	defer func() { s.endSpan(span, err) }()

	err = s.query.CreateNotificationRecord(ctx, sqlc.CreateNotificationRecordParams{
		ID:         in.ID,
		TriggerID:  in.TriggerID,
		Subscriber: in.Subscriber,
		Type:       in.Type.String(),
		PostID:     in.PostID,
		UserID:     in.UserID,
		Status:     in.Status.String(),
		CreatedAt:  timestamptz(in.CreatedAt),
		UpdatedAt:  timestamptz(in.CreatedAt),
	})
	return s.mapError(err)
}

func (s *DB) HasRecord(ctx context.Context, f entity.RecordFilter) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasRecord")
	defer func() { s.endSpan(span, err) }()

	found, err := s.query.ExistsNotificationRecord(ctx, sqlc.ExistsNotificationRecordParams{
		TriggerID:  f.TriggerID,
		Type:       f.Type.String(),
		Subscriber: f.Subscriber,
		PostID:     f.PostID,
		UserID:     f.UserID,
	})
	if err != nil {
		return false, s.mapError(err)
	}

	return found, nil
}

func (s *DB) GetRecord(ctx context.Context, id int64) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "GetRecord")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetNotificationRecordByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	rec := toRecord(row)
	return &rec, nil
}

func (s *DB) ListRecords(ctx context.Context, subscriber string, t entity.Type, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListRecords")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListNotificationRecordsBySubscriber(ctx, sqlc.ListNotificationRecordsBySubscriberParams{
		Subscriber: subscriber,
		Type:       t.String(),
		Limit:      limit,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	items := make([]entity.Record, 0, len(rows))
	for _, row := range rows {
		items = append(items, toRecord(row))
	}

	return items, nil
}

func (s *DB) UpdateRecordStatus(ctx context.Context, id int64, status entity.Status) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateRecordStatus")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.UpdateNotificationRecordStatus(ctx, sqlc.UpdateNotificationRecordStatusParams{
		ID:        id,
		Status:    status.String(),
		UpdatedAt: timestamptz(s.clock.Now()),
	})
	if err != nil {
		return s.mapError(err)
	}
	if n == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func toRecord(row sqlc.NotificationRecord) entity.Record {
	return entity.Record{
		ID:         row.ID,
		TriggerID:  row.TriggerID,
		Subscriber: row.Subscriber,
		Type:       entity.Type(row.Type),
		PostID:     row.PostID,
		UserID:     row.UserID,
		Status:     entity.Status(row.Status),
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
