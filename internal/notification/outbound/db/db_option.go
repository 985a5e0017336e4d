package db

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/pkg/sqlc"
)

func (s *DB) GetOption(ctx context.Context, name string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetOption")
	defer func() { s.endSpan(span, err) }()

	value, err := s.query.GetNotificationOption(ctx, name)
	if err != nil {
		return "", s.mapError(err)
	}

	return value, nil
}

func (s *DB) SetOption(ctx context.Context, name, value string) (err error) {
	ctx, span := s.startSpan(ctx, "SetOption")
	defer func() { s.endSpan(span, err) }()

	err = s.query.UpsertNotificationOption(ctx, sqlc.UpsertNotificationOptionParams{
		Name:      name,
		Value:     value,
		UpdatedAt: timestamptz(s.clock.Now()),
	})
	return s.mapError(err)
}
