package db

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlc"
)

func (s *DB) GetContent(ctx context.Context, id int64) (_ *entity.Content, err error) {
	ctx, span := s.startSpan(ctx, "GetContent")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetLMSContentByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Content{
		ID:       row.ID,
		Kind:     entity.ContentKind(row.Kind),
		Title:    row.Title,
		AuthorID: row.AuthorID,
		ParentID: row.ParentID,
	}, nil
}

func (s *DB) GetUser(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUser")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetLMSUserByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.User{ID: row.ID, Email: row.Email, DisplayName: row.DisplayName}, nil
}

func (s *DB) GetTemplate(ctx context.Context, triggerID string, t entity.Type) (_ *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplate")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetNotificationTemplate(ctx, sqlc.GetNotificationTemplateParams{
		TriggerID: triggerID,
		Type:      t.String(),
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Template{
		TriggerID: row.TriggerID,
		Type:      entity.Type(row.Type),
		Subject:   row.Subject,
		Body:      row.Body,
	}, nil
}
