package sqlite

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
)

func (s *Store) GetOption(ctx context.Context, name string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetOption")
	defer func() { s.endSpan(span, err) }()

	var value string
	if err = s.db.QueryRowContext(ctx, `SELECT value FROM notification_options WHERE name = ?`, name).Scan(&value); err != nil {
		return "", s.mapError(err)
	}

	return value, nil
}

func (s *Store) SetOption(ctx context.Context, name, value string) (err error) {
	ctx, span := s.startSpan(ctx, "SetOption")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.ExecContext(ctx, `INSERT INTO notification_options (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, sqlitedb.Millis(s.clock.Now()))
	return s.mapError(err)
}

func (s *Store) GetTemplate(ctx context.Context, triggerID string, t entity.Type) (_ *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplate")
	defer func() { s.endSpan(span, err) }()

	tpl := entity.Template{TriggerID: triggerID, Type: t}
	err = s.db.QueryRowContext(ctx, `SELECT subject, body FROM notification_templates WHERE trigger_id = ? AND type = ?`,
		triggerID, t.String()).Scan(&tpl.Subject, &tpl.Body)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &tpl, nil
}

// SetTemplate stores the template of (trigger, type).
func (s *Store) SetTemplate(ctx context.Context, tpl entity.Template) (err error) {
	ctx, span := s.startSpan(ctx, "SetTemplate")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.ExecContext(ctx, `INSERT INTO notification_templates (trigger_id, type, subject, body) VALUES (?, ?, ?, ?)
ON CONFLICT (trigger_id, type) DO UPDATE SET subject = excluded.subject, body = excluded.body`,
		tpl.TriggerID, tpl.Type.String(), tpl.Subject, tpl.Body)
	return s.mapError(err)
}
