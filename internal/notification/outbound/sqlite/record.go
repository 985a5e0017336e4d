package sqlite

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
)

const recordColumns = `id, trigger_id, subscriber, type, post_id, user_id, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (entity.Record, error) {
	var (
		rec                  entity.Record
		typ, status          string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&rec.ID, &rec.TriggerID, &rec.Subscriber, &typ, &rec.PostID, &rec.UserID,
		&status, &createdAt, &updatedAt); err != nil {
		return entity.Record{}, err
	}

	rec.Type = entity.Type(typ)
	rec.Status = entity.Status(status)
	rec.CreatedAt = sqlitedb.FromMillis(createdAt)
	rec.UpdatedAt = sqlitedb.FromMillis(updatedAt)
	return rec, nil
}

func (s *Store) CreateRecord(ctx context.Context, in entity.CreateRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRecord")
	defer func() { s.endSpan(span, err) }()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notification_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.TriggerID, in.Subscriber, in.Type.String(), in.PostID, in.UserID, in.Status.String(),
		sqlitedb.Millis(in.CreatedAt), sqlitedb.Millis(in.CreatedAt),
	)
	return s.mapError(err)
}

func (s *Store) HasRecord(ctx context.Context, f entity.RecordFilter) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasRecord")
	defer func() { s.endSpan(span, err) }()

	var found bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (
    SELECT 1 FROM notification_records
    WHERE trigger_id = ? AND type = ? AND subscriber = ?
      AND (? = 0 OR post_id = ?)
      AND (? = 0 OR user_id = ?)
      AND status <> 'failed'
)`,
		f.TriggerID, f.Type.String(), f.Subscriber, f.PostID, f.PostID, f.UserID, f.UserID,
	).Scan(&found)
	if err != nil {
		return false, s.mapError(err)
	}

	return found, nil
}

func (s *Store) GetRecord(ctx context.Context, id int64) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "GetRecord")
	defer func() { s.endSpan(span, err) }()

	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM notification_records WHERE id = ?`, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rec, nil
}

func (s *Store) ListRecords(ctx context.Context, subscriber string, t entity.Type, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListRecords")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM notification_records
WHERE subscriber = ? AND (? = '' OR type = ?)
ORDER BY id DESC
LIMIT ?`, subscriber, t.String(), t.String(), limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := []entity.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Store) UpdateRecordStatus(ctx context.Context, id int64, status entity.Status) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateRecordStatus")
	defer func() { s.endSpan(span, err) }()

	res, err := s.db.ExecContext(ctx, `UPDATE notification_records SET status = ?, updated_at = ? WHERE id = ?`,
		status.String(), sqlitedb.Millis(s.clock.Now()), id)
	if err != nil {
		return s.mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
