// Package sqlite stores certificates in the embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const certificateColumns = `id, title, content, status, parent_id, author_id, created_at, updated_at`

type Store struct {
	db  *sql.DB
	ins instrument.Instrumentation
}

func New(conn *sql.DB, ins instrument.Instrumentation) *Store {
	return &Store{db: conn, ins: ins}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("certificate.outbound.sqlite").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row scanner) (*entity.Certificate, error) {
	var (
		c                  entity.Certificate
		createdAt, updated int64
	)
	if err := row.Scan(&c.ID, &c.Title, &c.Content, &c.Status, &c.ParentID, &c.AuthorID, &createdAt, &updated); err != nil {
		return nil, sqlitedb.MapError(err)
	}
	c.CreatedAt = sqlitedb.FromMillis(createdAt)
	c.UpdatedAt = sqlitedb.FromMillis(updated)
	return &c, nil
}

func (s *Store) GetCertificate(ctx context.Context, id int64) (_ *entity.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "GetCertificate")
	defer func() { s.endSpan(span, err) }()

	return scanCertificate(s.db.QueryRowContext(ctx, `SELECT `+certificateColumns+` FROM lms_certificates WHERE id = ?`, id))
}

func (s *Store) GetLegacyChild(ctx context.Context, id int64) (_ *entity.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "GetLegacyChild")
	defer func() { s.endSpan(span, err) }()

	return scanCertificate(s.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM lms_certificates WHERE parent_id = ? AND status = ? ORDER BY id LIMIT 1`,
		id, entity.StatusLegacy))
}

func (s *Store) CountLegacyMeta(ctx context.Context, id int64) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "CountLegacyMeta")
	defer func() { s.endSpan(span, err) }()

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lms_certificate_meta WHERE certificate_id = ? AND meta_key IN (?, ?)`,
		id, entity.MetaLegacyTitle, entity.MetaLegacyImage).Scan(&n)
	return n, sqlitedb.MapError(err)
}

func (s *Store) ListLegacyIDs(ctx context.Context) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "ListLegacyIDs")
	defer func() { s.endSpan(span, err) }()

	return s.ids(ctx, `SELECT DISTINCT c.id FROM lms_certificates c
JOIN lms_certificate_meta m ON m.certificate_id = c.id
WHERE c.parent_id = 0 AND c.status <> ? AND m.meta_key IN (?, ?)
ORDER BY c.id`, entity.StatusLegacy, entity.MetaLegacyTitle, entity.MetaLegacyImage)
}

func (s *Store) ListMigratedIDs(ctx context.Context) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "ListMigratedIDs")
	defer func() { s.endSpan(span, err) }()

	return s.ids(ctx, `SELECT DISTINCT parent_id FROM lms_certificates WHERE parent_id > 0 AND status = ? ORDER BY parent_id`,
		entity.StatusLegacy)
}

func (s *Store) ids(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlitedb.MapError(err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if err := fn(tx); err != nil {
		return sqlitedb.MapError(err)
	}
	return tx.Commit()
}

func (s *Store) Migrate(ctx context.Context, m entity.Migration) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		n := m.Modern
		if _, err := tx.ExecContext(ctx, `INSERT INTO lms_certificates (`+certificateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Title, n.Content, n.Status, n.ParentID, n.AuthorID, sqlitedb.Millis(n.CreatedAt), sqlitedb.Millis(n.UpdatedAt)); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE lms_certificates SET status = ?, parent_id = ?, updated_at = ? WHERE id = ?`,
			entity.StatusLegacy, n.ID, sqlitedb.Millis(n.UpdatedAt), m.Source.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM lms_certificate_meta WHERE certificate_id = ?`, n.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO lms_certificate_meta (certificate_id, meta_key, meta_value)
SELECT ?, meta_key, meta_value FROM lms_certificate_meta
WHERE certificate_id = ? AND meta_key NOT IN (?, ?, ?)`,
			n.ID, m.Source.ID, entity.MetaOldSlug, entity.MetaLegacyTitle, entity.MetaLegacyImage); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `UPDATE lms_engagements SET certificate_id = ? WHERE certificate_id = ?`, n.ID, m.Source.ID)
		return err
	})
}

func (s *Store) Rollback(ctx context.Context, r entity.Restore) (err error) {
	ctx, span := s.startSpan(ctx, "Rollback")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE lms_engagements SET certificate_id = ? WHERE certificate_id = ?`,
			r.LegacyID, r.ModernID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `UPDATE lms_certificates SET status = ?, parent_id = 0, updated_at = ? WHERE id = ?`,
			r.Status, sqlitedb.Millis(r.UpdatedAt), r.LegacyID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return goerror.ErrNotFound
		}
		return nil
	})
}

func (s *Store) DeleteCertificate(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteCertificate")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lms_certificate_meta WHERE certificate_id = ?`, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM lms_certificates WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return goerror.ErrNotFound
		}
		return nil
	})
}
