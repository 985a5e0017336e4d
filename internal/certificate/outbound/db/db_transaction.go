package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlc"
)

func (s *DB) inTx(ctx context.Context, fn func(wtx *sqlc.Queries) error) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if err := fn(s.query.WithTx(tx)); err != nil {
		return s.mapError(err)
	}

	return tx.Commit(ctx)
}

func (s *DB) Migrate(ctx context.Context, m entity.Migration) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	createdAt, updatedAt := timestamptz(m.Modern)

	return s.inTx(ctx, func(wtx *sqlc.Queries) error {
		if err := wtx.CreateLMSCertificate(ctx, sqlc.CreateLMSCertificateParams{
			ID:        m.Modern.ID,
			Title:     m.Modern.Title,
			Content:   m.Modern.Content,
			Status:    m.Modern.Status,
			ParentID:  m.Modern.ParentID,
			AuthorID:  m.Modern.AuthorID,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		}); err != nil {
			return err
		}

		n, err := wtx.UpdateLMSCertificateStatusParent(ctx, sqlc.UpdateLMSCertificateStatusParentParams{
			ID:        m.Source.ID,
			Status:    entity.StatusLegacy,
			ParentID:  m.Modern.ID,
			UpdatedAt: updatedAt,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return goerror.ErrNotFound
		}

		if err := wtx.DeleteLMSCertificateMeta(ctx, m.Modern.ID); err != nil {
			return err
		}

		if _, err := wtx.CopyLMSCertificateMeta(ctx, sqlc.CopyLMSCertificateMetaParams{
			ToID:   m.Modern.ID,
			FromID: m.Source.ID,
		}); err != nil {
			return err
		}

		moved, err := wtx.SwapLMSEngagementCertificate(ctx, sqlc.SwapLMSEngagementCertificateParams{
			ToID:   m.Modern.ID,
			FromID: m.Source.ID,
		})
		if err != nil {
			return err
		}

		slog.DebugContext(ctx, "engagements swapped", "from", m.Source.ID, "to", m.Modern.ID, "count", moved)
		return nil
	})
}

func (s *DB) Rollback(ctx context.Context, r entity.Restore) (err error) {
	ctx, span := s.startSpan(ctx, "Rollback")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(wtx *sqlc.Queries) error {
		if _, err := wtx.SwapLMSEngagementCertificate(ctx, sqlc.SwapLMSEngagementCertificateParams{
			ToID:   r.LegacyID,
			FromID: r.ModernID,
		}); err != nil {
			return err
		}

		n, err := wtx.UpdateLMSCertificateStatusParent(ctx, sqlc.UpdateLMSCertificateStatusParentParams{
			ID:        r.LegacyID,
			Status:    r.Status,
			ParentID:  0,
			UpdatedAt: pgtype.Timestamptz{Time: r.UpdatedAt, Valid: true},
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return goerror.ErrNotFound
		}
		return nil
	})
}

func (s *DB) DeleteCertificate(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteCertificate")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(wtx *sqlc.Queries) error {
		if err := wtx.DeleteLMSCertificateMeta(ctx, id); err != nil {
			return err
		}

		n, err := wtx.DeleteLMSCertificate(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return goerror.ErrNotFound
		}
		return nil
	})
}
