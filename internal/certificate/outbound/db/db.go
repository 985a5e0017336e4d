package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlc"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn  *pgxpool.Pool
	query *sqlc.Queries
	ins   instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:  conn,
		query: sqlc.New(conn),
		ins:   ins,
	}
}

func (s *DB) mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}
	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("certificate.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func toCertificate(row sqlc.LmsCertificate) *entity.Certificate {
	return &entity.Certificate{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Status:    row.Status,
		ParentID:  row.ParentID,
		AuthorID:  row.AuthorID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (s *DB) GetCertificate(ctx context.Context, id int64) (_ *entity.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "GetCertificate")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetLMSCertificateByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toCertificate(row), nil
}

func (s *DB) GetLegacyChild(ctx context.Context, id int64) (_ *entity.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "GetLegacyChild")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetLMSCertificateLegacyChild(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toCertificate(row), nil
}

func (s *DB) CountLegacyMeta(ctx context.Context, id int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountLegacyMeta")
	defer func() { s.endSpan(span, err) }()

	return s.query.CountLMSCertificateLegacyMeta(ctx, id)
}

func (s *DB) ListLegacyIDs(ctx context.Context) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "ListLegacyIDs")
	defer func() { s.endSpan(span, err) }()

	return s.query.ListLMSCertificateLegacyIDs(ctx)
}

func (s *DB) ListMigratedIDs(ctx context.Context) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "ListMigratedIDs")
	defer func() { s.endSpan(span, err) }()

	return s.query.ListLMSCertificateMigratedIDs(ctx)
}

func timestamptz(c entity.Certificate) (pgtype.Timestamptz, pgtype.Timestamptz) {
	return pgtype.Timestamptz{Time: c.CreatedAt, Valid: true}, pgtype.Timestamptz{Time: c.UpdatedAt, Valid: true}
}
