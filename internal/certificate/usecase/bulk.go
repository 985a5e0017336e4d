package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

// Tools lists the certificates the bulk migrate and bulk rollback tools
// would process.
func (s *Usecase) Tools(ctx context.Context) (*entity.ToolsReport, error) {
	ctx, span := s.startSpan(ctx, "Tools")
	defer span.End()

	if err := s.authorize(ctx, actRead); err != nil {
		return nil, err
	}

	return s.report(ctx)
}

func (s *Usecase) report(ctx context.Context) (*entity.ToolsReport, error) {
	legacy, err := s.repoDB.ListLegacyIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list legacy certificates", "error", err)
		return nil, goerror.NewServer(err)
	}

	migrated, err := s.repoDB.ListMigratedIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list migrated certificates", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.ToolsReport{Legacy: lo.Uniq(legacy), Migrated: lo.Uniq(migrated)}, nil
}

// BulkMigrate migrates every legacy certificate. Failures are collected per
// certificate and do not stop the run.
func (s *Usecase) BulkMigrate(ctx context.Context) (*entity.BulkResult, error) {
	ctx, span := s.startSpan(ctx, "BulkMigrate")
	defer span.End()

	if err := s.authorize(ctx, actMigrate); err != nil {
		return nil, err
	}

	rep, err := s.report(ctx)
	if err != nil {
		return nil, err
	}

	return s.bulk(ctx, "migrate", rep.Legacy, s.migrate), nil
}

// BulkRollback rolls back every migrated certificate.
func (s *Usecase) BulkRollback(ctx context.Context) (*entity.BulkResult, error) {
	ctx, span := s.startSpan(ctx, "BulkRollback")
	defer span.End()

	if err := s.authorize(ctx, actMigrate); err != nil {
		return nil, err
	}

	rep, err := s.report(ctx)
	if err != nil {
		return nil, err
	}

	return s.bulk(ctx, "rollback", rep.Migrated, s.rollback), nil
}

func (s *Usecase) bulk(ctx context.Context, op string, ids []int64, fn func(context.Context, int64) (int64, error)) *entity.BulkResult {
	res := &entity.BulkResult{Done: map[int64]int64{}, Errors: map[int64]string{}}
	for _, id := range ids {
		if ctx.Err() != nil {
			res.Errors[id] = ctx.Err().Error()
			continue
		}

		out, err := fn(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "bulk certificate step failed", "op", op, "certificate_id", id, "error", err)
			res.Errors[id] = err.Error()
			continue
		}
		res.Done[id] = out
	}

	slog.InfoContext(ctx, "bulk certificate run finished", "op", op, "done", len(res.Done), "failed", len(res.Errors))
	return res
}
