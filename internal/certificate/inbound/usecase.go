package inbound

import (
	"context"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/certificate/usecase"
)

type uc interface {
	Migrate(ctx context.Context, in usecase.CertificateInput) (int64, error)
	Rollback(ctx context.Context, in usecase.CertificateInput) (int64, error)
	DeleteLegacy(ctx context.Context, in usecase.CertificateInput) (int64, error)
	IsLegacy(ctx context.Context, in usecase.CertificateInput) (bool, error)
	LegacyOfModern(ctx context.Context, in usecase.CertificateInput) (int64, error)
	Tools(ctx context.Context) (*entity.ToolsReport, error)
	BulkMigrate(ctx context.Context) (*entity.BulkResult, error)
	BulkRollback(ctx context.Context) (*entity.BulkResult, error)
}
