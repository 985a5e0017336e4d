package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	objCertificate = "certificate"

	actRead    = "read"
	actMigrate = "migrate"
)

// repoDB returns goerror.ErrNotFound from the lookups when nothing matches.
type repoDB interface {
	GetCertificate(ctx context.Context, id int64) (*entity.Certificate, error)
	GetLegacyChild(ctx context.Context, id int64) (*entity.Certificate, error)
	CountLegacyMeta(ctx context.Context, id int64) (int64, error)
	ListLegacyIDs(ctx context.Context) ([]int64, error)
	ListMigratedIDs(ctx context.Context) ([]int64, error)

	Migrate(ctx context.Context, m entity.Migration) error
	Rollback(ctx context.Context, r entity.Restore) error
	DeleteCertificate(ctx context.Context, id int64) error
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Dependency struct {
	RepoDB     repoDB
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Enforcer   enforcer
	Instrument instrument.Instrumentation
}

type Usecase struct {
	repoDB    repoDB
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	enforcer  enforcer
	ins       instrument.Instrumentation
}

func NewCertificate(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		enforcer:  dep.Enforcer,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("certificate.usecase").Start(ctx, name)
}

func (s *Usecase) authorize(ctx context.Context, act string) error {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	for _, sub := range []string{clm.Subject, clm.Role} {
		if sub == "" {
			continue
		}

		ok, err := s.enforcer.Enforce(sub, objCertificate, act)
		if err != nil {
			slog.ErrorContext(ctx, "failed to check authorization", "subject", sub, "error", err)
			return goerror.NewServer(err)
		}
		if ok {
			return nil
		}
	}

	slog.WarnContext(ctx, "account not allowed", "subject", clm.Subject, "role", clm.Role, "action", act)
	return goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
}

type CertificateInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) validate(in CertificateInput) error {
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	return nil
}
