package certificate

import (
	"context"
	"errors"

	"github.com/shandysiswandi/coursebell/internal/certificate/entity"
	"github.com/shandysiswandi/coursebell/internal/certificate/inbound"
	"github.com/shandysiswandi/coursebell/internal/certificate/usecase"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goroutine"
	"github.com/shandysiswandi/coursebell/internal/pkg/idempotency"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
)

// Store is implemented by the postgres and the sqlite certificate stores.
type Store interface {
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
	// Ctx starts the admin consumer; nil for CLI runs.
	Ctx       context.Context
	Store     Store
	Messaging messaging.Messaging
	// Idempotency drops redelivered admin commands; optional.
	Idempotency idempotency.Idempotency
	Config      config.Config
	Instrument  instrument.Instrumentation
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	JWT         jwt.JWT
	Enforcer    enforcer
}

type Module struct {
	Admin   *router.Router
	Usecase *usecase.Usecase
}

func New(dep Dependency) (*Module, error) {
	if dep.Store == nil {
		return nil, errors.New("certificate: store is required")
	}

	uc := usecase.NewCertificate(usecase.Dependency{
		RepoDB:     dep.Store,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Enforcer:   dep.Enforcer,
		Instrument: dep.Instrument,
	})

	admin := router.NewRouter(router.Config{
		Name:       "certificate.admin",
		Config:     dep.Config,
		UUID:       dep.UUID,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Dedup:      dep.Idempotency,
		DedupTTL:   dep.Config.GetSecond("app.admin_dedup_ttl_seconds"),
	})
	inbound.RegisterAdminEndpoint(admin, uc)

	if dep.Ctx != nil && dep.Messaging != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, admin)
	}

	return &Module{Admin: admin, Usecase: uc}, nil
}
