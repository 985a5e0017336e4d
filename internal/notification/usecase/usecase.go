package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetRecord(ctx context.Context, id int64) (*entity.Record, error)
	ListRecords(ctx context.Context, subscriber string, t entity.Type, limit int32) ([]entity.Record, error)
	UpdateRecordStatus(ctx context.Context, id int64, status entity.Status) error
	GetUser(ctx context.Context, id int64) (*entity.User, error)
}

// repoQueue is the processor side of the per-type record queues.
type repoQueue interface {
	Enqueue(ctx context.Context, t entity.Type, id int64) error
	Pop(ctx context.Context, t entity.Type, n int) ([]int64, error)
	Pending(ctx context.Context, t entity.Type) (int64, error)
	ScheduleRun(ctx context.Context, t entity.Type) error
	Unlock(ctx context.Context, t entity.Type) error
}

type repoMail interface {
	SendNotification(ctx context.Context, to string, rec entity.Record, view entity.View) error
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	registry  *controller.Registry
	repoDB    repoDB
	repoQueue repoQueue
	repoMail  repoMail
	views     controller.ViewRenderer
	cfg       config.Config
	clock     clock.Clocker
	validator validator.Validator
	enforcer  enforcer
	ins       instrument.Instrumentation
}

type Dependency struct {
	Registry   *controller.Registry
	RepoDB     repoDB
	RepoQueue  repoQueue
	RepoMail   repoMail
	Views      controller.ViewRenderer
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	Enforcer   enforcer
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		registry:  dep.Registry,
		repoDB:    dep.RepoDB,
		repoQueue: dep.RepoQueue,
		repoMail:  dep.RepoMail,
		views:     dep.Views,
		cfg:       dep.Config,
		clock:     dep.Clock,
		validator: dep.Validator,
		enforcer:  dep.Enforcer,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) batchSize() int {
	if n := s.cfg.GetInt("modules.notification.processor.batch_size"); n > 0 {
		return n
	}
	return 50
}

func (s *Usecase) maxRetries() uint64 {
	if n := s.cfg.GetUint64("modules.notification.processor.max_retries"); n > 0 {
		return n
	}
	return 3
}

func (s *Usecase) retryBackoff() time.Duration {
	if d := s.cfg.GetMillisecond("modules.notification.processor.retry_backoff"); d > 0 {
		return d
	}
	return 500 * time.Millisecond
}
