package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/notification/inbound"
	"github.com/shandysiswandi/coursebell/internal/notification/outbound/email"
	"github.com/shandysiswandi/coursebell/internal/notification/outbound/queue"
	"github.com/shandysiswandi/coursebell/internal/notification/trigger"
	"github.com/shandysiswandi/coursebell/internal/notification/usecase"
	"github.com/shandysiswandi/coursebell/internal/notification/view"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goroutine"
	"github.com/shandysiswandi/coursebell/internal/pkg/idempotency"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/mail"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
)

// Store is everything the module reads and writes. The postgres and the
// sqlite outbound stores both implement it.
type Store interface {
	controller.RecordStore
	controller.OptionStore

	GetRecord(ctx context.Context, id int64) (*entity.Record, error)
	ListRecords(ctx context.Context, subscriber string, t entity.Type, limit int32) ([]entity.Record, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	GetContent(ctx context.Context, id int64) (*entity.Content, error)
	GetTemplate(ctx context.Context, triggerID string, t entity.Type) (*entity.Template, error)
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Dependency struct {
	// Ctx starts the broker consumers; nil for CLI runs.
	Ctx         context.Context
	Store       Store
	Lists       queue.Lists
	Idempotency idempotency.Idempotency
	Messaging   messaging.Messaging
	Config      config.Config
	Instrument  instrument.Instrumentation
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Mail        mail.Mail
	JWT         jwt.JWT
	Enforcer    enforcer
}

// Module is the wired notification module.
type Module struct {
	// Registry holds one controller per trigger.
	Registry *controller.Registry
	// Admin serves the notification_admin actions.
	Admin   *router.Router
	Usecase *usecase.Usecase
}

func New(dep Dependency) (*Module, error) {
	if dep.Store == nil || dep.Lists == nil || dep.Idempotency == nil || dep.Messaging == nil {
		return nil, errors.New("notification: store, lists, idempotency and messaging are required")
	}

	q := queue.New(dep.Lists, dep.Idempotency, dep.Messaging, queue.Config{
		Delay:   dep.Config.GetMillisecond("modules.notification.processor.schedule_delay"),
		LockTTL: dep.Config.GetSecond("modules.notification.processor.schedule_lock_ttl"),
	}, dep.Instrument)

	views := view.New(view.Dependency{
		Templates:  dep.Store,
		Users:      dep.Store,
		Contents:   dep.Store,
		SiteName:   dep.Config.GetString("modules.notification.site_name"),
		Instrument: dep.Instrument,
	})

	// basic records are read in-app and never queued
	sinks := map[entity.Type]controller.AsyncSink{
		entity.TypeEmail: q.Sink(entity.TypeEmail),
	}

	registry := controller.NewRegistry()
	for _, def := range trigger.Definitions(dep.Store) {
		c, err := controller.New(controller.Dependency{
			Trigger:    def.Trigger,
			Config:     def.Config,
			Store:      dep.Store,
			Options:    dep.Store,
			Sinks:      sinks,
			Views:      views,
			UID:        dep.UID,
			Clock:      dep.Clock,
			Validator:  dep.Validator,
			Instrument: dep.Instrument,
		})
		if err != nil {
			return nil, fmt.Errorf("notification: controller %s: %w", def.Trigger.ID(), err)
		}
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("notification: register %s: %w", def.Trigger.ID(), err)
		}
	}

	uc := usecase.NewNotification(usecase.Dependency{
		Registry:   registry,
		RepoDB:     dep.Store,
		RepoQueue:  q,
		RepoMail:   email.New(dep.Mail, dep.Config.GetString("modules.notification.email.from"), dep.Instrument),
		Views:      views,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Enforcer:   dep.Enforcer,
		Instrument: dep.Instrument,
	})

	admin := router.NewRouter(router.Config{
		Name:       "notification.admin",
		Config:     dep.Config,
		UUID:       dep.UUID,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Dedup:      dep.Idempotency,
		DedupTTL:   dep.Config.GetSecond("app.admin_dedup_ttl_seconds"),
	})
	inbound.RegisterAdminEndpoint(admin, uc)

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, dep.Validator, admin, uc, dep.Instrument)
	}

	return &Module{Registry: registry, Admin: admin, Usecase: uc}, nil
}
