package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/coursebell/internal/certificate"
	certdb "github.com/shandysiswandi/coursebell/internal/certificate/outbound/db"
	certsqlite "github.com/shandysiswandi/coursebell/internal/certificate/outbound/sqlite"
	"github.com/shandysiswandi/coursebell/internal/notification"
	notifdb "github.com/shandysiswandi/coursebell/internal/notification/outbound/db"
	notifsqlite "github.com/shandysiswandi/coursebell/internal/notification/outbound/sqlite"
)

func (a *App) stores() (notification.Store, certificate.Store) {
	if a.sqliteConn != nil {
		return notifsqlite.New(a.sqliteConn, a.clock, a.ins), certsqlite.New(a.sqliteConn, a.ins)
	}
	return notifdb.NewDB(a.dbConn, a.clock, a.ins), certdb.NewDB(a.dbConn, a.ins)
}

func (a *App) initModules() {
	var ctx context.Context
	if a.opts.Consumers {
		ctx = a.ctx
	}

	notifStore, certStore := a.stores()

	if a.config.GetBool("modules.notification.enabled") {
		mod, err := notification.New(notification.Dependency{
			Ctx:         ctx,
			Store:       notifStore,
			Lists:       a.lists,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Mail:        a.mail,
			JWT:         a.jwt,
			Enforcer:    a.casbin,
		})
		if err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
		a.notification = mod
	}

	if a.config.GetBool("modules.certificate.enabled") {
		mod, err := certificate.New(certificate.Dependency{
			Ctx:         ctx,
			Store:       certStore,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			JWT:         a.jwt,
			Enforcer:    a.casbin,
		})
		if err != nil {
			slog.Error("failed to init module certificate", "error", err)
			os.Exit(1)
		}
		a.certificate = mod
	}
}
