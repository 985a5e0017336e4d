package app

import (
	"context"
	"database/sql"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/coursebell/internal/certificate"
	"github.com/shandysiswandi/coursebell/internal/notification"
	"github.com/shandysiswandi/coursebell/internal/notification/outbound/queue"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goroutine"
	"github.com/shandysiswandi/coursebell/internal/pkg/idempotency"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/jwt"
	"github.com/shandysiswandi/coursebell/internal/pkg/mail"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
)

// Options selects how the application runs.
type Options struct {
	// ConfigPath overrides CONFIG_PATH.
	ConfigPath string
	// Consumers starts the broker consumers. CLI commands leave it off and
	// dispatch admin actions in-process.
	Consumers bool
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn     *pgxpool.Pool
	sqliteConn *sql.DB
	cacheConn  *redis.Client
	idemp      idempotency.Idempotency
	lists      queue.Lists
	mail       mail.Mail
	messaging  messaging.Messaging
	casbin     *casbin.Enforcer

	// modules
	notification *notification.Module
	certificate  *certificate.Module

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application and returns an App instance. Any
// initialization failure exits the process.
func New(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initCasbin()
	app.initModules()
	app.initClosers()

	return app
}

// Config exposes the loaded configuration to the CLI.
func (a *App) Config() config.Config { return a.config }

// JWT exposes the token signer to the CLI.
func (a *App) JWT() jwt.JWT { return a.jwt }

// Messaging exposes the broker to the CLI.
func (a *App) Messaging() messaging.Messaging { return a.messaging }

// UUID exposes the correlation id generator to the CLI.
func (a *App) UUID() uid.StringID { return a.uuid }
