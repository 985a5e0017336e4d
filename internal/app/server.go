package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	schema "github.com/shandysiswandi/coursebell/db"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/shandysiswandi/coursebell/internal/pkg/sqlitedb"
)

const (
	ModuleNotification = "notification"
	ModuleCertificate  = "certificate"
)

// ErrModuleDisabled is returned for admin commands of a disabled module.
var ErrModuleDisabled = errors.New("app: module is disabled")

// Start returns a channel closed once a termination signal arrives. The
// broker consumers are already running when Options.Consumers is set.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
		case <-a.ctx.Done():
		}

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	slog.Info("coursebell started", "consumers", a.opts.Consumers, "messaging", a.config.GetString("messaging.driver"))
	return terminateChan
}

// Admin returns the admin command router of a module.
func (a *App) Admin(module string) (*router.Router, error) {
	switch {
	case module == ModuleNotification && a.notification != nil:
		return a.notification.Admin, nil
	case module == ModuleCertificate && a.certificate != nil:
		return a.certificate.Admin, nil
	default:
		return nil, ErrModuleDisabled
	}
}

// Migrate applies the embedded schema to the configured database.
func (a *App) Migrate(ctx context.Context) error {
	if a.sqliteConn != nil {
		return sqlitedb.Migrate(ctx, a.sqliteConn)
	}

	stmts, err := schema.UpMigrations()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := a.dbConn.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Stop cancels the consumers, waits for them and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
