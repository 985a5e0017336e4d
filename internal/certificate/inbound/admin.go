package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goroutine"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/shared/event"
)

// Admin actions served on the certificate_admin topic and by the CLI.
const (
	ActionTools          = "tools"
	ActionMigrate        = "migrate"
	ActionRollback       = "rollback"
	ActionDeleteLegacy   = "delete_legacy"
	ActionIsLegacy       = "is_legacy"
	ActionLegacyOfModern = "legacy_of_modern"
	ActionBulkMigrate    = "bulk_migrate"
	ActionBulkRollback   = "bulk_rollback"
)

func RegisterAdminEndpoint(r *router.Router, uc uc) {
	end := &AdminEndpoint{uc: uc}

	r.Handle(ActionTools, end.Tools)
	r.Handle(ActionIsLegacy, end.IsLegacy)
	r.Handle(ActionLegacyOfModern, end.LegacyOfModern)

	r.Handle(ActionMigrate, end.Migrate)
	r.Handle(ActionRollback, end.Rollback)
	r.Handle(ActionDeleteLegacy, end.DeleteLegacy)
	r.Handle(ActionBulkMigrate, end.BulkMigrate)
	r.Handle(ActionBulkRollback, end.BulkRollback)
}

// RegisterMQConsumer serves admin commands published to certificate_admin.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	admin *router.Router,
) {
	name := event.CertificateAdminConsumerCertificate
	if !slices.Contains(cfg.GetArray("modules.certificate.consumer_names"), name) {
		return
	}

	routine.Go(ctx, name, func(pCtx context.Context) error {
		slog.InfoContext(ctx, "Running job for handling consumer", "consumer", name)
		return messenger.Consume(pCtx,
			event.CertificateAdminDestination,
			admin.Consumer(messenger, uuid),
			messaging.WithConsumerName(name),
			messaging.WithAutoAck(true),
			messaging.WithConcurrency(1),
			messaging.WithMaxInFlight(1),
		)
	})
}
