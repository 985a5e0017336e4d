// Package email delivers rendered notification records through the mail
// provider.
package email

import (
	"context"
	"strconv"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// messageIDDomain is the right-hand side of Message-ID headers, whose left
// side is the record id so retries of one record share an id.
const messageIDDomain = "notification.coursebell"

type Mail struct {
	client mail.Mail
	from   string
	ins    instrument.Instrumentation
}

// New wraps client. A non-empty from overrides the provider's default sender.
func New(client mail.Mail, from string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, from: from, ins: ins}
}

// SendNotification mails the rendered view of rec to one address.
func (m *Mail) SendNotification(ctx context.Context, to string, rec entity.Record, view entity.View) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendNotification")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("notification.record_id", rec.ID),
		attribute.String("notification.trigger", rec.TriggerID),
	)

	msg := mail.Message{
		From:      m.from,
		To:        []string{to},
		Subject:   view.Subject,
		HTMLBody:  view.Body,
		MessageID: strconv.FormatInt(rec.ID, 10) + "@" + messageIDDomain,
	}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
