package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/notification/usecase"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"github.com/shandysiswandi/coursebell/internal/shared/event"
)

type MQHandler struct {
	uc        ucConsumer
	uuid      uid.StringID
	validator validator.Validator
	ins       instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := messaging.HeaderValue(msg, router.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// LMSEvent fires a published LMS action at the bound triggers. Malformed
// messages are dropped; only server errors are redelivered.
func (h *MQHandler) LMSEvent(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "LMSEvent")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: lms event", "msg_body", string(body))

	var payload event.LMSEventMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of lms event", "msg_body", string(body), "error", err)
		return nil
	}
	if err := h.validator.Validate(payload); err != nil {
		slog.ErrorContext(ctx, "invalid lms event", "msg_body", string(body), "error", err)
		return nil
	}

	n, err := h.uc.HandleTriggerEvent(ctx, usecase.HandleTriggerEventInput{
		Event:  payload.Event,
		UserID: payload.UserID,
		PostID: payload.PostID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to handle lms event", "msg_body", string(body), "error", err)
		return retryable(err)
	}

	slog.InfoContext(ctx, "lms event handled", "event", payload.Event, "callbacks", n)
	return nil
}

// ProcessQueue runs one processor batch for the scheduled type.
func (h *MQHandler) ProcessQueue(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "ProcessQueue")
	defer span.End()

	body := msg.Body()

	var payload event.ProcessMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of process schedule", "msg_body", string(body), "error", err)
		return nil
	}

	out, err := h.uc.ProcessQueue(ctx, usecase.ProcessQueueInput{Type: payload.Type})
	if err != nil {
		slog.ErrorContext(ctx, "failed to process notification queue", "type", payload.Type, "error", err)
		return retryable(err)
	}

	slog.InfoContext(ctx, "notification queue processed",
		"type", payload.Type,
		"sent", out.Sent,
		"failed", out.Failed,
		"skipped", out.Skipped,
		"rescheduled", out.Rescheduled,
	)
	return nil
}

// retryable keeps server errors for redelivery and drops the rest.
func retryable(err error) error {
	if gerr, ok := goerror.As(err); ok && gerr.Type() != goerror.TypeServer {
		return nil
	}
	return err
}
