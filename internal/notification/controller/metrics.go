package controller

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	outcomes metric.Int64Counter
}

func newMetrics(ins instrument.Instrumentation) *metrics {
	counter, err := ins.Meter("notification.controller").Int64Counter(
		"notification.dispatch.outcomes",
		metric.WithDescription("Notification dispatch results by trigger, type and outcome"),
	)
	if err != nil {
		slog.Warn("failed to create dispatch counter", "error", err)
		return &metrics{}
	}
	return &metrics{outcomes: counter}
}

func (m *metrics) record(ctx context.Context, triggerID string, t entity.Type, o Outcome) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("trigger", triggerID),
		attribute.String("type", t.String()),
		attribute.String("outcome", o.String()),
	))
}
