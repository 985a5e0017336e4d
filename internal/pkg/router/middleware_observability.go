package router

import (
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedPayloadBytes = 32 * 1024 // 32KB

// payloadForLog returns the payload as a string so the log handler can mask
// its secret keys. Invalid JSON is truncated and binary data omitted.
func payloadForLog(payload []byte) string {
	switch {
	case len(payload) == 0:
		return ""
	case json.Valid(payload):
		return string(payload)
	case !utf8.Valid(payload):
		return "<binary payload omitted>"
	case len(payload) > maxLoggedPayloadBytes:
		return string(payload[:maxLoggedPayloadBytes]) + "...(truncated)"
	default:
		return string(payload)
	}
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if gerr, ok := goerror.As(err); ok {
		return gerr.Code().String()
	}
	return goerror.CodeInternal.String()
}

func middlewareObservability(name string, ins instrument.Instrumentation) Middleware {
	if name == "" {
		name = "admin"
	}

	tracer := ins.Tracer(name + ".router")
	meter := ins.Meter(name + ".router")

	commandCounter, err := meter.Int64Counter(name+".commands", metric.WithDescription("Number of admin commands handled"))
	if err != nil {
		slog.Error("failed to create admin command counter", "error", err)
	}

	durationHistogram, err := meter.Float64Histogram(name+".duration", metric.WithDescription("Admin command duration in milliseconds"))
	if err != nil {
		slog.Error("failed to create admin duration histogram", "error", err)
	}

	return func(next Handler) Handler {
		return func(r *Request) (any, error) {
			start := time.Now()

			ctx, span := tracer.Start(r.Context(), name+" "+r.Action,
				trace.WithAttributes(attribute.String("admin.action", r.Action)),
			)
			defer span.End()

			slog.InfoContext(ctx, "admin command received",
				"router", name,
				"action", r.Action,
				"payload", payloadForLog(r.Payload),
			)

			resp, err := next(r.WithContext(ctx))

			code := errorCode(err)
			attrs := []attribute.KeyValue{
				attribute.String("admin.action", r.Action),
				attribute.Bool("admin.ok", err == nil),
				attribute.String("admin.code", code),
			}

			if err != nil {
				span.RecordError(err)
				if code == goerror.CodeInternal.String() {
					span.SetStatus(codes.Error, err.Error())
				}
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.SetAttributes(attrs...)

			if commandCounter != nil {
				commandCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
			if durationHistogram != nil {
				durationHistogram.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(attrs...))
			}

			slog.InfoContext(ctx, "admin command handled",
				"router", name,
				"action", r.Action,
				"ok", err == nil,
				"code", code,
				"latency_ms", time.Since(start).Milliseconds(),
			)

			return resp, err
		}
	}
}
