// Package queue holds the per-type lists of record ids awaiting a
// processor run and the schedule lock that keeps at most one run pending
// per type.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/coursebell/internal/notification/controller"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/idempotency"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Lists stores record ids per list key in FIFO order.
type Lists interface {
	Push(ctx context.Context, key string, ids ...int64) error
	Pop(ctx context.Context, key string, n int) ([]int64, error)
	Len(ctx context.Context, key string) (int64, error)
}

type Config struct {
	// Delay postpones the processor run after the first enqueue.
	Delay time.Duration
	// LockTTL bounds how long a schedule stays pending when the run never
	// happens.
	LockTTL time.Duration
}

type Queue struct {
	lists     Lists
	tracker   idempotency.Idempotency
	publisher messaging.Publisher
	cfg       Config
	ins       instrument.Instrumentation
}

func New(lists Lists, tracker idempotency.Idempotency, publisher messaging.Publisher, cfg Config, ins instrument.Instrumentation) *Queue {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	return &Queue{
		lists:     lists,
		tracker:   tracker,
		publisher: publisher,
		cfg:       cfg,
		ins:       ins,
	}
}

func listKey(t entity.Type) string {
	return "notification:queue:" + t.String()
}

func lockKey(t entity.Type) string {
	return "notification:schedule:" + t.String()
}

func (q *Queue) startSpan(ctx context.Context, name string, t entity.Type) (context.Context, trace.Span) {
	ctx, span := q.ins.Tracer("notification.outbound.queue").Start(ctx, name)
	span.SetAttributes(attribute.String("notification.type", t.String()))
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (q *Queue) Enqueue(ctx context.Context, t entity.Type, id int64) (err error) {
	ctx, span := q.startSpan(ctx, "Enqueue", t)
	defer func() { endSpan(span, err) }()

	return q.lists.Push(ctx, listKey(t), id)
}

// Pop removes up to n ids from the head of the list.
func (q *Queue) Pop(ctx context.Context, t entity.Type, n int) (_ []int64, err error) {
	ctx, span := q.startSpan(ctx, "Pop", t)
	defer func() { endSpan(span, err) }()

	if n <= 0 {
		return nil, nil
	}

	return q.lists.Pop(ctx, listKey(t), n)
}

func (q *Queue) Pending(ctx context.Context, t entity.Type) (_ int64, err error) {
	ctx, span := q.startSpan(ctx, "Pending", t)
	defer func() { endSpan(span, err) }()

	return q.lists.Len(ctx, listKey(t))
}

// ScheduleRun publishes a process message for t unless one is already
// pending. The lock is held until Unlock or LockTTL.
func (q *Queue) ScheduleRun(ctx context.Context, t entity.Type) (err error) {
	ctx, span := q.startSpan(ctx, "ScheduleRun", t)
	defer func() { endSpan(span, err) }()

	state, err := q.tracker.Acquire(ctx, lockKey(t), q.cfg.LockTTL)
	if err != nil {
		return err
	}
	if state != idempotency.StateNone {
		span.SetAttributes(attribute.Bool("notification.schedule.pending", true))
		return nil
	}

	body, err := json.Marshal(event.ProcessMessage{Type: t.String()})
	if err != nil {
		q.release(ctx, t)
		return err
	}

	msg := messaging.OutgoingMessage{Body: body, Key: []byte(t.String()), Delay: q.cfg.Delay}
	_, err = q.publisher.Publish(ctx, event.NotificationProcessDestination, msg)
	if errors.Is(err, messaging.ErrUnsupported) && msg.Delay > 0 {
		msg.Delay = 0
		_, err = q.publisher.Publish(ctx, event.NotificationProcessDestination, msg)
	}
	if err != nil {
		q.release(ctx, t)
		return err
	}

	return nil
}

// Unlock lets the next ScheduleRun of t publish again.
func (q *Queue) Unlock(ctx context.Context, t entity.Type) (err error) {
	ctx, span := q.startSpan(ctx, "Unlock", t)
	defer func() { endSpan(span, err) }()

	return q.tracker.Release(ctx, lockKey(t))
}

func (q *Queue) release(ctx context.Context, t entity.Type) {
	if err := q.tracker.Release(ctx, lockKey(t)); err != nil {
		slog.WarnContext(ctx, "failed to release schedule lock", "type", t.String(), "error", err)
	}
}

// Sink binds the queue of t for the dispatcher.
func (q *Queue) Sink(t entity.Type) controller.AsyncSink {
	return sink{q: q, t: t}
}

type sink struct {
	q *Queue
	t entity.Type
}

func (s sink) Enqueue(ctx context.Context, recordID int64) error {
	return s.q.Enqueue(ctx, s.t, recordID)
}

func (s sink) ScheduleRun(ctx context.Context) error {
	return s.q.ScheduleRun(ctx, s.t)
}
