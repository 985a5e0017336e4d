package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/clock"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
)

type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one SendOne call. RecordID is set only for
// OutcomeCreated. Err carries the persistence failure for OutcomeFailed, or
// an enqueue failure alongside OutcomeCreated, in which case the record has
// been marked failed.
type Result struct {
	Outcome  Outcome
	RecordID int64
	Queued   bool
	Err      error
}

const (
	enqueueAttempts = 3
	enqueueBackoff  = 50 * time.Millisecond
)

// Dispatcher delivers one (subscriber, type) pair.
type Dispatcher struct {
	triggerID      string
	autoDedup      bool
	guard          *DedupGuard
	store          RecordStore
	sinks          map[entity.Type]AsyncSink
	uid            uid.NumberID
	clock          clock.Clocker
	metrics        *metrics
	enqueueBackoff time.Duration
}

// SendOne skips on a dedup hit, persists a new record, and enqueues it to
// the type's sink when one exists.
func (d *Dispatcher) SendOne(ctx context.Context, ev Event, t entity.Type, subscriber string, force bool) Result {
	res := d.sendOne(ctx, ev, t, subscriber, force)
	d.metrics.record(ctx, d.triggerID, t, res.Outcome)
	return res
}

func (d *Dispatcher) sendOne(ctx context.Context, ev Event, t entity.Type, subscriber string, force bool) Result {
	if d.autoDedup && !force && d.guard.HasReceived(ctx, ev, t, subscriber) {
		slog.DebugContext(ctx, "notification already received, skipped",
			"trigger_id", d.triggerID, "type", t, "subscriber", subscriber)
		return Result{Outcome: OutcomeSkipped}
	}

	id := d.uid.Generate()
	if err := d.store.CreateRecord(ctx, entity.CreateRecord{
		ID:         id,
		TriggerID:  d.triggerID,
		Subscriber: subscriber,
		Type:       t,
		PostID:     ev.PostID,
		UserID:     ev.UserID,
		Status:     entity.StatusNew,
		CreatedAt:  d.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to create notification record",
			"trigger_id", d.triggerID, "type", t, "subscriber", subscriber, "error", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	res := Result{Outcome: OutcomeCreated, RecordID: id}

	sink, ok := d.sinks[t]
	if !ok || sink == nil {
		return res
	}

	if err := d.enqueue(ctx, sink, id); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue notification", "record_id", id, "type", t, "error", err)
		// a record left new with nothing queued would never be processed
		// and would still count as received
		if uerr := d.store.UpdateRecordStatus(ctx, id, entity.StatusFailed); uerr != nil {
			slog.ErrorContext(ctx, "failed to mark notification record failed", "record_id", id, "error", uerr)
			err = errors.Join(err, uerr)
		}
		res.Err = err
		return res
	}
	res.Queued = true

	if err := sink.ScheduleRun(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to schedule notification processing", "record_id", id, "type", t, "error", err)
		res.Err = err
	}

	return res
}

func (d *Dispatcher) enqueue(ctx context.Context, sink AsyncSink, id int64) error {
	backoff := d.enqueueBackoff
	if backoff <= 0 {
		backoff = enqueueBackoff
	}

	b := retry.WithMaxRetries(enqueueAttempts-1, retry.NewExponential(backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := sink.Enqueue(ctx, id); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
