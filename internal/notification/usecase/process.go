package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/coursebell/internal/notification/entity"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
)

var errNoAddress = errors.New("subscriber has no email address")

type ProcessQueueInput struct {
	Type string `validate:"required,notification_type"`
}

type ProcessQueueOutput struct {
	Sent    int
	Failed  int
	Skipped int
	// Requeued counts records put back after a store error.
	Requeued    int
	Rescheduled bool
}

// ProcessQueue drains one batch of the type's queue and schedules another
// run when records remain.
func (s *Usecase) ProcessQueue(ctx context.Context, in ProcessQueueInput) (*ProcessQueueOutput, error) {
	ctx, span := s.startSpan(ctx, "ProcessQueue")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}
	if t != entity.TypeEmail {
		return nil, goerror.NewBusiness("Notification type "+t.String()+" has no processor", goerror.CodeInvalidInput)
	}

	// new records enqueued from now on schedule their own run
	if err := s.repoQueue.Unlock(ctx, t); err != nil {
		slog.WarnContext(ctx, "failed to release processor schedule lock", "type", t, "error", err)
	}

	ids, err := s.repoQueue.Pop(ctx, t, s.batchSize())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo pop notification queue", "type", t, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &ProcessQueueOutput{}
	var lost error
	for _, id := range ids {
		status, err := s.processEmail(ctx, id)
		if err != nil {
			if qerr := s.repoQueue.Enqueue(ctx, t, id); qerr != nil {
				slog.ErrorContext(ctx, "failed to requeue notification record", "record_id", id, "error", qerr)
				lost = errors.Join(lost, qerr)
				continue
			}
			out.Requeued++
			continue
		}

		switch status {
		case entity.StatusSent:
			out.Sent++
		case entity.StatusFailed:
			out.Failed++
		default:
			out.Skipped++
		}
	}

	pending, err := s.repoQueue.Pending(ctx, t)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count pending notifications", "type", t, "error", err)
		return out, nil
	}
	if pending > 0 {
		if err := s.repoQueue.ScheduleRun(ctx, t); err != nil {
			slog.ErrorContext(ctx, "failed to reschedule notification processing", "type", t, "pending", pending, "error", err)
			return out, nil
		}
		out.Rescheduled = true
	}

	slog.InfoContext(ctx, "notification batch processed", "type", t, "sent", out.Sent, "failed", out.Failed,
		"skipped", out.Skipped, "requeued", out.Requeued, "pending", pending)

	// records that could not be put back stay new and off the queue
	if lost != nil {
		return out, goerror.NewServer(lost)
	}
	return out, nil
}

// processEmail returns the record's final status, "" when it was skipped,
// or an error when the record could not be loaded and must be retried.
func (s *Usecase) processEmail(ctx context.Context, id int64) (entity.Status, error) {
	rec, err := s.repoDB.GetRecord(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "queued notification record not found", "record_id", id)
		return "", nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get notification record", "record_id", id, "error", err)
		return "", err
	}
	if rec.Status != entity.StatusNew {
		slog.DebugContext(ctx, "queued notification already handled", "record_id", id, "status", rec.Status)
		return "", nil
	}

	status := entity.StatusSent
	if err := s.deliverEmail(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to send notification email", "record_id", id, "subscriber", rec.Subscriber, "error", err)
		status = entity.StatusFailed
	}

	if err := s.repoDB.UpdateRecordStatus(ctx, id, status); err != nil {
		slog.ErrorContext(ctx, "failed to repo update notification record status", "record_id", id, "status", status, "error", err)
	}

	return status, nil
}

func (s *Usecase) deliverEmail(ctx context.Context, rec *entity.Record) error {
	to, err := s.emailAddress(ctx, rec.Subscriber)
	if err != nil {
		return err
	}

	view, err := s.views.Render(ctx, *rec)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	b := retry.WithMaxRetries(s.maxRetries(), retry.NewExponential(s.retryBackoff()))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.repoMail.SendNotification(ctx, to, *rec, view); err != nil {
			slog.WarnContext(ctx, "notification email attempt failed", "record_id", rec.ID, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

type addressInput struct {
	Address string `validate:"required,email"`
}

// emailAddress maps a numeric subscriber to the user's email; anything else
// must already be an address.
func (s *Usecase) emailAddress(ctx context.Context, subscriber string) (string, error) {
	if id, err := strconv.ParseInt(subscriber, 10, 64); err == nil {
		u, err := s.repoDB.GetUser(ctx, id)
		if errors.Is(err, goerror.ErrNotFound) {
			return "", errNoAddress
		}
		if err != nil {
			return "", err
		}
		subscriber = u.Email
	}

	if err := s.validator.Validate(addressInput{Address: subscriber}); err != nil {
		return "", errNoAddress
	}
	return subscriber, nil
}
