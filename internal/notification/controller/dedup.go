package controller

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
)

// DedupGuard reports whether a subscriber already received a trigger's
// notification for the same event.
type DedupGuard struct {
	triggerID string
	store     RecordStore
}

func NewDedupGuard(triggerID string, store RecordStore) *DedupGuard {
	return &DedupGuard{triggerID: triggerID, store: store}
}

// HasReceived matches trigger, type and subscriber, plus post and user when
// the event carries them. A store error counts as not received.
func (g *DedupGuard) HasReceived(ctx context.Context, ev Event, t entity.Type, subscriber string) bool {
	found, err := g.store.HasRecord(ctx, entity.RecordFilter{
		TriggerID:  g.triggerID,
		Type:       t,
		Subscriber: subscriber,
		PostID:     ev.PostID,
		UserID:     ev.UserID,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to check received notification, sending anyway",
			"trigger_id", g.triggerID, "type", t, "subscriber", subscriber, "error", err)
		return false
	}

	return found
}
