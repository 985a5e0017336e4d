package controller

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ResolveFunc overrides role resolution. It reports handled=false to defer
// to the next override or the trigger.
type ResolveFunc func(ctx context.Context, ev Event, role string) (subscriber string, handled bool)

// Resolver maps a subscriber role to a recipient identity.
type Resolver struct {
	trigger   Trigger
	overrides []ResolveFunc
}

func NewResolver(trigger Trigger, overrides ...ResolveFunc) *Resolver {
	return &Resolver{trigger: trigger, overrides: overrides}
}

// Resolve returns "" for unknown roles and roles without an identity.
func (r *Resolver) Resolve(ctx context.Context, ev Event, role string) string {
	if role == "" {
		return ""
	}
	for _, override := range r.overrides {
		if sub, ok := override(ctx, ev, role); ok {
			return sub
		}
	}
	return r.trigger.Subscriber(ctx, ev, role)
}

// UserSubscriber formats a user id as a subscriber identity; non-positive
// ids have none.
func UserSubscriber(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// ParseCustomRecipients splits a comma list, trimming tokens and dropping
// empty ones.
func ParseCustomRecipients(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
